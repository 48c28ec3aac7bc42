package model

import (
	"testing"
	"time"
)

// TestFiscalYearRange 测试财年区间计算
func TestFiscalYearRange(t *testing.T) {
	tests := []struct {
		now       string
		wantStart string
		wantEnd   string
	}{
		{"2025-06-15", "2025-04-01", "2026-03-31"},
		{"2025-04-01", "2025-04-01", "2026-03-31"},
		{"2025-03-31", "2024-04-01", "2025-03-31"},
		{"2026-01-02", "2025-04-01", "2026-03-31"},
	}

	for _, tt := range tests {
		now, _ := time.Parse("2006-01-02", tt.now)
		start, end := FiscalYearRange(now)
		if DayKey(start) != tt.wantStart || DayKey(end) != tt.wantEnd {
			t.Errorf("FiscalYearRange(%s) = %s..%s, want %s..%s",
				tt.now, DayKey(start), DayKey(end), tt.wantStart, tt.wantEnd)
		}
	}
}

// TestEnumerateDays 测试日期枚举
func TestEnumerateDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	days := EnumerateDays(start, end)
	if len(days) != 7 {
		t.Fatalf("EnumerateDays should return 7 days, got %d", len(days))
	}
	if !days[0].Equal(start) || !days[6].Equal(end) {
		t.Errorf("days range = %v..%v, want %v..%v", days[0], days[6], start, end)
	}
}

// TestEnumerateDaysSingle 单日区间有效
func TestEnumerateDaysSingle(t *testing.T) {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	days := EnumerateDays(d, d)
	if len(days) != 1 {
		t.Fatalf("single day range should return 1 day, got %d", len(days))
	}
}

// TestEnumerateDaysReversed start > end 返回空集而不是报错
func TestEnumerateDaysReversed(t *testing.T) {
	start := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	days := EnumerateDays(start, end)
	if len(days) != 0 {
		t.Errorf("reversed range should return empty, got %d days", len(days))
	}
}

// TestGranularityNormalize 未知粒度回退为 D
func TestGranularityNormalize(t *testing.T) {
	if Granularity("W").Normalize() != GranularityWeek {
		t.Error("W should stay W")
	}
	if Granularity("quarter").Normalize() != GranularityDay {
		t.Error("unknown granularity should fall back to D")
	}
	if Granularity("").Normalize() != GranularityDay {
		t.Error("empty granularity should fall back to D")
	}
}

// TestDayClassLegendGroup 普通工作日分组显示为 Arbeitstag
func TestDayClassLegendGroup(t *testing.T) {
	if DayWorkday.LegendGroup() != "Arbeitstag" {
		t.Errorf("workday group = %s, want Arbeitstag", DayWorkday.LegendGroup())
	}
	if DayHoliday.LegendGroup() != "Feiertag" {
		t.Errorf("holiday group = %s, want Feiertag", DayHoliday.LegendGroup())
	}
}
