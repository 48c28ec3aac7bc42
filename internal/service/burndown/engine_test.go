package burndown

import (
	"math"
	"testing"

	"github.com/ldilba/faktura-statistik/internal/calendar"
	"github.com/ldilba/faktura-statistik/internal/model"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// TestComputeIdealPlainWeek 一周无预订：理想线 [1,2,3,4,5,5,5]，实际线全零
func TestComputeIdealPlainWeek(t *testing.T) {
	// 2025-06-02 (周一) 到 2025-06-08 (周日)
	r := Compute(nil, nil, day("2025-06-02"), day("2025-06-08"), 5, noHolidays())

	wantIdeal := []float64{1, 2, 3, 4, 5, 5, 5}
	if len(r.Ideal) != len(wantIdeal) {
		t.Fatalf("Ideal length = %d, want %d", len(r.Ideal), len(wantIdeal))
	}
	for i, want := range wantIdeal {
		if !almostEqual(r.Ideal[i], want) {
			t.Errorf("Ideal[%d] = %v, want %v", i, r.Ideal[i], want)
		}
		if r.Actual[i] != 0 {
			t.Errorf("Actual[%d] = %v, want 0", i, r.Actual[i])
		}
	}
}

// TestComputeActualCumulative 第 3 天预订 8 小时：累计实际 [0,0,1,1,1]
func TestComputeActualCumulative(t *testing.T) {
	billable := []model.TimeEntry{
		{Date: day("2025-06-04"), Hours: 8, ProjectCode: "K100", ShortText: "Projekt A"},
	}

	r := Compute(billable, nil, day("2025-06-02"), day("2025-06-06"), 5, noHolidays())

	want := []float64{0, 0, 1, 1, 1}
	for i, w := range want {
		if !almostEqual(r.Actual[i], w) {
			t.Errorf("Actual[%d] = %v, want %v", i, r.Actual[i], w)
		}
	}
}

// TestComputeIdealReachesTarget 理想线在最后一个可用工作日恰好到达目标
func TestComputeIdealReachesTarget(t *testing.T) {
	all := []model.TimeEntry{
		{Date: day("2025-06-10"), Position: model.PositionVacation},
		{Date: day("2025-06-12"), Position: model.PositionSick},
	}
	provider := &calendar.FixedProvider{Dates: map[string]string{
		"2025-06-09": "Pfingstmontag",
	}}

	r := Compute(nil, all, day("2025-06-02"), day("2025-06-15"), 37.5, provider)

	last := r.Ideal[len(r.Ideal)-1]
	if !almostEqual(last, 37.5) {
		t.Errorf("final ideal = %v, want 37.5", last)
	}
}

// TestComputeMonotonicity 实际线和理想线都单调不减
func TestComputeMonotonicity(t *testing.T) {
	billable := []model.TimeEntry{
		{Date: day("2025-06-03"), Hours: 4, ProjectCode: "K100"},
		{Date: day("2025-06-05"), Hours: 10, ProjectCode: "K100"},
		{Date: day("2025-06-11"), Hours: 8, ProjectCode: "X200"},
	}

	r := Compute(billable, nil, day("2025-06-02"), day("2025-06-15"), 10, noHolidays())

	for i := 1; i < len(r.Days); i++ {
		if r.Actual[i] < r.Actual[i-1]-tolerance {
			t.Errorf("Actual not monotone at %d: %v < %v", i, r.Actual[i], r.Actual[i-1])
		}
		if r.Ideal[i] < r.Ideal[i-1]-tolerance {
			t.Errorf("Ideal not monotone at %d: %v < %v", i, r.Ideal[i], r.Ideal[i-1])
		}
	}
}

// TestComputeNoAvailableDays 没有可用工作日时理想线保持为零
func TestComputeNoAvailableDays(t *testing.T) {
	// 周六到周日
	r := Compute(nil, nil, day("2025-06-07"), day("2025-06-08"), 10, noHolidays())

	for i, v := range r.Ideal {
		if v != 0 {
			t.Errorf("Ideal[%d] = %v, want 0", i, v)
		}
	}
}

// TestComputeZeroTarget 目标为 0 时理想线退化为平线
func TestComputeZeroTarget(t *testing.T) {
	r := Compute(nil, nil, day("2025-06-02"), day("2025-06-06"), 0, noHolidays())
	for i, v := range r.Ideal {
		if v != 0 {
			t.Errorf("Ideal[%d] = %v, want 0", i, v)
		}
	}
}

// TestComputeClassificationPriority 节假日落在周末时分类为 Feiertag
func TestComputeClassificationPriority(t *testing.T) {
	provider := &calendar.FixedProvider{Dates: map[string]string{
		"2025-06-07": "Testfeiertag", // 周六
	}}

	r := Compute(nil, nil, day("2025-06-07"), day("2025-06-07"), 0, provider)

	if r.Records[0].Class != model.DayHoliday {
		t.Errorf("class = %s, want Feiertag", r.Records[0].Class)
	}
	if r.Records[0].Color != "grey" {
		t.Errorf("color = %s, want grey", r.Records[0].Color)
	}
}

// TestComputeDayRecordStyling 分类、颜色和图例分组
func TestComputeDayRecordStyling(t *testing.T) {
	all := []model.TimeEntry{
		{Date: day("2025-06-03"), Position: model.PositionVacation},
		{Date: day("2025-06-04"), Position: model.PositionSick},
	}

	r := Compute(nil, all, day("2025-06-02"), day("2025-06-08"), 5, noHolidays())

	cases := []struct {
		idx   int
		class model.DayClass
		color string
		group string
	}{
		{0, model.DayWorkday, "#1f77b4", "Arbeitstag"},
		{1, model.DayVacation, "orange", "Urlaub"},
		{2, model.DaySick, "purple", "Krankheit"},
		{5, model.DayWeekend, "green", "Wochenende"},
	}
	for _, c := range cases {
		rec := r.Records[c.idx]
		if rec.Class != c.class || rec.Color != c.color || rec.Group != c.group {
			t.Errorf("Records[%d] = {%s %s %s}, want {%s %s %s}",
				c.idx, rec.Class, rec.Color, rec.Group, c.class, c.color, c.group)
		}
	}
}

// TestComputeOpacity 非工作日 0.6，最后记账日期之后 0.4（周末也被覆盖）
func TestComputeOpacity(t *testing.T) {
	billable := []model.TimeEntry{
		{Date: day("2025-06-04"), Hours: 8, ProjectCode: "K100"},
	}

	r := Compute(billable, nil, day("2025-06-02"), day("2025-06-08"), 5, noHolidays())

	// 周一：工作日，有记账历史之前
	if r.Records[0].Opacity != model.OpacityDefault {
		t.Errorf("Monday opacity = %v, want %v", r.Records[0].Opacity, model.OpacityDefault)
	}
	// 周四：最后记账日 (6-04) 之后的工作日
	if r.Records[3].Opacity != model.OpacityProjected {
		t.Errorf("Thursday opacity = %v, want %v", r.Records[3].Opacity, model.OpacityProjected)
	}
	// 周六：未来的周末必须是 0.4 而不是 0.6
	if r.Records[5].Opacity != model.OpacityProjected {
		t.Errorf("future Saturday opacity = %v, want %v", r.Records[5].Opacity, model.OpacityProjected)
	}
	if !r.Records[5].Projected {
		t.Error("future Saturday should be projected")
	}
}

// TestComputeOpacityWithoutBookings 没有记账时不存在预测日
func TestComputeOpacityWithoutBookings(t *testing.T) {
	r := Compute(nil, nil, day("2025-06-02"), day("2025-06-08"), 5, noHolidays())

	// 周末保持 0.6
	if r.Records[5].Opacity != model.OpacityNonWorking {
		t.Errorf("Saturday opacity = %v, want %v", r.Records[5].Opacity, model.OpacityNonWorking)
	}
	for i, rec := range r.Records {
		if rec.Projected {
			t.Errorf("Records[%d] should not be projected without bookings", i)
		}
	}
}

// TestComputeConservation 理想线增量之和等于目标
func TestComputeConservation(t *testing.T) {
	all := []model.TimeEntry{
		{Date: day("2025-06-06"), Position: model.PositionVacation},
	}

	r := Compute(nil, all, day("2025-06-02"), day("2025-06-30"), 20, noHolidays())

	sum := r.Ideal[0]
	for i := 1; i < len(r.Ideal); i++ {
		sum += r.Ideal[i] - r.Ideal[i-1]
	}
	if !almostEqual(sum, 20) {
		t.Errorf("sum of increments = %v, want 20", sum)
	}
}

// TestComputeReversedRange start > end 返回空结果
func TestComputeReversedRange(t *testing.T) {
	r := Compute(nil, nil, day("2025-06-08"), day("2025-06-02"), 5, noHolidays())
	if len(r.Days) != 0 || len(r.Actual) != 0 || len(r.Ideal) != 0 || len(r.Records) != 0 {
		t.Errorf("reversed range should yield empty result, got %d days", len(r.Days))
	}
}

// TestDynamicTarget 年度目标按可用天数折算到子区间
func TestDynamicTarget(t *testing.T) {
	now := day("2025-06-15")
	// 财年 2025-04-01..2026-03-31
	annual := 160.0

	full := DynamicTarget(nil, day("2025-04-01"), day("2026-03-31"), annual, now, noHolidays())
	if !almostEqual(full, annual) {
		t.Errorf("full fiscal year target = %v, want %v", full, annual)
	}

	// 一周子区间：目标按比例缩小
	week := DynamicTarget(nil, day("2025-06-02"), day("2025-06-08"), annual, now, noHolidays())
	if week <= 0 || week >= annual {
		t.Errorf("week target = %v, want between 0 and %v", week, annual)
	}
}

// TestDynamicTargetEmptyFiscalYear 财年内没有可用天时返回 0
func TestDynamicTargetEmptyFiscalYear(t *testing.T) {
	// 所有工作日都标记为休假
	var all []model.TimeEntry
	fyStart, fyEnd := model.FiscalYearRange(day("2025-06-15"))
	for d := fyStart; !d.After(fyEnd); d = d.AddDate(0, 0, 1) {
		all = append(all, model.TimeEntry{Date: d, Position: model.PositionVacation})
	}

	got := DynamicTarget(all, day("2025-06-02"), day("2025-06-08"), 160, day("2025-06-15"), noHolidays())
	if got != 0 {
		t.Errorf("target = %v, want 0", got)
	}
}
