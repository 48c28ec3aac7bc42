package model

import "time"

// Granularity 聚合粒度（与前端图表约定的取值一致）
type Granularity string

const (
	GranularityDay   Granularity = "D"
	GranularityWeek  Granularity = "W"
	GranularityMonth Granularity = "ME"
)

// Normalize 未知取值回退为按日聚合
func (g Granularity) Normalize() Granularity {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g
	default:
		return GranularityDay
	}
}

// FiscalYearRange 计算 now 所属的财年区间（4月1日 — 次年3月31日）
// 1-3 月属于上一年开始的财年
func FiscalYearRange(now time.Time) (start, end time.Time) {
	year := now.Year()
	if now.Month() < time.April {
		year--
	}
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Day 截断到日（UTC 零点），作为全部日期运算的规范形式
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey 日期的字符串键，用于集合查找
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// EnumerateDays 枚举 [start, end] 闭区间内的每个自然日，升序
// start > end 返回空切片
func EnumerateDays(start, end time.Time) []time.Time {
	start = Day(start)
	end = Day(end)
	if start.After(end) {
		return []time.Time{}
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
