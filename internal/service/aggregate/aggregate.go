package aggregate

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/ldilba/faktura-statistik/internal/calendar"
	"github.com/ldilba/faktura-statistik/internal/model"
)

// PeriodEnd 日期所属聚合周期的结束日
// 周按周日结束，月按当月最后一天结束，日返回自身
func PeriodEnd(d time.Time, g model.Granularity) time.Time {
	d = model.Day(d)
	switch g.Normalize() {
	case model.GranularityWeek:
		offset := (7 - int(d.Weekday())) % 7
		return d.AddDate(0, 0, offset)
	case model.GranularityMonth:
		firstOfNext := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		return firstOfNext.AddDate(0, 0, -1)
	default:
		return d
	}
}

// ResampleLast 把按日的累计序列降采样到指定粒度
// 取每个周期内观察到的最后一个值（保持累计语义），没有数据的周期被丢弃；
// 粒度为日时原样返回副本
func ResampleLast(days []time.Time, values []float64, g model.Granularity) ([]time.Time, []float64) {
	g = g.Normalize()
	if g == model.GranularityDay {
		outDays := make([]time.Time, len(days))
		outValues := make([]float64, len(values))
		copy(outDays, days)
		copy(outValues, values)
		return outDays, outValues
	}

	var periods []time.Time
	last := make(map[string]float64)
	for i, d := range days {
		if i >= len(values) {
			break
		}
		period := PeriodEnd(d, g)
		key := model.DayKey(period)
		if _, ok := last[key]; !ok {
			periods = append(periods, period)
		}
		last[key] = values[i]
	}

	outValues := make([]float64, len(periods))
	for i, p := range periods {
		outValues[i] = last[model.DayKey(p)]
	}
	return periods, outValues
}

// ResampleRecordsLast 把每日记录降采样到指定粒度
// 每个周期保留最后一条记录，日期改写为周期结束日；粒度为日时返回副本
func ResampleRecordsLast(records []model.DayRecord, g model.Granularity) []model.DayRecord {
	g = g.Normalize()
	if g == model.GranularityDay {
		out := make([]model.DayRecord, len(records))
		copy(out, records)
		return out
	}

	var periods []time.Time
	last := make(map[string]model.DayRecord)
	for _, rec := range records {
		period := PeriodEnd(rec.Date, g)
		key := model.DayKey(period)
		if _, ok := last[key]; !ok {
			periods = append(periods, period)
		}
		rec.Date = period
		last[key] = rec
	}

	out := make([]model.DayRecord, len(periods))
	for i, p := range periods {
		out[i] = last[model.DayKey(p)]
	}
	return out
}

// IntervalProjectSum 周期 × 项目的工时合计（小时）
type IntervalProjectSum struct {
	Period  time.Time `json:"period"`
	Project string    `json:"project"`
	Hours   float64   `json:"hours"`
}

// SumByIntervalAndProject 把 all 视图按周期和项目简称分组汇总原始工时
// 未知粒度回退为按日；start > end 返回空结果
func SumByIntervalAndProject(entries []model.TimeEntry, start, end time.Time, g model.Granularity) []IntervalProjectSum {
	start = model.Day(start)
	end = model.Day(end)
	g = g.Normalize()

	filtered := lo.Filter(entries, func(e model.TimeEntry, _ int) bool {
		return e.InRange(start, end)
	})

	type groupKey struct {
		period  string
		project string
	}
	sums := make(map[groupKey]*IntervalProjectSum)
	for _, e := range filtered {
		period := PeriodEnd(e.Date, g)
		key := groupKey{period: model.DayKey(period), project: e.ShortText}
		if _, ok := sums[key]; !ok {
			sums[key] = &IntervalProjectSum{Period: period, Project: e.ShortText}
		}
		sums[key].Hours += e.Hours
	}

	result := lo.Map(lo.Values(sums), func(s *IntervalProjectSum, _ int) IntervalProjectSum {
		return *s
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Period.Equal(result[j].Period) {
			return result[i].Period.Before(result[j].Period)
		}
		return result[i].Project < result[j].Project
	})
	return result
}

// ProjectTotal 单个项目在区间内的 Faktura 合计
type ProjectTotal struct {
	ProjectCode string  `json:"projectCode"`
	Project     string  `json:"project"`
	PersonDays  float64 `json:"personDays"`
	Hours       float64 `json:"hours"`
}

// ProjectTotals 把 billable 视图按 (项目编号, 简称) 分组汇总
// 工时换算为人天（8 小时 = 1 PT）
func ProjectTotals(billable []model.TimeEntry, start, end time.Time) []ProjectTotal {
	start = model.Day(start)
	end = model.Day(end)

	type groupKey struct {
		code    string
		project string
	}
	totals := make(map[groupKey]*ProjectTotal)
	for _, e := range billable {
		if !e.InRange(start, end) {
			continue
		}
		key := groupKey{code: e.ProjectCode, project: e.ShortText}
		if _, ok := totals[key]; !ok {
			totals[key] = &ProjectTotal{ProjectCode: e.ProjectCode, Project: e.ShortText}
		}
		totals[key].Hours += e.Hours
	}

	result := make([]ProjectTotal, 0, len(totals))
	for _, t := range totals {
		t.PersonDays = t.Hours / model.HoursPerPersonDay
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ProjectCode != result[j].ProjectCode {
			return result[i].ProjectCode < result[j].ProjectCode
		}
		return result[i].Project < result[j].Project
	})
	return result
}

// ExpectedHours 区间内的应出勤小时数
// 周一到周五且非节假日计 8 小时，12 月 24 日和 3 月 31 日为半天 (4 小时)
func ExpectedHours(start, end time.Time, provider calendar.Provider) float64 {
	start = model.Day(start)
	end = model.Day(end)
	holidays := calendar.HolidaySet(provider, start, end)

	total := 0.0
	for _, d := range model.EnumerateDays(start, end) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, ok := holidays[model.DayKey(d)]; ok {
			continue
		}
		if (d.Month() == time.December && d.Day() == 24) || (d.Month() == time.March && d.Day() == 31) {
			total += 4
		} else {
			total += 8
		}
	}
	return total
}

// OvertimeResult 超时/欠时统计
type OvertimeResult struct {
	ActualHours   float64   `json:"actualHours"`
	ExpectedHours float64   `json:"expectedHours"`
	DiffHours     float64   `json:"diffHours"`
	EffectiveEnd  time.Time `json:"effectiveEnd"`
}

// Overtime 实际记账工时与应出勤工时的差值
// 区间末尾收敛到最后记账日期，避免把尚未记账的未来算成欠时
func Overtime(all []model.TimeEntry, start, end time.Time, provider calendar.Provider) OvertimeResult {
	start = model.Day(start)
	end = model.Day(end)

	var lastBooked time.Time
	for _, e := range all {
		if e.HasDate() && e.Date.After(lastBooked) {
			lastBooked = e.Date
		}
	}

	effectiveEnd := end
	if !lastBooked.IsZero() && lastBooked.Before(end) {
		effectiveEnd = lastBooked
	}

	actual := 0.0
	for _, e := range all {
		if e.InRange(start, effectiveEnd) {
			actual += e.Hours
		}
	}

	expected := ExpectedHours(start, effectiveEnd, provider)

	return OvertimeResult{
		ActualHours:   actual,
		ExpectedHours: expected,
		DiffHours:     actual - expected,
		EffectiveEnd:  effectiveEnd,
	}
}
