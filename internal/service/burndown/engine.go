package burndown

import (
	"time"

	"github.com/ldilba/faktura-statistik/internal/calendar"
	"github.com/ldilba/faktura-statistik/internal/model"
)

// Result 燃尽计算结果，所有切片共享同一条日期轴
type Result struct {
	Days    []time.Time       `json:"days"`
	Actual  []float64         `json:"actual"` // 累计实际 Faktura (PT)
	Ideal   []float64         `json:"ideal"`  // 动态理想线 (PT)
	Records []model.DayRecord `json:"records"`
}

// Compute 计算燃尽数据：
//   - 累计实际 Faktura：billable 视图按日汇总（8 小时 = 1 PT），缺口补零后累加
//   - 动态理想线：剩余目标在每个可用工作日上重新均摊，
//     保证最后一个可用工作日恰好到达 target
//   - 每日记录：分类、颜色、透明度、图例分组
//
// target 可以为 0 或负数，没有可用工作日时理想线保持为零；
// billable 为空时实际线为全零。start > end 返回空结果。
func Compute(billable, all []model.TimeEntry, start, end time.Time, target float64, provider calendar.Provider) *Result {
	start = model.Day(start)
	end = model.Day(end)

	avail := ComputeAvailability(all, start, end, provider)
	days := avail.Days()

	result := &Result{
		Days:    days,
		Actual:  make([]float64, len(days)),
		Ideal:   make([]float64, len(days)),
		Records: make([]model.DayRecord, len(days)),
	}
	if len(days) == 0 {
		return result
	}

	// 按日汇总实际 Faktura（PT），同时记录最后记账日期
	dailyPT := make(map[string]float64)
	var lastBooked time.Time
	for _, e := range billable {
		if !e.InRange(start, end) {
			continue
		}
		dailyPT[model.DayKey(e.Date)] += e.Hours / model.HoursPerPersonDay
		if e.Date.After(lastBooked) {
			lastBooked = e.Date
		}
	}

	cumulative := 0.0
	for i, d := range days {
		cumulative += dailyPT[model.DayKey(d)]
		result.Actual[i] = cumulative
	}

	// 后缀可用天数：suffixAvailable[i] = 从第 i 天（含）到区间末尾的可用工作日数
	suffixAvailable := make([]int, len(days)+1)
	for i := len(days) - 1; i >= 0; i-- {
		suffixAvailable[i] = suffixAvailable[i+1]
		if avail.available[i] {
			suffixAvailable[i]++
		}
	}

	// 动态理想线：每个可用工作日把剩余目标均摊到剩余可用天数上
	idealCum := 0.0
	remaining := target
	for i := range days {
		if avail.available[i] {
			increment := 0.0
			if suffixAvailable[i] > 0 {
				increment = remaining / float64(suffixAvailable[i])
			}
			idealCum += increment
			remaining -= increment
		}
		result.Ideal[i] = idealCum
	}

	for i, d := range days {
		class := classifyDay(d, avail)

		opacity := model.OpacityDefault
		if class != model.DayWorkday {
			opacity = model.OpacityNonWorking
		}
		// 预测日覆盖在前面的规则之上：未来的周末也是 0.4
		projected := !lastBooked.IsZero() && d.After(lastBooked)
		if projected {
			opacity = model.OpacityProjected
		}

		result.Records[i] = model.DayRecord{
			Date:             d,
			Class:            class,
			Color:            class.Color(),
			Opacity:          opacity,
			Group:            class.LegendGroup(),
			ActualCumulative: result.Actual[i],
			Projected:        projected,
		}
	}

	return result
}

// classifyDay 日期分类，优先级 Feiertag > Urlaub > Krankheit > Wochenende > normal
func classifyDay(d time.Time, avail *Availability) model.DayClass {
	key := model.DayKey(d)
	if _, ok := avail.holidays[key]; ok {
		return model.DayHoliday
	}
	if avail.vacation[key] {
		return model.DayVacation
	}
	if avail.sick[key] {
		return model.DaySick
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return model.DayWeekend
	}
	return model.DayWorkday
}

// DynamicTarget 把年度目标按财年可用工作日折算到查询区间
// 区间可用天数越多，折算目标越高；财年内没有可用天时返回 0
func DynamicTarget(all []model.TimeEntry, start, end time.Time, annualTarget float64, now time.Time, provider calendar.Provider) float64 {
	fyStart, fyEnd := model.FiscalYearRange(now)
	totalAvailable := CountAvailableDays(all, fyStart, fyEnd, provider)
	if totalAvailable == 0 {
		return 0
	}
	subrangeAvailable := CountAvailableDays(all, start, end, provider)
	return annualTarget / float64(totalAvailable) * float64(subrangeAvailable)
}
