package burndown

import (
	"time"

	"github.com/ldilba/faktura-statistik/internal/calendar"
	"github.com/ldilba/faktura-statistik/internal/model"
)

// Availability 区间内每个自然日的可用性
// 一个日期可用当且仅当它是周一到周五、不是法定节假日、
// 且 all 视图中没有把该日期标记为休假或病假的行
type Availability struct {
	days      []time.Time
	available []bool
	index     map[string]int

	holidays map[string]string
	vacation map[string]bool
	sick     map[string]bool
}

// ComputeAvailability 计算 [start, end] 的可用性
// start > end 返回空结果而不是报错
func ComputeAvailability(all []model.TimeEntry, start, end time.Time, provider calendar.Provider) *Availability {
	start = model.Day(start)
	end = model.Day(end)

	a := &Availability{
		days:     model.EnumerateDays(start, end),
		holidays: calendar.HolidaySet(provider, start, end),
		vacation: absenceDates(all, start, end, model.PositionVacation),
		sick:     absenceDates(all, start, end, model.PositionSick),
	}

	a.available = make([]bool, len(a.days))
	a.index = make(map[string]int, len(a.days))
	for i, d := range a.days {
		a.index[model.DayKey(d)] = i
		a.available[i] = a.dayAvailable(d)
	}

	return a
}

// dayAvailable 单日可用性判断
func (a *Availability) dayAvailable(d time.Time) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	key := model.DayKey(d)
	if _, ok := a.holidays[key]; ok {
		return false
	}
	if a.vacation[key] || a.sick[key] {
		return false
	}
	return true
}

// Count 可用工作日数量
func (a *Availability) Count() int {
	count := 0
	for _, ok := range a.available {
		if ok {
			count++
		}
	}
	return count
}

// IsAvailable 指定日期是否可用（区间外返回 false）
func (a *Availability) IsAvailable(d time.Time) bool {
	i, ok := a.index[model.DayKey(d)]
	if !ok {
		return false
	}
	return a.available[i]
}

// Days 区间内的日期轴
func (a *Availability) Days() []time.Time {
	return a.days
}

// CountAvailableDays 计算区间内可用工作日数量
func CountAvailableDays(all []model.TimeEntry, start, end time.Time, provider calendar.Provider) int {
	return ComputeAvailability(all, start, end, provider).Count()
}

// absenceDates 收集区间内被标记为指定缺勤类型的日期集合
func absenceDates(all []model.TimeEntry, start, end time.Time, position string) map[string]bool {
	dates := make(map[string]bool)
	for _, e := range all {
		if e.Position != position {
			continue
		}
		if !e.InRange(start, end) {
			continue
		}
		dates[model.DayKey(e.Date)] = true
	}
	return dates
}
