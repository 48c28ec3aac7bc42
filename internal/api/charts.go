package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ldilba/faktura-statistik/internal/model"
	"github.com/ldilba/faktura-statistik/internal/service/aggregate"
	"github.com/ldilba/faktura-statistik/internal/service/burndown"
)

// burndownResponse 燃尽图数据
type burndownResponse struct {
	Interval string            `json:"interval"`
	Target   float64           `json:"target"`
	Days     []string          `json:"days"`
	Actual   []float64         `json:"actual"`
	Ideal    []float64         `json:"ideal"`
	Records  []model.DayRecord `json:"records"`
}

// GetBurndown 燃尽图：累计实际 Faktura、动态理想线、每日样式记录
// GET /api/burndown?start&end&interval&target
// target 缺省时按财年可用工作日把年度目标折算到查询区间
func (h *Handler) GetBurndown(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}
	interval := model.Granularity(c.Query("interval")).Normalize()

	var target float64
	if v := c.Query("target"); v != "" {
		target, err = strconv.ParseFloat(v, 64)
		if err != nil {
			errorResponse(c, 1004, "target 必须是数字")
			return
		}
	} else {
		target = burndown.DynamicTarget(ds.All, start, end, h.store.AnnualTarget(), h.now(), h.holidays)
	}

	result := burndown.Compute(ds.Billable, ds.All, start, end, target, h.holidays)

	days, actual := aggregate.ResampleLast(result.Days, result.Actual, interval)
	_, ideal := aggregate.ResampleLast(result.Days, result.Ideal, interval)
	records := aggregate.ResampleRecordsLast(result.Records, interval)

	success(c, burndownResponse{
		Interval: string(interval),
		Target:   target,
		Days:     formatDays(days),
		Actual:   actual,
		Ideal:    ideal,
		Records:  records,
	})
}

// GetAvailability 区间内可用工作日数量
// GET /api/availability?start&end
func (h *Handler) GetAvailability(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	count := burndown.CountAvailableDays(ds.All, start, end, h.holidays)

	success(c, gin.H{
		"start":         model.DayKey(start),
		"end":           model.DayKey(end),
		"availableDays": count,
	})
}

// intervalFactor 把每日需求折算到图表周期上
// 一周按 5 个工作日计，一个月按 22 个工作日计
func intervalFactor(g model.Granularity) (float64, string) {
	switch g {
	case model.GranularityWeek:
		return 5, "Woche"
	case model.GranularityMonth:
		return 22, "Monat"
	default:
		return 1, "Tag"
	}
}

// GetIndicators 配速指标：距离目标剩余的 PT 以及为此每个周期需要的 PT/小时
// GET /api/indicators?start&end&interval
// 剩余需求摊在最后记账日期到区间末尾的可用工作日上
func (h *Handler) GetIndicators(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}
	interval := model.Granularity(c.Query("interval")).Normalize()

	booked := 0.0
	for _, t := range aggregate.ProjectTotals(ds.Billable, start, end) {
		booked += t.PersonDays
	}

	remaining := h.store.AnnualTarget() - booked
	if remaining < 0 {
		remaining = 0
	}

	// 从最后记账日期开始还有多少可用工作日；无记账时退回今天
	var lastBooked time.Time
	for _, e := range ds.Billable {
		if e.HasDate() && e.Date.After(lastBooked) {
			lastBooked = e.Date
		}
	}
	if lastBooked.IsZero() {
		lastBooked = h.now()
	}
	lastBooked = model.Day(lastBooked)

	remainingDays := 0
	if !end.Before(lastBooked) {
		remainingDays = burndown.CountAvailableDays(ds.All, lastBooked, end, h.holidays)
	}

	dailyNeeded := 0.0
	if remainingDays > 0 {
		dailyNeeded = remaining / float64(remainingDays)
	}

	factor, label := intervalFactor(interval)

	success(c, gin.H{
		"bookedPT":           booked,
		"remainingPT":        remaining,
		"remainingDays":      remainingDays,
		"intervalLabel":      label,
		"neededPTPerUnit":    dailyNeeded * factor,
		"neededHoursPerUnit": dailyNeeded * model.HoursPerPersonDay * factor,
	})
}

// GetProjects 按项目汇总的 Faktura 合计（饼图/柱状图/仪表盘数据源）
// GET /api/projects?start&end
func (h *Handler) GetProjects(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	totals := aggregate.ProjectTotals(ds.Billable, start, end)

	sum := 0.0
	for _, t := range totals {
		sum += t.PersonDays
	}

	success(c, gin.H{
		"totals":          totals,
		"totalPersonDays": sum,
		"target":          h.store.AnnualTarget(),
	})
}

// overviewRow 概览图的一行
type overviewRow struct {
	Period  string  `json:"period"`
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
}

// GetOverview 周期 × 项目的原始工时汇总（堆叠柱状图数据源）
// GET /api/overview?start&end&interval
func (h *Handler) GetOverview(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}
	interval := model.Granularity(c.Query("interval")).Normalize()

	sums := aggregate.SumByIntervalAndProject(ds.All, start, end, interval)

	rows := make([]overviewRow, len(sums))
	for i, s := range sums {
		rows[i] = overviewRow{
			Period:  model.DayKey(s.Period),
			Project: s.Project,
			Hours:   s.Hours,
		}
	}

	success(c, gin.H{
		"interval": string(interval),
		"rows":     rows,
	})
}

// GetOvertime 超时/欠时统计
// GET /api/overtime?start&end
func (h *Handler) GetOvertime(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		errorResponse(c, 1004, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	result := aggregate.Overtime(ds.All, start, end, h.holidays)

	success(c, gin.H{
		"actualHours":   result.ActualHours,
		"expectedHours": result.ExpectedHours,
		"diffHours":     result.DiffHours,
		"effectiveEnd":  model.DayKey(result.EffectiveEnd),
	})
}
