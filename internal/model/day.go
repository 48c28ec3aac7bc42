package model

import "time"

// DayClass 日期分类
// 优先级：Feiertag > Urlaub > Krankheit > Wochenende > normal
type DayClass string

const (
	DayHoliday  DayClass = "Feiertag"   // 法定节假日
	DayVacation DayClass = "Urlaub"     // 休假
	DaySick     DayClass = "Krankheit"  // 病假
	DayWeekend  DayClass = "Wochenende" // 周末
	DayWorkday  DayClass = "normal"     // 普通工作日
)

// LegendGroup 图例分组名称（普通工作日显示为 Arbeitstag）
func (c DayClass) LegendGroup() string {
	if c == DayWorkday {
		return "Arbeitstag"
	}
	return string(c)
}

// Color 分类对应的固定显示颜色
func (c DayClass) Color() string {
	switch c {
	case DayHoliday:
		return "grey"
	case DayVacation:
		return "orange"
	case DaySick:
		return "purple"
	case DayWeekend:
		return "green"
	default:
		return "#1f77b4"
	}
}

// 透明度常量
const (
	OpacityDefault    = 1.0
	OpacityNonWorking = 0.6 // 节假日/休假/病假/周末
	OpacityProjected  = 0.4 // 最后一次可结算记账之后的预测日
)

// DayRecord 单日派生记录，驱动图表样式
type DayRecord struct {
	Date             time.Time `json:"date"`
	Class            DayClass  `json:"dayType"`
	Color            string    `json:"color"`
	Opacity          float64   `json:"opacity"`
	Group            string    `json:"group"`
	ActualCumulative float64   `json:"actualCumulative"` // 截至当日的累计实际 Faktura (PT)
	Projected        bool      `json:"projected"`        // 是否在最后记账日期之后
}
