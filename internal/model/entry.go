package model

import "time"

// HoursPerPersonDay 人天换算常量：8 小时 = 1 PT
const HoursPerPersonDay = 8.0

// 缺勤哨兵值 (Positionsbezeichnung 列的原文)
const (
	PositionVacation = "Urlaub"
	PositionSick     = "Krank"
)

// TimeEntry 一条工时记录（ProTime 导出的一行）
type TimeEntry struct {
	Date        time.Time `json:"date"`        // 记账日期，零值表示日期解析失败
	Hours       float64   `json:"hours"`       // 记录工时（小时）
	ProjectCode string    `json:"projectCode"` // 项目/成本中心编号，空表示未填写
	ShortText   string    `json:"shortText"`   // 项目简称 (Kurztext)
	Position    string    `json:"position"`    // 活动/职位名称 (Positionsbezeichnung)
	Activity    string    `json:"activity"`    // 活动描述 (Bezeichnung)，用于区分可结算/不可结算工时
}

// HasDate 日期是否有效
func (e TimeEntry) HasDate() bool {
	return !e.Date.IsZero()
}

// HasProject 是否有项目编号
func (e TimeEntry) HasProject() bool {
	return e.ProjectCode != ""
}

// InRange 日期是否落在 [start, end] 闭区间内（无效日期视为不在区间内）
func (e TimeEntry) InRange(start, end time.Time) bool {
	if !e.HasDate() {
		return false
	}
	return !e.Date.Before(start) && !e.Date.After(end)
}

// Dataset 当前导入的数据集
// 每次上传整体替换，派生视图在导入时计算一次
type Dataset struct {
	ID         string      `json:"id"`
	FileName   string      `json:"fileName"`
	ImportedAt time.Time   `json:"importedAt"`
	Raw        []TimeEntry `json:"-"` // 原始行
	All        []TimeEntry `json:"-"` // 所有有项目编号的行（含拆分后的通用工时）
	Billable   []TimeEntry `json:"-"` // 可结算 (Faktura) 行
}
