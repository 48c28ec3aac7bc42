package calendar

import (
	"sync"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"

	"github.com/ldilba/faktura-statistik/internal/model"
)

// Provider 节假日日历提供者
// 对同一年份的重复查询必须返回稳定结果
type Provider interface {
	// Holidays 返回指定年份的法定节假日，键为日期 (YYYY-MM-DD)，值为节日名称
	Holidays(year int) map[string]string
}

// HolidaySet 计算 [start, end] 跨越的所有年份的节假日集合
func HolidaySet(p Provider, start, end time.Time) map[string]string {
	set := make(map[string]string)
	if start.After(end) {
		return set
	}
	for year := start.Year(); year <= end.Year(); year++ {
		for key, name := range p.Holidays(year) {
			set[key] = name
		}
	}
	return set
}

// GermanProvider 德国法定节假日，按州细分
type GermanProvider struct {
	subdivision string

	mu    sync.RWMutex
	cache map[int]map[string]string
}

// NewGermanProvider 创建德国节假日提供者
// subdivision 为州代码（如 NW = 北莱茵-威斯特法伦），未知州回退为全国节假日
func NewGermanProvider(subdivision string) *GermanProvider {
	return &GermanProvider{
		subdivision: subdivision,
		cache:       make(map[int]map[string]string),
	}
}

// holidayDefs 全国节假日加上州特有节假日
func (p *GermanProvider) holidayDefs() []*cal.Holiday {
	defs := []*cal.Holiday{
		de.Neujahr,
		de.Karfreitag,
		de.Ostermontag,
		de.TagderArbeit,
		de.ChristiHimmelfahrt,
		de.Pfingstmontag,
		de.DeutschenEinheit,
		de.Weihnachtstag,
		de.ZweiterWeihnachtsfeiertag,
	}

	switch p.subdivision {
	case "NW":
		defs = append(defs, de.Fronleichnam, de.Allerheiligen)
	case "BY":
		defs = append(defs, de.HeiligeDreiKoenige, de.Fronleichnam, de.Allerheiligen)
	case "BW":
		defs = append(defs, de.HeiligeDreiKoenige, de.Fronleichnam, de.Allerheiligen)
	case "SN":
		defs = append(defs, de.Reformationstag, de.BussUndBettag)
	}

	return defs
}

// Holidays 返回指定年份的节假日，结果按年份缓存
func (p *GermanProvider) Holidays(year int) map[string]string {
	p.mu.RLock()
	if cached, ok := p.cache[year]; ok {
		p.mu.RUnlock()
		return cached
	}
	p.mu.RUnlock()

	set := make(map[string]string)
	for _, h := range p.holidayDefs() {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		set[model.DayKey(actual)] = h.Name
	}

	p.mu.Lock()
	p.cache[year] = set
	p.mu.Unlock()

	return set
}

// FixedProvider 固定节假日集合，用于测试
type FixedProvider struct {
	Dates map[string]string
}

// Holidays 返回固定集合中属于指定年份的日期
func (p *FixedProvider) Holidays(year int) map[string]string {
	set := make(map[string]string)
	for key, name := range p.Dates {
		d, err := time.Parse("2006-01-02", key)
		if err != nil || d.Year() != year {
			continue
		}
		set[key] = name
	}
	return set
}
