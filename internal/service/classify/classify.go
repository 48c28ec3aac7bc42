package classify

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/ldilba/faktura-statistik/internal/model"
)

// GenericHoursLabel 通用内部工时行的 Kurztext 哨兵值
// 这类行按 Positionsbezeichnung 中逗号分隔的项目名拆分成多行
const GenericHoursLabel = "Stunden - CONET Solutions GmbH"

// NonBillableSuffix 追加到不可结算行的项目编号和简称上
const NonBillableSuffix = " - non-billable"

// 可结算项目编号前缀
var billablePrefixes = []string{"K", "X"}

// 活动描述匹配规则（数据源为德语原文，忽略大小写）
var (
	hourPattern        = regexp.MustCompile(`(?i)stunde`)
	nonBillablePattern = regexp.MustCompile(`(?i)nicht\s+fakturierbare?\s+stunde`)
)

// HasBillablePrefix 项目编号是否以可结算前缀开头
func HasBillablePrefix(code string) bool {
	for _, prefix := range billablePrefixes {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// isBillableHour 活动描述是否表示真实的可结算工时
// 空描述（旧导出没有 Bezeichnung 列）回退为仅按前缀判断
func isBillableHour(activity string) bool {
	if activity == "" {
		return true
	}
	return hourPattern.MatchString(activity) && !nonBillablePattern.MatchString(activity)
}

// Classify 把原始行分成两个视图：
//   - all: 所有有项目编号的行，通用工时行按项目拆分
//   - billable: 可结算 (Faktura) 行，编号以 K/X 开头且活动描述为可结算工时
//
// 标记为不可结算但编号以可结算前缀开头的行，先在编号和简称上追加
// NonBillableSuffix，再做 billable 过滤：这类行保留在 all 中但不进入 billable。
// 输入不会被修改。
func Classify(raw []model.TimeEntry) (all, billable []model.TimeEntry) {
	relabeled := lo.Map(raw, func(e model.TimeEntry, _ int) model.TimeEntry {
		if e.HasProject() && HasBillablePrefix(e.ProjectCode) && nonBillablePattern.MatchString(e.Activity) {
			e.ProjectCode += NonBillableSuffix
			e.ShortText += NonBillableSuffix
		}
		return e
	})

	withProject := lo.Filter(relabeled, func(e model.TimeEntry, _ int) bool {
		return e.HasProject()
	})
	all = splitGenericHours(withProject)

	billableRows := lo.Filter(relabeled, func(e model.TimeEntry, _ int) bool {
		return e.HasProject() && HasBillablePrefix(e.ProjectCode) && isBillableHour(e.Activity)
	})
	billable = splitGenericHours(billableRows)

	return all, billable
}

// splitGenericHours 把通用工时行按 Positionsbezeichnung 中逗号分隔的
// 项目名拆分成多行；没有可拆分内容时保留原行
func splitGenericHours(entries []model.TimeEntry) []model.TimeEntry {
	return lo.FlatMap(entries, func(e model.TimeEntry, _ int) []model.TimeEntry {
		if e.ShortText != GenericHoursLabel {
			return []model.TimeEntry{e}
		}

		tokens := lo.FilterMap(strings.Split(e.Position, ","), func(s string, _ int) (string, bool) {
			s = strings.TrimSpace(s)
			return s, s != ""
		})
		if len(tokens) == 0 {
			return []model.TimeEntry{e}
		}

		return lo.Map(tokens, func(token string, _ int) model.TimeEntry {
			split := e
			split.ShortText = token
			return split
		})
	})
}
