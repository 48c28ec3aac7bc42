package parser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ldilba/faktura-statistik/internal/model"
)

// ProTime 导出的列名
const (
	ColumnDate      = "ProTime-Datum"
	ColumnHours     = "Erfasste Menge"
	ColumnProject   = "Auftrag/Projekt/Kst."
	ColumnShortText = "Kurztext"
	ColumnPosition  = "Positionsbezeichnung"
	ColumnActivity  = "Bezeichnung" // 可选列
)

// requiredColumns 缺少任何一列导入即失败
var requiredColumns = []string{
	ColumnDate,
	ColumnHours,
	ColumnProject,
	ColumnShortText,
	ColumnPosition,
}

// SchemaError 上传文件缺少必需列
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Parser ProTime Excel 解析器
type Parser struct {
	file   *excelize.File
	fileID string
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{
		fileID: uuid.New().String(),
	}
}

// GetFileID 获取文件ID
func (p *Parser) GetFileID() string {
	return p.fileID
}

// LoadFile 加载Excel文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	p.file = file
	return nil
}

// Parse 解析第一个工作表为工时记录
// 日期/数值解析失败不中断导入：日期置零、数量置 0，由查询侧排除
func (p *Parser) Parse() ([]model.TimeEntry, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}

	sheets := p.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := p.file.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	// 构建列名到索引的映射
	header := rows[0]
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	entries := make([]model.TimeEntry, 0, len(rows)-1)

	for _, row := range rows[1:] {
		getValue := func(col string) string {
			if idx, ok := colIndex[col]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		entry := model.TimeEntry{
			Date:        parseDate(getValue(ColumnDate)),
			Hours:       parseHours(getValue(ColumnHours)),
			ProjectCode: getValue(ColumnProject),
			ShortText:   getValue(ColumnShortText),
			Position:    getValue(ColumnPosition),
			Activity:    getValue(ColumnActivity),
		}

		// 完全空行直接跳过
		if !entry.HasDate() && entry.Hours == 0 && !entry.HasProject() && entry.ShortText == "" {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// dateLayouts 宽松解析尝试的日期格式
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02.01.2006 15:04",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	time.RFC3339,
}

// parseDate 宽松解析日期，失败返回零值
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return model.Day(t)
		}
	}

	// Excel 序列日期（1899-12-30 起的天数）
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return model.Day(epoch.AddDate(0, 0, int(serial)))
	}

	return time.Time{}
}

// parseHours 解析工时数值，支持德语小数逗号，负数和无效值归零
func parseHours(value string) float64 {
	if value == "" {
		return 0
	}

	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.ReplaceAll(value, ",", ".")
	} else {
		// 千分位分隔符
		value = strings.ReplaceAll(value, ",", "")
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	return f
}
