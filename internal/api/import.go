package api

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ldilba/faktura-statistik/internal/model"
	"github.com/ldilba/faktura-statistik/internal/parser"
	"github.com/ldilba/faktura-statistik/internal/service/classify"
)

// maxUploadSize 上传文件大小上限 (10MB)
const maxUploadSize = 10 * 1024 * 1024

// Import 导入 ProTime Excel 导出
// POST /api/import
// 导入成功整体替换当前数据集；解析失败时保留旧数据集不变
func (h *Handler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, 1001, "请上传文件")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		errorResponse(c, 1003, "文件过大，最大支持10MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		errorResponse(c, 1002, "仅支持 .xlsx 和 .xls 格式")
		return
	}

	p := parser.NewParser()
	if err := p.LoadFile(file); err != nil {
		errorResponse(c, 1002, "文件解析失败: "+err.Error())
		return
	}

	raw, err := p.Parse()
	if err != nil {
		var schemaErr *parser.SchemaError
		if errors.As(err, &schemaErr) {
			h.logger.Warn("import rejected",
				zap.String("file", header.Filename),
				zap.Strings("missing", schemaErr.Missing))
			errorResponse(c, 1002, "文件缺少必需列: "+strings.Join(schemaErr.Missing, ", "))
			return
		}
		errorResponse(c, 1002, "文件解析失败: "+err.Error())
		return
	}

	all, billable := classify.Classify(raw)

	dataset := &model.Dataset{
		ID:         p.GetFileID(),
		FileName:   header.Filename,
		ImportedAt: time.Now(),
		Raw:        raw,
		All:        all,
		Billable:   billable,
	}
	h.store.Replace(dataset)

	h.logger.Info("dataset imported",
		zap.String("id", dataset.ID),
		zap.String("file", header.Filename),
		zap.Int("raw", len(raw)),
		zap.Int("all", len(all)),
		zap.Int("billable", len(billable)))

	success(c, gin.H{
		"id":            dataset.ID,
		"fileName":      header.Filename,
		"rawCount":      len(raw),
		"allCount":      len(all),
		"billableCount": len(billable),
	})
}

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ds, err := h.store.Dataset()
	if err != nil {
		success(c, gin.H{"loaded": false})
		return
	}

	success(c, gin.H{
		"loaded":        true,
		"id":            ds.ID,
		"fileName":      ds.FileName,
		"importedAt":    ds.ImportedAt,
		"rawCount":      len(ds.Raw),
		"allCount":      len(ds.All),
		"billableCount": len(ds.Billable),
	})
}

// GetFiscalYear 当前财年区间（默认查询范围）
// GET /api/fiscal-year
func (h *Handler) GetFiscalYear(c *gin.Context) {
	start, end := model.FiscalYearRange(h.now())
	success(c, gin.H{
		"start": model.DayKey(start),
		"end":   model.DayKey(end),
	})
}

// GetConfig 获取业务配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	success(c, gin.H{
		"annualTargetPT": h.store.AnnualTarget(),
		"country":        h.cfg.Business.Country,
		"subdivision":    h.cfg.Business.Subdivision,
	})
}

type updateConfigRequest struct {
	AnnualTargetPT *float64 `json:"annualTargetPT"`
}

// UpdateConfig 覆盖年度目标
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, 1004, "请求格式错误")
		return
	}
	if req.AnnualTargetPT == nil {
		errorResponse(c, 1004, "缺少 annualTargetPT")
		return
	}

	h.store.SetAnnualTarget(*req.AnnualTargetPT)
	success(c, gin.H{"annualTargetPT": h.store.AnnualTarget()})
}
