package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ldilba/faktura-statistik/internal/calendar"
	"github.com/ldilba/faktura-statistik/internal/config"
	"github.com/ldilba/faktura-statistik/internal/model"
	"github.com/ldilba/faktura-statistik/internal/service/store"
)

// Handler API处理器
type Handler struct {
	store    *store.MemoryStore
	holidays calendar.Provider
	cfg      *config.AppConfig
	logger   *zap.Logger

	// 可注入的时钟，财年和动态目标计算依赖当前日期
	now func() time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.MemoryStore, holidays calendar.Provider, cfg *config.AppConfig, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		holidays: holidays,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/fiscal-year", h.GetFiscalYear)

	// 配置管理
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 数据导入
	router.POST("/import", h.Import)

	// 图表查询
	router.GET("/burndown", h.GetBurndown)
	router.GET("/availability", h.GetAvailability)
	router.GET("/indicators", h.GetIndicators)
	router.GET("/projects", h.GetProjects)
	router.GET("/overview", h.GetOverview)
	router.GET("/overtime", h.GetOvertime)
}

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// parseRange 解析 start/end 查询参数
// 缺省值取当前财年对应的边界；start > end 不报错，由计算侧返回空结果
func (h *Handler) parseRange(c *gin.Context) (start, end time.Time, err error) {
	fyStart, fyEnd := model.FiscalYearRange(h.now())

	start = fyStart
	end = fyEnd

	if v := c.Query("start"); v != "" {
		start, err = time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, err
		}
	}
	if v := c.Query("end"); v != "" {
		end, err = time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, err
		}
	}

	return model.Day(start), model.Day(end), nil
}

// dataset 获取当前数据集，未导入时统一报错
func (h *Handler) dataset(c *gin.Context) (*model.Dataset, bool) {
	ds, err := h.store.Dataset()
	if err != nil {
		errorResponse(c, 2001, "尚未导入数据")
		return nil, false
	}
	return ds, true
}

// formatDays 日期轴格式化为 YYYY-MM-DD
func formatDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = model.DayKey(d)
	}
	return out
}
