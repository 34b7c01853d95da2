package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/service"
)

// Response 统一响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ListResponse 列表响应
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Forbidden 禁止访问
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// InternalError 服务器错误
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID 从请求头获取操作人标识
func GetUserID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// GetPagination 获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

// Handlers 处理器集合
type Handlers struct {
	Vendor     *VendorHandler
	Evaluation *EvaluationHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(vendorSvc *service.VendorService, evaluationSvc *service.EvaluationService, exportSvc *service.ExportService) *Handlers {
	return &Handlers{
		Vendor:     NewVendorHandler(vendorSvc),
		Evaluation: NewEvaluationHandler(evaluationSvc, exportSvc),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handlers) RegisterRoutes(r *gin.RouterGroup) {
	vendors := r.Group("/vendors")
	{
		vendors.GET("", h.Vendor.List)
		vendors.POST("", h.Vendor.Create)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.PUT("/:id", h.Vendor.Update)
		vendors.DELETE("/:id", h.Vendor.Delete)
	}

	evaluations := r.Group("/evaluations")
	{
		evaluations.GET("", h.Evaluation.List)
		evaluations.POST("", h.Evaluation.Create)
		evaluations.GET("/presets", h.Evaluation.ListPresets)
		evaluations.GET("/:id", h.Evaluation.Get)
		evaluations.PUT("/:id", h.Evaluation.Update)
		evaluations.DELETE("/:id", h.Evaluation.Delete)
		evaluations.POST("/:id/open", h.Evaluation.OpenBidding)
		evaluations.POST("/:id/approve", h.Evaluation.Approve)
		evaluations.GET("/:id/bids", h.Evaluation.ListBids)
		evaluations.POST("/:id/bids", h.Evaluation.AddBid)
		evaluations.DELETE("/:id/bids/:bidId", h.Evaluation.RemoveBid)
		evaluations.POST("/:id/run", h.Evaluation.Run)
		evaluations.GET("/:id/results", h.Evaluation.GetResults)
		evaluations.GET("/:id/matrix", h.Evaluation.GetMatrix)
		evaluations.GET("/:id/report", h.Evaluation.GetReport)
		evaluations.GET("/:id/summary", h.Evaluation.GetSummary)
		evaluations.GET("/:id/tco", h.Evaluation.GetTCO)
		evaluations.GET("/:id/compliance", h.Evaluation.GetCompliance)
		evaluations.GET("/:id/export/excel", h.Evaluation.ExportExcel)
		evaluations.GET("/:id/export/csv", h.Evaluation.ExportCSV)
	}
}
