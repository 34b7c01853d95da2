package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/repository"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/service"
)

// VendorHandler 供应商处理器
type VendorHandler struct {
	service *service.VendorService
}

// NewVendorHandler 创建供应商处理器
func NewVendorHandler(service *service.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// List 供应商列表
func (h *VendorHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":   c.Query("search"),
		"status":   c.Query("status"),
		"country":  c.Query("country"),
		"industry": c.Query("industry"),
	}

	vendors, total, err := h.service.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "查询供应商列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: vendors,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// Create 创建供应商
func (h *VendorHandler) Create(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.service.Create(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		InternalError(c, "创建供应商失败: "+err.Error())
		return
	}
	Created(c, vendor)
}

// Get 供应商详情
func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "查询供应商失败: "+err.Error())
		return
	}
	Success(c, vendor)
}

// Update 更新供应商
func (h *VendorHandler) Update(c *gin.Context) {
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	vendor, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		BadRequest(c, "更新供应商失败: "+err.Error())
		return
	}
	Success(c, vendor)
}

// Delete 删除供应商
func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "删除供应商失败: "+err.Error())
		return
	}
	Success(c, nil)
}
