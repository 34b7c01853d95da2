package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/repository"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/service"
)

// EvaluationHandler 技术评标处理器
type EvaluationHandler struct {
	service   *service.EvaluationService
	exportSvc *service.ExportService
}

// NewEvaluationHandler 创建评标处理器
func NewEvaluationHandler(svc *service.EvaluationService, exportSvc *service.ExportService) *EvaluationHandler {
	return &EvaluationHandler{service: svc, exportSvc: exportSvc}
}

// List 评估列表
func (h *EvaluationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	evaluations, total, err := h.service.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "查询评估列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: evaluations,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// Create 创建评估
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req service.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	evaluation, err := h.service.Create(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		BadRequest(c, "创建评估失败: "+err.Error())
		return
	}
	Created(c, evaluation)
}

// Get 评估详情
func (h *EvaluationHandler) Get(c *gin.Context) {
	evaluation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		InternalError(c, "查询评估失败: "+err.Error())
		return
	}
	Success(c, evaluation)
}

// Update 更新评估
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req service.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	evaluation, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "更新评估失败: "+err.Error())
		return
	}
	Success(c, evaluation)
}

// Delete 删除评估
func (h *EvaluationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "删除评估失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ListPresets 权重预设列表
func (h *EvaluationHandler) ListPresets(c *gin.Context) {
	Success(c, service.ListWeightPresets())
}

// OpenBidding 开始收标
func (h *EvaluationHandler) OpenBidding(c *gin.Context) {
	evaluation, err := h.service.OpenBidding(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "开始收标失败: "+err.Error())
		return
	}
	Success(c, evaluation)
}

// Approve 审批评标结果
func (h *EvaluationHandler) Approve(c *gin.Context) {
	evaluation, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "审批失败: "+err.Error())
		return
	}
	Success(c, evaluation)
}

// ListBids 报价列表
func (h *EvaluationHandler) ListBids(c *gin.Context) {
	bids, err := h.service.ListBids(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		InternalError(c, "查询报价列表失败: "+err.Error())
		return
	}
	Success(c, bids)
}

// AddBid 添加报价
func (h *EvaluationHandler) AddBid(c *gin.Context) {
	var req service.AddBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bid, err := h.service.AddBid(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "添加报价失败: "+err.Error())
		return
	}
	Created(c, bid)
}

// RemoveBid 移除报价
func (h *EvaluationHandler) RemoveBid(c *gin.Context) {
	err := h.service.RemoveBid(c.Request.Context(), c.Param("id"), c.Param("bidId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "报价不存在")
			return
		}
		BadRequest(c, "移除报价失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// Run 执行评标
func (h *EvaluationHandler) Run(c *gin.Context) {
	outcome, err := h.service.Run(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "评标失败: "+err.Error())
		return
	}
	Success(c, outcome)
}

// GetResults 评标结果
func (h *EvaluationHandler) GetResults(c *gin.Context) {
	outcome, err := h.outcome(c)
	if err != nil {
		return
	}
	Success(c, gin.H{
		"results":             outcome.Results,
		"top_recommendations": outcome.TopRecommendations,
		"ranking_summary":     outcome.RankingSummary,
	})
}

// GetMatrix 对比矩阵
func (h *EvaluationHandler) GetMatrix(c *gin.Context) {
	outcome, err := h.outcome(c)
	if err != nil {
		return
	}
	Success(c, outcome.Matrix)
}

// GetReport 评标报告
func (h *EvaluationHandler) GetReport(c *gin.Context) {
	outcome, err := h.outcome(c)
	if err != nil {
		return
	}
	Success(c, outcome.Report)
}

// GetSummary 排名汇总, 优先读缓存
func (h *EvaluationHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		BadRequest(c, "查询排名汇总失败: "+err.Error())
		return
	}
	Success(c, summary)
}

// GetTCO TCO 分析
func (h *EvaluationHandler) GetTCO(c *gin.Context) {
	outcome, err := h.outcome(c)
	if err != nil {
		return
	}
	Success(c, gin.H{
		"tco_calculations": outcome.TCOCalculations,
		"tco_summary":      outcome.TCOSummary,
	})
}

// GetCompliance 合规分析
func (h *EvaluationHandler) GetCompliance(c *gin.Context) {
	outcome, err := h.outcome(c)
	if err != nil {
		return
	}
	Success(c, gin.H{
		"compliance_checks":  outcome.ComplianceChecks,
		"compliance_summary": outcome.ComplianceSummary,
		"compliance_ranking": outcome.ComplianceRanking,
	})
}

// ExportExcel 导出 Excel
func (h *EvaluationHandler) ExportExcel(c *gin.Context) {
	evaluation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		InternalError(c, "查询评估失败: "+err.Error())
		return
	}
	outcome, err := h.service.GetOutcome(c.Request.Context(), evaluation.ID)
	if err != nil {
		BadRequest(c, "导出失败: "+err.Error())
		return
	}

	f, filename, err := h.exportSvc.ExportMatrixExcel(evaluation, outcome)
	if err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "写入文件失败: "+err.Error())
	}
}

// ExportCSV 导出 GBK 编码 CSV
func (h *EvaluationHandler) ExportCSV(c *gin.Context) {
	evaluation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return
		}
		InternalError(c, "查询评估失败: "+err.Error())
		return
	}
	outcome, err := h.service.GetOutcome(c.Request.Context(), evaluation.ID)
	if err != nil {
		BadRequest(c, "导出失败: "+err.Error())
		return
	}

	data, filename, err := h.exportSvc.ExportResultsCSV(evaluation, outcome)
	if err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(200, "text/csv; charset=gbk", data)
}

// outcome 读取评标结果快照, 错误时已写响应
func (h *EvaluationHandler) outcome(c *gin.Context) (*service.EvaluationOutcome, error) {
	outcome, err := h.service.GetOutcome(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "评估不存在")
			return nil, err
		}
		BadRequest(c, "查询评标结果失败: "+err.Error())
		return nil, err
	}
	return outcome, nil
}
