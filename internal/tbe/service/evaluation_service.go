package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/engine"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/repository"
)

const summaryCacheTTL = time.Hour

// EvaluationService 技术评标服务
type EvaluationService struct {
	repo       *repository.EvaluationRepository
	bidRepo    *repository.BidRepository
	vendorRepo *repository.VendorRepository
	rdb        *redis.Client
	logger     *zap.Logger
}

// NewEvaluationService 创建评标服务
func NewEvaluationService(repo *repository.EvaluationRepository, bidRepo *repository.BidRepository, vendorRepo *repository.VendorRepository) *EvaluationService {
	return &EvaluationService{
		repo:       repo,
		bidRepo:    bidRepo,
		vendorRepo: vendorRepo,
		logger:     zap.NewNop(),
	}
}

// SetRedis 设置缓存客户端
func (s *EvaluationService) SetRedis(rdb *redis.Client) {
	s.rdb = rdb
}

// SetLogger 设置日志
func (s *EvaluationService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// CreateEvaluationRequest 创建评估请求
type CreateEvaluationRequest struct {
	Name                   string   `json:"name" binding:"required"`
	Description            string   `json:"description"`
	ProjectReference       string   `json:"project_reference"`
	WeightPreset           string   `json:"weight_preset"`
	PriceWeight            *float64 `json:"price_weight"`
	QualityWeight          *float64 `json:"quality_weight"`
	DeliveryWeight         *float64 `json:"delivery_weight"`
	ComplianceWeight       *float64 `json:"compliance_weight"`
	NormalizationMethod    string   `json:"normalization_method"`
	RequiredISOStandards   []string `json:"required_iso_standards"`
	RequiredCertifications []string `json:"required_certifications"`
}

// UpdateEvaluationRequest 更新评估请求
type UpdateEvaluationRequest struct {
	Name                   *string  `json:"name"`
	Description            *string  `json:"description"`
	ProjectReference       *string  `json:"project_reference"`
	WeightPreset           *string  `json:"weight_preset"`
	PriceWeight            *float64 `json:"price_weight"`
	QualityWeight          *float64 `json:"quality_weight"`
	DeliveryWeight         *float64 `json:"delivery_weight"`
	ComplianceWeight       *float64 `json:"compliance_weight"`
	NormalizationMethod    *string  `json:"normalization_method"`
	RequiredISOStandards   []string `json:"required_iso_standards"`
	RequiredCertifications []string `json:"required_certifications"`
}

// AddBidRequest 添加报价请求
type AddBidRequest struct {
	VendorID              string   `json:"vendor_id" binding:"required"`
	BidReference          string   `json:"bid_reference"`
	Currency              string   `json:"currency"`
	UnitPrice             float64  `json:"unit_price" binding:"required"`
	Quantity              int      `json:"quantity"`
	ShippingCost          float64  `json:"shipping_cost"`
	InstallationCost      float64  `json:"installation_cost"`
	TrainingCost          float64  `json:"training_cost"`
	MaintenanceCostAnnual float64  `json:"maintenance_cost_annual"`
	WarrantyYears         int      `json:"warranty_years"`
	ExpectedLifespanYears int      `json:"expected_lifespan_years"`
	DeliveryDays          int      `json:"delivery_days" binding:"required"`
	QualityScore          float64  `json:"quality_score"`
	PastPerformanceScore  float64  `json:"past_performance_score"`
	ISOCompliance         []string `json:"iso_compliance"`
	Certifications        []string `json:"certifications"`
	TechnicalNotes        string   `json:"technical_notes"`
}

// EvaluationOutcome 一次评标运行的完整产出
type EvaluationOutcome struct {
	Results             []*engine.TBEResult          `json:"results"`
	TopRecommendations  []*engine.TBEResult          `json:"top_recommendations"`
	Matrix              *engine.ComparisonMatrix     `json:"matrix"`
	Report              *engine.TBEReport            `json:"report"`
	TCOCalculations     []*engine.TCOCalculation     `json:"tco_calculations"`
	TCOSummary          *engine.TCOSummary           `json:"tco_summary"`
	ComplianceChecks    []*engine.ComplianceCheck    `json:"compliance_checks"`
	ComplianceSummary   *engine.ComplianceSummary    `json:"compliance_summary"`
	ComplianceRanking   []engine.ComplianceRankEntry `json:"compliance_ranking"`
	RankingSummary      *engine.RankingSummary       `json:"ranking_summary"`
	TopVendorComparison *engine.TopVendorComparison  `json:"top_vendor_comparison"`
}

// Create 创建评估, 权重可来自预设或显式指定
func (s *EvaluationService) Create(ctx context.Context, req *CreateEvaluationRequest, createdBy string) (*entity.Evaluation, error) {
	weights, presetName, err := resolveWeights(req.WeightPreset, req.PriceWeight, req.QualityWeight, req.DeliveryWeight, req.ComplianceWeight)
	if err != nil {
		return nil, err
	}

	method := req.NormalizationMethod
	if method == "" {
		method = string(engine.NormalizeInverseLinear)
	}
	if err := validateNormalizationMethod(method); err != nil {
		return nil, err
	}

	evaluation := &entity.Evaluation{
		ID:                     uuid.New().String()[:32],
		Name:                   req.Name,
		Description:            req.Description,
		ProjectReference:       req.ProjectReference,
		Status:                 entity.EvaluationStatusDraft,
		WeightPreset:           presetName,
		PriceWeight:            weights.Price,
		QualityWeight:          weights.Quality,
		DeliveryWeight:         weights.Delivery,
		ComplianceWeight:       weights.Compliance,
		NormalizationMethod:    method,
		RequiredISOStandards:   req.RequiredISOStandards,
		RequiredCertifications: req.RequiredCertifications,
		CreatedBy:              createdBy,
	}
	if err := s.repo.Create(ctx, evaluation); err != nil {
		return nil, err
	}
	return evaluation, nil
}

// resolveWeights 预设名优先, 显式权重覆盖预设, 最终必须归一
func resolveWeights(preset string, price, quality, delivery, compliance *float64) (engine.CriteriaWeights, string, error) {
	weights := engine.DefaultCriteriaWeights()
	presetName := PresetDefault
	if preset != "" {
		p, err := GetWeightPreset(preset)
		if err != nil {
			return weights, "", err
		}
		weights = p.Weights
		presetName = p.Name
	}

	custom := false
	if price != nil {
		weights.Price = *price
		custom = true
	}
	if quality != nil {
		weights.Quality = *quality
		custom = true
	}
	if delivery != nil {
		weights.Delivery = *delivery
		custom = true
	}
	if compliance != nil {
		weights.Compliance = *compliance
		custom = true
	}
	if custom {
		presetName = "custom"
	}

	if err := weights.Validate(); err != nil {
		return weights, "", err
	}
	return weights, presetName, nil
}

func validateNormalizationMethod(method string) error {
	switch engine.NormalizationMethod(method) {
	case engine.NormalizeInverseLinear, engine.NormalizeInverseLog, engine.NormalizeMinMax:
		return nil
	}
	return fmt.Errorf("无效的归一化方法: %s", method)
}

// Get 查询评估详情
func (s *EvaluationService) Get(ctx context.Context, id string) (*entity.Evaluation, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询评估
func (s *EvaluationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Evaluation, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Update 更新评估, 仅草稿状态允许
func (s *EvaluationService) Update(ctx context.Context, id string, req *UpdateEvaluationRequest) (*entity.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Status != entity.EvaluationStatusDraft {
		return nil, errors.New("只能修改草稿状态的评估")
	}

	if req.Name != nil {
		evaluation.Name = *req.Name
	}
	if req.Description != nil {
		evaluation.Description = *req.Description
	}
	if req.ProjectReference != nil {
		evaluation.ProjectReference = *req.ProjectReference
	}
	if req.WeightPreset != nil || req.PriceWeight != nil || req.QualityWeight != nil ||
		req.DeliveryWeight != nil || req.ComplianceWeight != nil {
		preset := ""
		if req.WeightPreset != nil {
			preset = *req.WeightPreset
		}
		weights, presetName, err := resolveWeights(preset, req.PriceWeight, req.QualityWeight, req.DeliveryWeight, req.ComplianceWeight)
		if err != nil {
			return nil, err
		}
		evaluation.WeightPreset = presetName
		evaluation.PriceWeight = weights.Price
		evaluation.QualityWeight = weights.Quality
		evaluation.DeliveryWeight = weights.Delivery
		evaluation.ComplianceWeight = weights.Compliance
	}
	if req.NormalizationMethod != nil {
		if err := validateNormalizationMethod(*req.NormalizationMethod); err != nil {
			return nil, err
		}
		evaluation.NormalizationMethod = *req.NormalizationMethod
	}
	if req.RequiredISOStandards != nil {
		evaluation.RequiredISOStandards = req.RequiredISOStandards
	}
	if req.RequiredCertifications != nil {
		evaluation.RequiredCertifications = req.RequiredCertifications
	}

	if err := s.repo.Update(ctx, evaluation); err != nil {
		return nil, err
	}
	return evaluation, nil
}

// Delete 删除评估, 已审批的评估不允许删除
func (s *EvaluationService) Delete(ctx context.Context, id string) error {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if evaluation.Status == entity.EvaluationStatusApproved {
		return errors.New("已审批的评估不允许删除")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx, id)
	return nil
}

// OpenBidding 开始收标, 草稿转收标中
func (s *EvaluationService) OpenBidding(ctx context.Context, id string) (*entity.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Status != entity.EvaluationStatusDraft {
		return nil, errors.New("只有草稿状态的评估才能开始收标")
	}
	if err := s.repo.UpdateStatus(ctx, id, entity.EvaluationStatusInProgress); err != nil {
		return nil, err
	}
	evaluation.Status = entity.EvaluationStatusInProgress
	return evaluation, nil
}

// Approve 审批评标结果
func (s *EvaluationService) Approve(ctx context.Context, id string) (*entity.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Status != entity.EvaluationStatusCompleted {
		return nil, errors.New("只有已完成评标的评估才能审批")
	}
	if err := s.repo.UpdateStatus(ctx, id, entity.EvaluationStatusApproved); err != nil {
		return nil, err
	}
	evaluation.Status = entity.EvaluationStatusApproved
	return evaluation, nil
}

// AddBid 添加供应商报价, 每个供应商仅允许一份有效报价
func (s *EvaluationService) AddBid(ctx context.Context, evaluationID string, req *AddBidRequest) (*entity.VendorBid, error) {
	evaluation, err := s.repo.FindByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation.Status != entity.EvaluationStatusDraft && evaluation.Status != entity.EvaluationStatusInProgress {
		return nil, errors.New("只能在草稿或收标中状态下添加报价")
	}

	if _, err := s.vendorRepo.FindByID(ctx, req.VendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("供应商不存在")
		}
		return nil, err
	}
	if _, err := s.bidRepo.FindByVendorAndEvaluation(ctx, req.VendorID, evaluationID); err == nil {
		return nil, errors.New("该供应商已提交报价")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	now := time.Now()
	bid := &entity.VendorBid{
		ID:                    uuid.New().String()[:32],
		EvaluationID:          evaluationID,
		VendorID:              req.VendorID,
		BidReference:          req.BidReference,
		Status:                entity.BidStatusSubmitted,
		Currency:              currency,
		UnitPrice:             req.UnitPrice,
		Quantity:              quantity,
		TotalPrice:            req.UnitPrice * float64(quantity),
		ShippingCost:          req.ShippingCost,
		InstallationCost:      req.InstallationCost,
		TrainingCost:          req.TrainingCost,
		MaintenanceCostAnnual: req.MaintenanceCostAnnual,
		WarrantyYears:         req.WarrantyYears,
		ExpectedLifespanYears: req.ExpectedLifespanYears,
		DeliveryDays:          req.DeliveryDays,
		QualityScore:          req.QualityScore,
		PastPerformanceScore:  req.PastPerformanceScore,
		ISOCompliance:         req.ISOCompliance,
		Certifications:        req.Certifications,
		TechnicalNotes:        req.TechnicalNotes,
		SubmittedAt:           &now,
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}
	return s.bidRepo.FindByID(ctx, bid.ID)
}

// ListBids 查询评估下的全部报价
func (s *EvaluationService) ListBids(ctx context.Context, evaluationID string) ([]entity.VendorBid, error) {
	if _, err := s.repo.FindByID(ctx, evaluationID); err != nil {
		return nil, err
	}
	return s.bidRepo.FindByEvaluation(ctx, evaluationID)
}

// RemoveBid 移除报价, 评标完成后不允许
func (s *EvaluationService) RemoveBid(ctx context.Context, evaluationID, bidID string) error {
	evaluation, err := s.repo.FindByID(ctx, evaluationID)
	if err != nil {
		return err
	}
	if evaluation.Status == entity.EvaluationStatusCompleted || evaluation.Status == entity.EvaluationStatusApproved {
		return errors.New("评标完成后不允许移除报价")
	}
	bid, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return err
	}
	if bid.EvaluationID != evaluationID {
		return errors.New("报价不属于该评估")
	}
	return s.bidRepo.Delete(ctx, bidID)
}

// Run 执行评标: 评分 / 合规 / TCO / 排名 / 矩阵 / 报告一次产出
func (s *EvaluationService) Run(ctx context.Context, id, evaluatedBy string) (*EvaluationOutcome, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Status == entity.EvaluationStatusApproved {
		return nil, errors.New("已审批的评估不允许重新评标")
	}
	if len(evaluation.Bids) == 0 {
		return nil, errors.New("评估下没有可评标的报价")
	}

	outcome, err := s.evaluate(evaluation, evaluatedBy)
	if err != nil {
		return nil, err
	}

	snapshot, err := outcomeToJSONB(outcome)
	if err != nil {
		return nil, err
	}
	var recommendedVendorID *string
	if top := outcome.RankingSummary.TopRecommendation; top != nil {
		vendorID := top.VendorID
		recommendedVendorID = &vendorID
	}
	if err := s.repo.SaveResults(ctx, id, snapshot, recommendedVendorID, evaluatedBy); err != nil {
		return nil, err
	}

	s.cacheSummary(ctx, id, outcome.RankingSummary)
	s.logger.Info("Evaluation completed",
		zap.String("evaluation_id", id),
		zap.Int("vendor_count", len(outcome.Results)),
	)
	return outcome, nil
}

// evaluate 组装引擎并运行全部分析
func (s *EvaluationService) evaluate(evaluation *entity.Evaluation, evaluatedBy string) (*EvaluationOutcome, error) {
	weights := engine.CriteriaWeights{
		Price:      evaluation.PriceWeight,
		Quality:    evaluation.QualityWeight,
		Delivery:   evaluation.DeliveryWeight,
		Compliance: evaluation.ComplianceWeight,
	}
	scoringConfig := engine.DefaultScoringConfig()
	scoringConfig.PriceScoringMethod = engine.NormalizationMethod(evaluation.NormalizationMethod)
	scoringConfig.DeliveryScoringMethod = engine.NormalizationMethod(evaluation.NormalizationMethod)

	scorer, err := engine.NewScoringEngine(weights, scoringConfig)
	if err != nil {
		return nil, err
	}
	compliance := engine.NewComplianceScorer(engine.DefaultComplianceConfig())
	tco := engine.NewTCOCalculator(engine.DefaultTCOConfig())
	ranking := engine.NewRankingEngine(engine.DefaultRankingConfig())

	bids, vendors := toEngineInputs(evaluation.Bids)
	requiredISO := []string(evaluation.RequiredISOStandards)
	requiredCerts := []string(evaluation.RequiredCertifications)

	results := scorer.EvaluateAllBids(bids, vendors, requiredISO, requiredCerts)
	checks := compliance.CheckAllVendors(bids, vendors, requiredISO, requiredCerts)
	tcoCalcs := tco.CalculateAllTCO(bids, vendors)
	ranked := ranking.RankVendors(results, tcoCalcs, checks)

	matrix, err := engine.GenerateMatrix(evaluation.ID, evaluation.Name, ranked)
	if err != nil {
		return nil, err
	}

	rankingSummary := ranking.Summary(ranked)
	tcoSummary := tco.Summary(tcoCalcs)
	complianceSummary := compliance.Summary(checks)

	report := engine.BuildReport(engine.ReportInput{
		EvaluationID:      evaluation.ID,
		EvaluationName:    evaluation.Name,
		GeneratedBy:       evaluatedBy,
		Results:           ranked,
		Matrix:            matrix,
		TCOCalculations:   tcoCalcs,
		ComplianceChecks:  checks,
		RankingSummary:    rankingSummary,
		TCOSummary:        tcoSummary,
		ComplianceSummary: complianceSummary,
	})

	return &EvaluationOutcome{
		Results:             ranked,
		TopRecommendations:  ranking.TopRecommendations(ranked, 3),
		Matrix:              matrix,
		Report:              report,
		TCOCalculations:     tcoCalcs,
		TCOSummary:          tcoSummary,
		ComplianceChecks:    checks,
		ComplianceSummary:   complianceSummary,
		ComplianceRanking:   compliance.Rank(checks),
		RankingSummary:      rankingSummary,
		TopVendorComparison: ranking.CompareTopVendors(ranked, 2),
	}, nil
}

// toEngineInputs 报价实体转换为引擎输入, 撤回的报价与缺失档案的供应商跳过
func toEngineInputs(entityBids []entity.VendorBid) ([]engine.Bid, map[string]engine.Vendor) {
	bids := make([]engine.Bid, 0, len(entityBids))
	vendors := make(map[string]engine.Vendor, len(entityBids))
	for _, b := range entityBids {
		if b.Status == entity.BidStatusWithdrawn {
			continue
		}
		bids = append(bids, engine.Bid{
			ID:                    b.ID,
			VendorID:              b.VendorID,
			BidReference:          b.BidReference,
			Currency:              b.Currency,
			UnitPrice:             b.UnitPrice,
			Quantity:              b.Quantity,
			TotalPrice:            b.TotalPrice,
			ShippingCost:          b.ShippingCost,
			InstallationCost:      b.InstallationCost,
			TrainingCost:          b.TrainingCost,
			MaintenanceCostAnnual: b.MaintenanceCostAnnual,
			WarrantyYears:         b.WarrantyYears,
			ExpectedLifespanYears: b.ExpectedLifespanYears,
			DeliveryDays:          b.DeliveryDays,
			QualityScore:          b.QualityScore,
			PastPerformanceScore:  b.PastPerformanceScore,
			ISOCompliance:         b.ISOCompliance,
			Certifications:        b.Certifications,
		})
		if b.Vendor != nil {
			vendors[b.VendorID] = engine.Vendor{
				ID:             b.Vendor.ID,
				Code:           b.Vendor.Code,
				Name:           b.Vendor.Name,
				Certifications: b.Vendor.Certifications,
				ISOStandards:   b.Vendor.ISOStandards,
			}
		}
	}
	return bids, vendors
}

// GetOutcome 读取最近一次评标的结果快照
func (s *EvaluationService) GetOutcome(ctx context.Context, id string) (*EvaluationOutcome, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Results == nil {
		return nil, errors.New("评估尚未运行")
	}
	return jsonbToOutcome(evaluation.Results)
}

// GetSummary 查询排名汇总, 优先走缓存
func (s *EvaluationService) GetSummary(ctx context.Context, id string) (*engine.RankingSummary, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, summaryCacheKey(id)).Bytes()
		if err == nil {
			var summary engine.RankingSummary
			if err := json.Unmarshal(cached, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	outcome, err := s.GetOutcome(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSummary(ctx, id, outcome.RankingSummary)
	return outcome.RankingSummary, nil
}

func summaryCacheKey(id string) string {
	return "tbe:evaluation:summary:" + id
}

func (s *EvaluationService) cacheSummary(ctx context.Context, id string, summary *engine.RankingSummary) {
	if s.rdb == nil || summary == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, summaryCacheKey(id), data, summaryCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache evaluation summary", zap.String("evaluation_id", id), zap.Error(err))
	}
}

func (s *EvaluationService) invalidateSummary(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, summaryCacheKey(id)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate summary cache", zap.String("evaluation_id", id), zap.Error(err))
	}
}

func outcomeToJSONB(outcome *EvaluationOutcome) (entity.JSONB, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return nil, err
	}
	var snapshot entity.JSONB
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func jsonbToOutcome(snapshot entity.JSONB) (*EvaluationOutcome, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	var outcome EvaluationOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}
