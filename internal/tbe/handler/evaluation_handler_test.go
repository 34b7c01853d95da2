package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/repository"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/service"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/testutil"
)

func setupEvaluationTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	vendorSvc := service.NewVendorService(repos.Vendor)
	evaluationSvc := service.NewEvaluationService(repos.Evaluation, repos.Bid, repos.Vendor)
	handlers := NewHandlers(vendorSvc, evaluationSvc, service.NewExportService())
	handlers.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// seedVendors creates three vendors with distinct compliance profiles
func seedVendors(t *testing.T, router *gin.Engine) []string {
	t.Helper()
	payloads := []map[string]interface{}{
		{
			"name":          "上海精密机电有限公司",
			"country":       "CN",
			"iso_standards": []string{"ISO 9001", "ISO 14001"},
		},
		{
			"name":          "German Precision GmbH",
			"country":       "DE",
			"iso_standards": []string{"ISO 9001"},
		},
		{
			"name":          "Budget Supplies Ltd",
			"country":       "IN",
			"iso_standards": []string{},
		},
	}
	ids := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		w := testutil.DoRequest(router, "POST", "/api/v1/vendors", payload)
		if w.Code != 201 {
			t.Fatalf("expected 201 creating vendor, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.ParseResponse(t, w)
		data := resp["data"].(map[string]interface{})
		ids = append(ids, data["id"].(string))
	}
	return ids
}

func createEvaluation(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/evaluations", map[string]interface{}{
		"name":                   "水泵采购评标",
		"project_reference":      "PRJ-2025-001",
		"required_iso_standards": []string{"ISO 9001"},
	})
	if w.Code != 201 {
		t.Fatalf("expected 201 creating evaluation, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(t, w)
	return resp["data"].(map[string]interface{})["id"].(string)
}

func addBid(t *testing.T, router *gin.Engine, evaluationID, vendorID string, unitPrice float64, deliveryDays int, quality float64) {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/bids", map[string]interface{}{
		"vendor_id":              vendorID,
		"unit_price":             unitPrice,
		"quantity":               10,
		"delivery_days":          deliveryDays,
		"quality_score":          quality,
		"past_performance_score": quality,
		"warranty_years":         1,
		"expected_lifespan_years": 5,
	})
	if w.Code != 201 {
		t.Fatalf("expected 201 adding bid, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVendorCRUD(t *testing.T) {
	router := setupEvaluationTest(t)
	ids := seedVendors(t, router)

	// Codes are generated sequentially
	w := testutil.DoRequest(router, "GET", "/api/v1/vendors/"+ids[0], nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	if data["code"] != "VDR-0001" {
		t.Fatalf("expected first vendor code VDR-0001, got %v", data["code"])
	}

	// List with pagination
	w = testutil.DoRequest(router, "GET", "/api/v1/vendors?page=1&page_size=2", nil)
	resp = testutil.ParseResponse(t, w)
	list := resp["data"].(map[string]interface{})
	pagination := list["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 3 || pagination["total_pages"].(float64) != 2 {
		t.Fatalf("unexpected pagination: %v", pagination)
	}

	// Unknown vendor returns 404
	w = testutil.DoRequest(router, "GET", "/api/v1/vendors/nonexistent", nil)
	if w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestEvaluationLifecycle(t *testing.T) {
	router := setupEvaluationTest(t)
	vendorIDs := seedVendors(t, router)
	evaluationID := createEvaluation(t, router)

	addBid(t, router, evaluationID, vendorIDs[0], 120, 20, 90)
	addBid(t, router, evaluationID, vendorIDs[1], 150, 15, 95)
	addBid(t, router, evaluationID, vendorIDs[2], 80, 35, 60)

	// Duplicate bid from the same vendor is rejected
	w := testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/bids", map[string]interface{}{
		"vendor_id":     vendorIDs[0],
		"unit_price":    100.0,
		"delivery_days": 10,
	})
	if w.Code != 400 {
		t.Fatalf("expected 400 for duplicate bid, got %d: %s", w.Code, w.Body.String())
	}

	// Run the evaluation
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/run", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 running evaluation, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(t, w)
	outcome := resp["data"].(map[string]interface{})
	results := outcome["results"].([]interface{})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["rank"].(float64) != 1 {
		t.Fatalf("results should be ordered by rank, got %v", first["rank"])
	}

	// Evaluation transitioned to completed with a recommended vendor
	w = testutil.DoRequest(router, "GET", "/api/v1/evaluations/"+evaluationID, nil)
	resp = testutil.ParseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.EvaluationStatusCompleted {
		t.Fatalf("expected completed status, got %v", data["status"])
	}
	if data["recommended_vendor_id"] == nil {
		t.Fatal("expected a recommended vendor after running")
	}

	// Updating a completed evaluation is rejected
	w = testutil.DoRequest(router, "PUT", "/api/v1/evaluations/"+evaluationID, map[string]interface{}{
		"name": "改名",
	})
	if w.Code != 400 {
		t.Fatalf("expected 400 updating completed evaluation, got %d", w.Code)
	}

	// Approve and lock
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/approve", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 approving, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/run", nil)
	if w.Code != 400 {
		t.Fatalf("expected 400 re-running approved evaluation, got %d", w.Code)
	}
}

func TestEvaluationRunWithoutBids(t *testing.T) {
	router := setupEvaluationTest(t)
	evaluationID := createEvaluation(t, router)

	w := testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/run", nil)
	if w.Code != 400 {
		t.Fatalf("expected 400 running without bids, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEvaluationResultEndpoints(t *testing.T) {
	router := setupEvaluationTest(t)
	vendorIDs := seedVendors(t, router)
	evaluationID := createEvaluation(t, router)
	addBid(t, router, evaluationID, vendorIDs[0], 120, 20, 90)
	addBid(t, router, evaluationID, vendorIDs[1], 150, 15, 95)

	// Before running, result endpoints report an error
	w := testutil.DoRequest(router, "GET", "/api/v1/evaluations/"+evaluationID+"/matrix", nil)
	if w.Code != 400 {
		t.Fatalf("expected 400 before running, got %d", w.Code)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations/"+evaluationID+"/run", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 running, got %d: %s", w.Code, w.Body.String())
	}

	for _, path := range []string{"results", "matrix", "report", "summary", "tco", "compliance"} {
		w = testutil.DoRequest(router, "GET", fmt.Sprintf("/api/v1/evaluations/%s/%s", evaluationID, path), nil)
		if w.Code != 200 {
			t.Fatalf("expected 200 for %s, got %d: %s", path, w.Code, w.Body.String())
		}
	}

	// Matrix carries both vendors
	w = testutil.DoRequest(router, "GET", "/api/v1/evaluations/"+evaluationID+"/matrix", nil)
	resp := testutil.ParseResponse(t, w)
	matrix := resp["data"].(map[string]interface{})
	if matrix["vendor_count"].(float64) != 2 {
		t.Fatalf("expected 2 vendors in matrix, got %v", matrix["vendor_count"])
	}

	// Excel export responds with a spreadsheet
	w = testutil.DoRequest(router, "GET", "/api/v1/evaluations/"+evaluationID+"/export/excel", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 exporting excel, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	// CSV export is GBK encoded
	w = testutil.DoRequest(router, "GET", "/api/v1/evaluations/"+evaluationID+"/export/csv", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200 exporting csv, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected csv body")
	}
}

func TestWeightPresets(t *testing.T) {
	router := setupEvaluationTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/evaluations/presets", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := testutil.ParseResponse(t, w)
	presets := resp["data"].([]interface{})
	if len(presets) != 6 {
		t.Fatalf("expected 6 presets, got %d", len(presets))
	}

	// Creating with a preset applies its weights
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations", map[string]interface{}{
		"name":          "成本导向评标",
		"weight_preset": "cost_focused",
	})
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	if data["price_weight"].(float64) != 0.5 {
		t.Fatalf("expected cost_focused price weight 0.5, got %v", data["price_weight"])
	}

	// Unknown preset is rejected
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations", map[string]interface{}{
		"name":          "bad",
		"weight_preset": "nonsense",
	})
	if w.Code != 400 {
		t.Fatalf("expected 400 for unknown preset, got %d", w.Code)
	}

	// Invalid custom weights are rejected
	w = testutil.DoRequest(router, "POST", "/api/v1/evaluations", map[string]interface{}{
		"name":         "bad weights",
		"price_weight": 0.9,
	})
	if w.Code != 400 {
		t.Fatalf("expected 400 for non-normalized weights, got %d", w.Code)
	}
}
