package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/config"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/infrastructure/store"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/usecase"
)

// TestMain sets up the test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fixedFinder struct {
	deals []domain.CandidateDeal
	err   error
}

func (f *fixedFinder) FindLiveDeals(ctx context.Context, productTitle string) ([]domain.CandidateDeal, error) {
	return f.deals, f.err
}

type fixedAnalyzer struct {
	result *domain.AnalysisResult
	err    error
}

func (a *fixedAnalyzer) AnalyzeComparison(ctx context.Context, current domain.Listing, competitors []domain.Listing, reviews []domain.Review) (*domain.AnalysisResult, error) {
	return a.result, a.err
}

// setupTestStack wires the full service stack over an in-memory store so the
// handlers under test run the real reconciliation and history paths.
func setupTestStack(finder domain.DealFinder, analyzer domain.Analyzer) (*gin.Engine, *usecase.HistoryService) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*"},
		},
		Store: config.StoreConfig{Type: "memory"},
	}

	history := usecase.NewHistoryService(store.NewMemoryStore())
	reconcile := usecase.NewReconcileService(finder, history)
	refresh := usecase.NewRefreshService(history, analyzer)

	handler := NewHandler(reconcile, refresh, history)
	return SetupRouter(cfg, handler), history
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return body
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		if body["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", body["status"])
		}
		if body["service"] != "smartcompare-backend" {
			t.Errorf("service = %v, want smartcompare-backend", body["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestCompareEndpoint(t *testing.T) {
	t.Run("empty body uses demo catalog and verifies matching deal", func(t *testing.T) {
		price := decimal.NewFromFloat(789.00)
		finder := &fixedFinder{deals: []domain.CandidateDeal{
			{Vendor: "Amazon", Price: &price, URL: "https://www.amazon.com/dp/B0DGJ9XXXX", Condition: "New"},
		}}
		analyzer := &fixedAnalyzer{result: &domain.AnalysisResult{
			BestPriceID:    "c1-amz",
			BestValueID:    "c1-amz",
			Summary:        "Amazon has the best price today.",
			Recommendation: "Buy from Amazon.",
			Pros:           []string{"Fast shipping"},
			Cons:           []string{"None"},
		}}
		router, _ := setupTestStack(finder, analyzer)

		req, _ := http.NewRequest("POST", "/api/v1/compare", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)

		current, ok := body["currentProduct"].(map[string]interface{})
		if !ok || current["id"] != "iphone16-base" {
			t.Errorf("currentProduct.id = %v, want iphone16-base", body["currentProduct"])
		}

		competitors, ok := body["competitors"].([]interface{})
		if !ok || len(competitors) != 3 {
			t.Fatalf("competitors length = %d, want 3", len(competitors))
		}

		statuses := map[string]string{}
		for _, raw := range competitors {
			c := raw.(map[string]interface{})
			statuses[c["id"].(string)] = c["verificationStatus"].(string)
		}
		if statuses["c1-amz"] != "verified" {
			t.Errorf("c1-amz status = %s, want verified", statuses["c1-amz"])
		}
		if statuses["c2-bb"] != "failed" || statuses["c3-wm"] != "failed" {
			t.Errorf("unmatched listings = %v, want failed", statuses)
		}

		analysis, ok := body["analysis"].(map[string]interface{})
		if !ok || analysis["bestPriceId"] != "c1-amz" {
			t.Errorf("analysis.bestPriceId = %v, want c1-amz", body["analysis"])
		}
	})

	t.Run("discovery failure degrades to failed listings and fallback analysis", func(t *testing.T) {
		finder := &fixedFinder{err: domain.ErrGeminiAPIFailure}
		analyzer := &fixedAnalyzer{err: domain.ErrGeminiAPIFailure}
		router, _ := setupTestStack(finder, analyzer)

		req, _ := http.NewRequest("POST", "/api/v1/compare", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		for _, raw := range body["competitors"].([]interface{}) {
			c := raw.(map[string]interface{})
			if c["verificationStatus"] != "failed" {
				t.Errorf("listing %v status = %v, want failed", c["id"], c["verificationStatus"])
			}
		}

		analysis := body["analysis"].(map[string]interface{})
		if analysis["summary"] != "Comparison temporarily unavailable." {
			t.Errorf("fallback summary = %v", analysis["summary"])
		}
	})

	t.Run("compare seeds reference product history", func(t *testing.T) {
		router, history := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("POST", "/api/v1/compare", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		points := history.GetSeries(context.Background(), "iphone16-base")
		if len(points) < 5 {
			t.Errorf("reference series length = %d, want seeded history", len(points))
		}
	})

	t.Run("malformed json returns 400", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("POST", "/api/v1/compare", strings.NewReader(`{"competitors":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("refresh returns perturbed competitors and analysis", func(t *testing.T) {
		analyzer := &fixedAnalyzer{result: &domain.AnalysisResult{
			BestPriceID: "c3-wm",
			BestValueID: "c3-wm",
			Summary:     "Walmart wins on price.",
		}}
		router, _ := setupTestStack(&fixedFinder{}, analyzer)

		req, _ := http.NewRequest("POST", "/api/v1/compare/refresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		competitors, ok := body["competitors"].([]interface{})
		if !ok || len(competitors) != 3 {
			t.Fatalf("competitors length = %d, want 3", len(competitors))
		}
		if _, ok := body["analysis"].(map[string]interface{}); !ok {
			t.Errorf("analysis missing from refresh response")
		}
	})

	t.Run("overlapping refresh returns 409", func(t *testing.T) {
		history := usecase.NewHistoryService(store.NewMemoryStore())
		handler := NewHandler(
			usecase.NewReconcileService(&fixedFinder{}, history),
			usecase.NewRefreshService(history, &fixedAnalyzer{}),
			history,
		)
		handler.refreshing.Store(true)

		router := gin.New()
		router.POST("/refresh", handler.RefreshPrices)

		req, _ := http.NewRequest("POST", "/refresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusConflict)
		}
	})
}

func TestHistoryEndpoints(t *testing.T) {
	seedProducts := func(t *testing.T, history *usecase.HistoryService) {
		t.Helper()
		product := domain.Listing{ID: "prod-1", Price: decimal.NewFromFloat(100.00), Vendor: "Amazon"}
		if n := history.Seed(context.Background(), []domain.Listing{product}); n != 1 {
			t.Fatalf("Seed() = %d, want 1", n)
		}
	}

	t.Run("get history returns points stats and change", func(t *testing.T) {
		router, history := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})
		seedProducts(t, history)

		req, _ := http.NewRequest("GET", "/api/v1/history/prod-1?range=all", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		if body["productId"] != "prod-1" {
			t.Errorf("productId = %v, want prod-1", body["productId"])
		}
		if body["range"] != "all" {
			t.Errorf("range = %v, want all", body["range"])
		}
		points, ok := body["points"].([]interface{})
		if !ok || len(points) != 31 {
			t.Errorf("points length = %d, want 31", len(points))
		}
		if _, ok := body["stats"].(map[string]interface{}); !ok {
			t.Errorf("stats missing from history response")
		}
		if _, ok := body["change"].(map[string]interface{}); !ok {
			t.Errorf("change missing from history response")
		}
	})

	t.Run("unknown product returns empty series without stats", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("GET", "/api/v1/history/ghost", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		if points, ok := body["points"].([]interface{}); ok && len(points) != 0 {
			t.Errorf("points length = %d, want 0", len(points))
		}
		if _, ok := body["stats"]; ok {
			t.Errorf("stats should be omitted for an empty series")
		}
	})

	t.Run("invalid range falls back to one month", func(t *testing.T) {
		router, history := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})
		seedProducts(t, history)

		req, _ := http.NewRequest("GET", "/api/v1/history/prod-1?range=bogus", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		body := decodeBody(t, w)
		if body["range"] != "1m" {
			t.Errorf("range = %v, want 1m", body["range"])
		}
	})

	t.Run("nearest point requires a numeric timestamp", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("GET", "/api/v1/history/prod-1/nearest?ts=yesterday", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("nearest point on empty series returns 404", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("GET", "/api/v1/history/ghost/nearest?ts=1700000000000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("nearest point returns the closest sample", func(t *testing.T) {
		router, history := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})
		seedProducts(t, history)

		points := history.GetSeries(context.Background(), "prod-1")
		if len(points) == 0 {
			t.Fatal("expected seeded series")
		}
		target := points[len(points)-1].Timestamp

		url := fmt.Sprintf("/api/v1/history/prod-1/nearest?ts=%d&range=all", target)
		req, _ := http.NewRequest("GET", url, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		point, ok := body["point"].(map[string]interface{})
		if !ok {
			t.Fatalf("point missing from response: %v", body)
		}
		if int64(point["timestamp"].(float64)) != target {
			t.Errorf("point.timestamp = %v, want %d", point["timestamp"], target)
		}
	})

	t.Run("seed endpoint backfills and reports count", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		payload := `{"products":[{"id":"prod-9","price":"49.99","vendor":"eBay"}]}`
		req, _ := http.NewRequest("POST", "/api/v1/history/seed", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["seeded"] != float64(1) {
			t.Errorf("seeded = %v, want 1", body["seeded"])
		}
	})

	t.Run("seed endpoint rejects missing products", func(t *testing.T) {
		router, _ := setupTestStack(&fixedFinder{}, &fixedAnalyzer{})

		req, _ := http.NewRequest("POST", "/api/v1/history/seed", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
