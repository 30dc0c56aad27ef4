package http

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/catalog"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/urlutil"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/usecase"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	reconcile *usecase.ReconcileService
	refresh   *usecase.RefreshService
	history   *usecase.HistoryService

	// refreshing is the single in-flight guard: the engine performs no
	// locking itself, so overlapping refreshes are rejected here.
	refreshing atomic.Bool
}

// NewHandler creates a new HTTP handler.
func NewHandler(reconcile *usecase.ReconcileService, refresh *usecase.RefreshService, history *usecase.HistoryService) *Handler {
	return &Handler{
		reconcile: reconcile,
		refresh:   refresh,
		history:   history,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartcompare-backend",
		"version": "1.0.0",
	})
}

// compareRequest carries the extension's view of the product page. Omitted
// fields default to the built-in demo catalog.
type compareRequest struct {
	CurrentProduct *domain.Listing  `json:"currentProduct,omitempty"`
	Competitors    []domain.Listing `json:"competitors,omitempty"`
	Reviews        []domain.Review  `json:"reviews,omitempty"`
}

func (r *compareRequest) withDefaults() (domain.Listing, []domain.Listing, []domain.Review) {
	ref := catalog.ReferenceProduct()
	if r.CurrentProduct != nil {
		ref = *r.CurrentProduct
	}
	competitors := r.Competitors
	if competitors == nil {
		competitors = catalog.Competitors()
	}
	reviews := r.Reviews
	if reviews == nil {
		reviews = catalog.Reviews()
	}
	return ref, competitors, reviews
}

// Compare runs deal discovery, reconciles the competitor set and returns it
// together with a fresh analysis.
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
			return
		}
	}
	ref, competitors, reviews := req.withDefaults()

	ctx := c.Request.Context()
	merged := h.reconcile.ValidateAndDiscover(ctx, ref, competitors)
	resolveOutboundLinks(merged)
	analysis := h.refresh.Analyze(ctx, ref, merged, reviews)

	c.JSON(http.StatusOK, gin.H{
		"currentProduct": ref,
		"competitors":    merged,
		"analysis":       analysis,
		"lastUpdated":    time.Now().UTC(),
	})
}

// RefreshPrices perturbs competitor prices, records history for verified
// entries and re-runs analysis. Overlapping refresh calls get a 409.
func (h *Handler) RefreshPrices(c *gin.Context) {
	if !h.refreshing.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrRefreshInFlight.Error()})
		return
	}
	defer h.refreshing.Store(false)

	var req compareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
			return
		}
	}
	ref, competitors, reviews := req.withDefaults()

	updated, analysis := h.refresh.RefreshPrices(c.Request.Context(), ref, competitors, reviews)
	resolveOutboundLinks(updated)

	c.JSON(http.StatusOK, gin.H{
		"competitors": updated,
		"analysis":    analysis,
		"lastUpdated": time.Now().UTC(),
	})
}

// resolveOutboundLinks backfills a usable link for listings that came out of
// reconciliation without one. An empty result stays empty; the client renders
// no link in that case.
func resolveOutboundLinks(listings []domain.Listing) {
	for i := range listings {
		if listings[i].URL == "" {
			listings[i].URL = urlutil.ResolveCanonicalURL(listings[i])
		}
	}
}

// GetHistory returns the price series for a product over the selected range,
// with derived statistics and first-to-last change.
func (h *Handler) GetHistory(c *gin.Context) {
	productID := c.Param("productId")
	window := domain.ParseWindow(c.Query("range"))

	ctx := c.Request.Context()
	points := h.history.WindowPoints(ctx, productID, window)

	resp := gin.H{
		"productId": productID,
		"range":     window,
		"points":    points,
	}
	if stats, ok := h.history.Stats(ctx, productID, window); ok {
		resp["stats"] = stats
	}
	if change, ok := usecase.Change(points); ok {
		resp["change"] = change
	}

	c.JSON(http.StatusOK, resp)
}

// GetNearestPoint returns the point in the selected range closest to the
// requested timestamp (Unix ms).
func (h *Handler) GetNearestPoint(c *gin.Context) {
	productID := c.Param("productId")
	ts, err := strconv.ParseInt(c.Query("ts"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ts must be a unix millisecond timestamp"})
		return
	}
	window := domain.ParseWindow(c.Query("range"))

	points := h.history.WindowPoints(c.Request.Context(), productID, window)
	point, ok := usecase.Nearest(points, ts)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price history in range"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"productId": productID, "point": point})
}

// seedRequest lists the products whose history should be backfilled.
type seedRequest struct {
	Products []domain.Listing `json:"products" binding:"required"`
}

// SeedHistory backfills demo history for products with little or no series.
func (h *Handler) SeedHistory(c *gin.Context) {
	var req seedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	seeded := h.history.Seed(c.Request.Context(), req.Products)
	c.JSON(http.StatusOK, gin.H{"seeded": seeded})
}
