package usecase

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

const (
	// minPointInterval is the dedup window: a point younger than this blocks
	// the next append for the same product (the later insert is dropped).
	minPointInterval = time.Hour

	seedDays      = 30
	seedMinPoints = 5 // series with at least this many points are never reseeded

	// seedVolatility bounds each backfill step to ±2.5% of the current price.
	seedVolatility = 0.05
	// seedPriceFloor keeps synthesized prices at or above 50% of current.
	seedPriceFloor = 0.5

	// trendEpsilon is the "stable" band as a fraction of the reference price.
	trendEpsilon = 0.005
)

// HistoryService owns all persisted price series, keyed by product id.
// Single logical writer per product; callers serialize concurrent refreshes.
type HistoryService struct {
	repo domain.HistoryRepository
	now  func() time.Time
	rand *rand.Rand
}

// NewHistoryService creates a history service over the given repository.
func NewHistoryService(repo domain.HistoryRepository) *HistoryService {
	return &HistoryService{
		repo: repo,
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetSeries returns the ordered series for a product, empty when none exists.
func (s *HistoryService) GetSeries(ctx context.Context, productID string) []domain.PricePoint {
	points, err := s.repo.GetSeries(ctx, productID)
	if err != nil {
		log.Printf("[HISTORY] load failed for %q, treating as empty: %v", productID, err)
		return nil
	}
	return points
}

// AddPoint appends an observation with the current timestamp. The call is a
// silent no-op when the most recent stored point is less than one hour old.
func (s *HistoryService) AddPoint(ctx context.Context, productID string, price decimal.Decimal, vendor string) error {
	points := s.GetSeries(ctx, productID)

	now := s.now().UnixMilli()
	if n := len(points); n > 0 && now-points[n-1].Timestamp < minPointInterval.Milliseconds() {
		return nil
	}

	points = append(points, domain.PricePoint{Timestamp: now, Price: price, Vendor: vendor})

	// Sort again before persisting; callers are not trusted to be in order.
	sortPoints(points)

	return s.repo.PutSeries(ctx, productID, points)
}

// Seed backfills a plausible 30-day series for every product whose stored
// history has fewer than five points. It walks backward from the current
// price with bounded noise and snaps the most recent point to the exact
// current price. Products with real history are left untouched, so repeated
// seeding is idempotent. Returns the number of products seeded.
func (s *HistoryService) Seed(ctx context.Context, products []domain.Listing) int {
	seeded := 0
	for _, p := range products {
		existing := s.GetSeries(ctx, p.ID)
		if len(existing) >= seedMinPoints {
			continue
		}

		points := s.synthesizeSeries(p)
		if err := s.repo.PutSeries(ctx, p.ID, points); err != nil {
			log.Printf("[HISTORY] seed failed for %q: %v", p.ID, err)
			continue
		}
		seeded++
	}
	return seeded
}

// synthesizeSeries generates seedDays+1 daily points ending at now.
func (s *HistoryService) synthesizeSeries(p domain.Listing) []domain.PricePoint {
	now := s.now()
	current := p.Price.InexactFloat64()
	floor := current * seedPriceFloor

	points := make([]domain.PricePoint, 0, seedDays+1)
	sim := current
	for i := seedDays; i >= 0; i-- {
		volatility := current * seedVolatility
		change := s.rand.Float64()*volatility - volatility/2

		price := sim + change
		if i == 0 {
			price = current
		}
		if price < floor {
			price = floor
		}

		points = append(points, domain.PricePoint{
			Timestamp: now.AddDate(0, 0, -i).UnixMilli(),
			Price:     decimal.NewFromFloat(price).Round(2),
			Vendor:    p.Vendor,
		})
		sim = price
	}

	// The most recent point carries the exact current price, unrounded walk
	// artifacts excluded.
	points[len(points)-1].Price = p.Price
	return points
}

// WindowPoints returns the slice of a product's series inside the window.
func (s *HistoryService) WindowPoints(ctx context.Context, productID string, w domain.Window) []domain.PricePoint {
	points := s.GetSeries(ctx, productID)
	cutoff := w.Cutoff(s.now())

	var out []domain.PricePoint
	for _, pt := range points {
		if pt.Timestamp >= cutoff {
			out = append(out, pt)
		}
	}
	return out
}

// Stats computes min, max and arithmetic mean over the selected window.
// ok is false when the window holds no points.
func (s *HistoryService) Stats(ctx context.Context, productID string, w domain.Window) (domain.SeriesStats, bool) {
	points := s.WindowPoints(ctx, productID, w)
	if len(points) == 0 {
		return domain.SeriesStats{}, false
	}

	min, max, sum := points[0].Price, points[0].Price, decimal.Zero
	for _, pt := range points {
		if pt.Price.LessThan(min) {
			min = pt.Price
		}
		if pt.Price.GreaterThan(max) {
			max = pt.Price
		}
		sum = sum.Add(pt.Price)
	}

	return domain.SeriesStats{
		Min:     min,
		Max:     max,
		Average: sum.Div(decimal.NewFromInt(int64(len(points)))).Round(2),
		Count:   len(points),
	}, true
}

// Nearest returns the point whose timestamp is closest to ts. On an exact
// distance tie the earliest point wins. ok is false for an empty slice.
func Nearest(points []domain.PricePoint, ts int64) (domain.PricePoint, bool) {
	if len(points) == 0 {
		return domain.PricePoint{}, false
	}

	best := points[0]
	bestDist := absDiff(points[0].Timestamp, ts)
	for _, pt := range points[1:] {
		if d := absDiff(pt.Timestamp, ts); d < bestDist {
			best, bestDist = pt, d
		}
	}
	return best, true
}

// ClassifyTrend compares a new price against a reference price. Prices within
// trendEpsilon of the reference are stable.
func ClassifyTrend(newPrice, oldPrice decimal.Decimal) domain.Trend {
	band := oldPrice.Abs().Mul(decimal.NewFromFloat(trendEpsilon))
	diff := newPrice.Sub(oldPrice)

	switch {
	case diff.Abs().LessThanOrEqual(band):
		return domain.TrendStable
	case diff.IsPositive():
		return domain.TrendUp
	default:
		return domain.TrendDown
	}
}

// SeriesChange reports the first-to-last price delta and percent change over
// a window of points. ok is false with fewer than two points.
type SeriesChange struct {
	Delta   decimal.Decimal `json:"delta"`
	Percent decimal.Decimal `json:"percent"`
}

// Change computes the delta between the oldest and newest points.
func Change(points []domain.PricePoint) (SeriesChange, bool) {
	if len(points) < 2 {
		return SeriesChange{}, false
	}
	first := points[0].Price
	last := points[len(points)-1].Price
	delta := last.Sub(first)

	var pct decimal.Decimal
	if !first.IsZero() {
		pct = delta.Div(first).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return SeriesChange{Delta: delta, Percent: pct}, true
}

func sortPoints(points []domain.PricePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
