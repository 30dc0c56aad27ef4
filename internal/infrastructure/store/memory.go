// Package store provides the key-value backends for price history: an
// in-memory map (default, also the test double) and a Redis hash.
package store

import (
	"context"
	"sync"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// MemoryStore is a thread-safe in-memory series repository.
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string][]domain.PricePoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		series: make(map[string][]domain.PricePoint),
	}
}

// GetSeries returns a copy of the stored series so callers cannot mutate the
// store through the returned slice.
func (s *MemoryStore) GetSeries(ctx context.Context, productID string) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.series[productID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	return out, nil
}

// PutSeries replaces the stored series for a product.
func (s *MemoryStore) PutSeries(ctx context.Context, productID string, points []domain.PricePoint) error {
	stored := make([]domain.PricePoint, len(points))
	copy(stored, points)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[productID] = stored
	return nil
}

// Size returns the number of products with stored history (for debugging).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Clear removes all stored series.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = make(map[string][]domain.PricePoint)
}
