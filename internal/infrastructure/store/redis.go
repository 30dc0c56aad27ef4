package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// DefaultNamespace is the fixed hash key holding all product series.
const DefaultNamespace = "smartcompare:price_history:v1"

// RedisStore persists price series as a single Redis hash: one field per
// product id, value is the JSON-encoded point array.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisStore connects to Redis using a redis:// URL and verifies the
// connection. An empty namespace falls back to DefaultNamespace.
func NewRedisStore(redisURL, namespace string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &RedisStore{rdb: rdb, namespace: namespace}, nil
}

// GetSeries loads a product's series. A missing field or an unparsable
// payload both yield an empty series; corruption is logged, never fatal.
func (s *RedisStore) GetSeries(ctx context.Context, productID string) ([]domain.PricePoint, error) {
	raw, err := s.rdb.HGet(ctx, s.namespace, productID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	points, err := decodeSeries([]byte(raw))
	if err != nil {
		log.Printf("[HISTORY] malformed stored series for %q, treating as empty: %v", productID, err)
		return nil, nil
	}
	return points, nil
}

// PutSeries stores a product's series under the namespace hash.
func (s *RedisStore) PutSeries(ctx context.Context, productID string, points []domain.PricePoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.namespace, productID, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func decodeSeries(raw []byte) ([]domain.PricePoint, error) {
	var points []domain.PricePoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, err
	}
	return points, nil
}
