package store

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRedisStore_InvalidURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-redis-url", ""); err == nil {
		t.Error("NewRedisStore() error = nil, want invalid url error")
	}
}

func TestDecodeSeries(t *testing.T) {
	t.Run("decodes a stored point array", func(t *testing.T) {
		raw := []byte(`[{"timestamp":1700000000000,"price":"799.99","vendor":"Amazon"}]`)

		points, err := decodeSeries(raw)
		if err != nil {
			t.Fatalf("decodeSeries() error = %v", err)
		}
		if len(points) != 1 {
			t.Fatalf("len(points) = %d, want 1", len(points))
		}
		if points[0].Timestamp != 1700000000000 {
			t.Errorf("Timestamp = %d, want 1700000000000", points[0].Timestamp)
		}
		if !points[0].Price.Equal(decimal.NewFromFloat(799.99)) {
			t.Errorf("Price = %s, want 799.99", points[0].Price)
		}
	})

	t.Run("decodes numeric prices", func(t *testing.T) {
		raw := []byte(`[{"timestamp":1,"price":799.99,"vendor":"x"}]`)
		points, err := decodeSeries(raw)
		if err != nil {
			t.Fatalf("decodeSeries() error = %v", err)
		}
		if !points[0].Price.Equal(decimal.NewFromFloat(799.99)) {
			t.Errorf("Price = %s, want 799.99", points[0].Price)
		}
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		if _, err := decodeSeries([]byte(`{"not":"an array"}`)); err == nil {
			t.Error("decodeSeries() error = nil, want decode error")
		}
	})
}
