package port

import (
	"context"
	"time"
)

type IdempotencyStore interface {
	// Claim reserves key for ttl, returns false if it is already claimed
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key so the request can be retried
	Release(ctx context.Context, key string) error
}

type StockMirror interface {
	// SetStock publishes the current quantity of an item
	SetStock(ctx context.Context, itemID uint64, quantity uint64) error

	// DeleteStock drops a removed item from the mirror
	DeleteStock(ctx context.Context, itemID uint64) error
}
