package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

// Mock ChangeSink
type recordingSink struct {
	mu      sync.Mutex
	changes []domain.Change
}

func (r *recordingSink) Publish(change domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recordingSink) all() []domain.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Mock IdempotencyStore
type mockIdempotencyStore struct {
	mu       sync.Mutex
	claimed  map[string]bool
	released []string
	claimErr error
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{claimed: make(map[string]bool)}
}

func (m *mockIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.claimErr != nil {
		return false, m.claimErr
	}
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claimed, key)
	m.released = append(m.released, key)
	return nil
}

var errClaimFailed = errors.New("redis down")

type testServices struct {
	state     *State
	sink      *recordingSink
	inventory *InventoryService
	sales     *SalesService
	reports   *ReportService
}

var fixedTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestServices(opts ...SalesOption) *testServices {
	sink := &recordingSink{}
	state := NewState(sink)
	logger := zap.NewNop()
	inventory := NewInventoryService(state, logger)

	seq := 0
	base := []SalesOption{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("sale-%d", seq)
		}),
	}
	return &testServices{
		state:     state,
		sink:      sink,
		inventory: inventory,
		sales:     NewSalesService(inventory, logger, append(base, opts...)...),
		reports:   NewReportService(state),
	}
}
