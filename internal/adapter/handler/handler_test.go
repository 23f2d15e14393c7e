package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/core/service"
)

// Mock IdempotencyStore
type memoryClaims struct {
	claimed map[string]bool
}

func (m *memoryClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

func (m *memoryClaims) Release(ctx context.Context, key string) error {
	delete(m.claimed, key)
	return nil
}

type services struct {
	inventory *service.InventoryService
	sales     *service.SalesService
	reports   *service.ReportService
}

func newServices() services {
	logger := zap.NewNop()
	state := service.NewState(nil)
	inventory := service.NewInventoryService(state, logger)
	return services{
		inventory: inventory,
		sales: service.NewSalesService(inventory, logger,
			service.WithIdempotency(&memoryClaims{claimed: make(map[string]bool)}, time.Minute),
			service.WithClock(func() time.Time { return time.Unix(0, 1760000000000000000) })),
		reports: service.NewReportService(state),
	}
}
