package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/core/domain"
	"github.com/rl1809/storekeeper/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

const DefaultIdempotencyTTL = 24 * time.Hour

type SalesService struct {
	state     *State
	inventory *InventoryService
	idem      port.IdempotencyStore
	idemTTL   time.Duration
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

type SalesOption func(*SalesService)

// WithIdempotency enables request de-duplication in RecordSaleOnce.
func WithIdempotency(store port.IdempotencyStore, ttl time.Duration) SalesOption {
	return func(s *SalesService) {
		s.idem = store
		s.idemTTL = ttl
	}
}

func WithClock(now func() time.Time) SalesOption {
	return func(s *SalesService) { s.now = now }
}

func WithIDGenerator(newID func() string) SalesOption {
	return func(s *SalesService) { s.newID = newID }
}

func NewSalesService(inventory *InventoryService, logger *zap.Logger, opts ...SalesOption) *SalesService {
	s := &SalesService{
		state:     inventory.state,
		inventory: inventory,
		idemTTL:   DefaultIdempotencyTTL,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordSale validates every line against current stock and only then
// decrements stock and appends the record. On error nothing has changed.
func (s *SalesService) RecordSale(lines []domain.SaleLine) (domain.SaleRecord, error) {
	if len(lines) == 0 {
		return domain.SaleRecord{}, domain.InvalidInputf("sale must contain at least one item")
	}
	for _, line := range lines {
		if line.Quantity == 0 {
			return domain.SaleRecord{}, domain.InvalidInputf("sale quantity for item %d must be positive", line.ItemID)
		}
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.inventory.checkStockLocked(lines); err != nil {
		return domain.SaleRecord{}, err
	}
	var total float64
	for _, line := range lines {
		total += lineValue(st.items[line.ItemID].Price, line.Quantity)
	}
	if math.IsInf(total, 0) {
		return domain.SaleRecord{}, domain.InvalidInputf("sale total overflows")
	}

	record := domain.SaleRecord{
		ID:    s.newID(),
		Items: make([]domain.SaleItem, 0, len(lines)),
	}
	touched := make(map[uint64]int, len(lines))
	var updated []domain.InventoryItem
	for _, line := range lines {
		item, err := s.inventory.decrementStockLocked(line.ItemID, line.Quantity)
		if err != nil {
			// unreachable: every line was checked under this same lock
			panic(fmt.Sprintf("record sale: stock changed after validation: %v", err))
		}
		record.Items = append(record.Items, domain.SaleItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
		})

		if i, ok := touched[item.ID]; ok {
			updated[i] = item
		} else {
			touched[item.ID] = len(updated)
			updated = append(updated, item)
		}
	}
	record.TotalAmount = total
	record.Timestamp = s.now()

	seq := len(st.sales)
	st.sales = append(st.sales, record)

	published := record.Clone()
	st.sink.Publish(domain.Change{
		Kind:   domain.ChangeSaleRecorded,
		NextID: st.nextID,
		Items:  updated,
		Sale:   &published,
		Seq:    seq,
	})

	s.logger.Info("sale recorded",
		zap.String("sale_id", record.ID),
		zap.Int("lines", len(record.Items)),
		zap.Float64("total_amount", record.TotalAmount))
	return record.Clone(), nil
}

// RecordSaleOnce records a sale at most once per requestID. An empty
// requestID skips the check. A failed sale releases the claim.
func (s *SalesService) RecordSaleOnce(ctx context.Context, requestID string, lines []domain.SaleLine) (domain.SaleRecord, error) {
	if requestID == "" || s.idem == nil {
		return s.RecordSale(lines)
	}

	key := "sale-request:" + requestID
	ok, err := s.idem.Claim(ctx, key, s.idemTTL)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.SaleRecord{}, ErrDuplicateRequest
	}

	record, err := s.RecordSale(lines)
	if err != nil {
		if relErr := s.idem.Release(ctx, key); relErr != nil {
			s.logger.Warn("failed to release sale request claim",
				zap.String("request_id", requestID),
				zap.Error(relErr))
		}
		return domain.SaleRecord{}, err
	}
	return record, nil
}

// GetSales returns the ledger oldest first.
func (s *SalesService) GetSales() []domain.SaleRecord {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	out := make([]domain.SaleRecord, len(s.state.sales))
	for i, rec := range s.state.sales {
		out[i] = rec.Clone()
	}
	return out
}
