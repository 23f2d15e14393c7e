package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rl1809/storekeeper/internal/core/domain"
	"github.com/rl1809/storekeeper/internal/port"
)

// State is the single process-wide container shared by the inventory, sales
// and report services. Mutations hold mu for writing for their whole duration.
type State struct {
	mu     sync.RWMutex
	items  map[uint64]*domain.InventoryItem
	order  []uint64 // ascending ids, which is insertion order
	nextID uint64
	sales  []domain.SaleRecord
	sink   port.ChangeSink
}

func NewState(sink port.ChangeSink) *State {
	if sink == nil {
		sink = discardSink{}
	}
	return &State{
		items: make(map[uint64]*domain.InventoryItem),
		sink:  sink,
	}
}

// Restore replaces the whole state with snap. It publishes nothing.
func (s *State) Restore(snap domain.Snapshot) error {
	items := make(map[uint64]*domain.InventoryItem, len(snap.Items))
	order := make([]uint64, 0, len(snap.Items))
	for _, it := range snap.Items {
		if _, dup := items[it.ID]; dup {
			return fmt.Errorf("restore: duplicate item id %d", it.ID)
		}
		if it.ID >= snap.NextID {
			return fmt.Errorf("restore: item id %d not below next id %d", it.ID, snap.NextID)
		}
		item := it
		items[it.ID] = &item
		order = append(order, it.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	sales := make([]domain.SaleRecord, len(snap.Sales))
	for i, rec := range snap.Sales {
		sales[i] = rec.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.order = order
	s.nextID = snap.NextID
	s.sales = sales
	return nil
}

// Snapshot copies the whole state.
func (s *State) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := domain.Snapshot{
		Items:  s.listLocked(func(domain.InventoryItem) bool { return true }),
		NextID: s.nextID,
		Sales:  make([]domain.SaleRecord, len(s.sales)),
	}
	for i, rec := range s.sales {
		snap.Sales[i] = rec.Clone()
	}
	return snap
}

func (s *State) listLocked(keep func(domain.InventoryItem) bool) []domain.InventoryItem {
	out := make([]domain.InventoryItem, 0, len(s.order))
	for _, id := range s.order {
		item := *s.items[id]
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (s *State) removeFromOrderLocked(id uint64) {
	i := sort.Search(len(s.order), func(i int) bool { return s.order[i] >= id })
	if i < len(s.order) && s.order[i] == id {
		s.order = append(s.order[:i], s.order[i+1:]...)
	}
}

type discardSink struct{}

func (discardSink) Publish(domain.Change) {}
