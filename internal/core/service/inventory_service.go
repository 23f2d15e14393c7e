package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

type InventoryService struct {
	state  *State
	logger *zap.Logger
}

func NewInventoryService(state *State, logger *zap.Logger) *InventoryService {
	return &InventoryService{state: state, logger: logger}
}

func (s *InventoryService) AddItem(name string, quantity uint64, price float64) (uint64, error) {
	if err := domain.ValidateName(name); err != nil {
		return 0, err
	}
	if err := domain.ValidatePrice(price); err != nil {
		return 0, err
	}
	if err := domain.ValidateStockValue(quantity, price); err != nil {
		return 0, err
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.nextID
	item := &domain.InventoryItem{ID: id, Name: name, Quantity: quantity, Price: price}
	st.items[id] = item
	st.order = append(st.order, id)
	st.nextID++

	st.sink.Publish(domain.Change{
		Kind:   domain.ChangeItemUpserted,
		NextID: st.nextID,
		Items:  []domain.InventoryItem{*item},
	})

	s.logger.Debug("item added",
		zap.Uint64("item_id", id),
		zap.String("name", name),
		zap.Uint64("quantity", quantity),
		zap.Float64("price", price))
	return id, nil
}

// GetItemDetails returns the item and true, or false when it does not exist.
func (s *InventoryService) GetItemDetails(id uint64) (domain.InventoryItem, bool) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	item, ok := s.state.items[id]
	if !ok {
		return domain.InventoryItem{}, false
	}
	return *item, true
}

// UpdateItem applies patch to the item. A missing id is reported before an
// invalid patch.
func (s *InventoryService) UpdateItem(id uint64, patch domain.ItemPatch) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	item, ok := st.items[id]
	if !ok {
		return domain.NotFoundf("item with id %d not found", id)
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	updated := *item
	patch.Apply(&updated)
	if err := domain.ValidateStockValue(updated.Quantity, updated.Price); err != nil {
		return err
	}
	*item = updated

	st.sink.Publish(domain.Change{
		Kind:   domain.ChangeItemUpserted,
		NextID: st.nextID,
		Items:  []domain.InventoryItem{*item},
	})

	s.logger.Debug("item updated", zap.Uint64("item_id", id))
	return nil
}

func (s *InventoryService) RemoveItem(id uint64) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.items[id]; !ok {
		return domain.NotFoundf("item with id %d not found", id)
	}
	delete(st.items, id)
	st.removeFromOrderLocked(id)

	st.sink.Publish(domain.Change{
		Kind:   domain.ChangeItemRemoved,
		NextID: st.nextID,
		ItemID: id,
	})

	s.logger.Debug("item removed", zap.Uint64("item_id", id))
	return nil
}

func (s *InventoryService) GetInventory() []domain.InventoryItem {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.state.listLocked(func(domain.InventoryItem) bool { return true })
}

// SearchItemByName matches query as a case-insensitive substring of the name.
func (s *InventoryService) SearchItemByName(query string) []domain.InventoryItem {
	needle := strings.ToLower(query)

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.state.listLocked(func(item domain.InventoryItem) bool {
		return strings.Contains(strings.ToLower(item.Name), needle)
	})
}

// ReorderSuggestions returns every item with quantity strictly below threshold.
func (s *InventoryService) ReorderSuggestions(threshold uint64) []domain.InventoryItem {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.state.listLocked(func(item domain.InventoryItem) bool {
		return item.Quantity < threshold
	})
}

// checkStockLocked verifies that every line can be served, summing the demand
// of lines that repeat an item. Caller holds the writer lock.
func (s *InventoryService) checkStockLocked(lines []domain.SaleLine) error {
	demand := make(map[uint64]uint64, len(lines))
	for _, line := range lines {
		item, ok := s.state.items[line.ItemID]
		if !ok {
			return domain.NotFoundf("item with id %d not found", line.ItemID)
		}
		total := demand[line.ItemID] + line.Quantity
		if total < line.Quantity || total > item.Quantity {
			return domain.InsufficientStockf("insufficient stock for item %q: requested %d, available %d",
				item.Name, total, item.Quantity)
		}
		demand[line.ItemID] = total
	}
	return nil
}

// decrementStockLocked takes amount off an item. Caller holds the writer lock.
func (s *InventoryService) decrementStockLocked(id, amount uint64) (domain.InventoryItem, error) {
	item, ok := s.state.items[id]
	if !ok {
		return domain.InventoryItem{}, domain.NotFoundf("item with id %d not found", id)
	}
	if amount > item.Quantity {
		return domain.InventoryItem{}, domain.InsufficientStockf("insufficient stock for item %q: requested %d, available %d",
			item.Name, amount, item.Quantity)
	}
	item.Quantity -= amount
	return *item, nil
}
