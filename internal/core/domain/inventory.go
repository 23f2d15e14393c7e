package domain

import "math"

type InventoryItem struct {
	ID       uint64
	Name     string
	Quantity uint64
	Price    float64
}

// Optional marks a field as present. The zero value means "leave unchanged".
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// ItemPatch is a partial update of an InventoryItem.
type ItemPatch struct {
	Name     Optional[string]
	Quantity Optional[uint64]
	Price    Optional[float64]
}

// Empty reports whether the patch sets no field.
func (p ItemPatch) Empty() bool {
	return !p.Name.Set && !p.Quantity.Set && !p.Price.Set
}

// Apply writes every set field onto item. Validate first.
func (p ItemPatch) Apply(item *InventoryItem) {
	if name, ok := p.Name.Get(); ok {
		item.Name = name
	}
	if qty, ok := p.Quantity.Get(); ok {
		item.Quantity = qty
	}
	if price, ok := p.Price.Get(); ok {
		item.Price = price
	}
}

func (p ItemPatch) Validate() error {
	if name, ok := p.Name.Get(); ok {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	if price, ok := p.Price.Get(); ok {
		if err := ValidatePrice(price); err != nil {
			return err
		}
	}
	return nil
}

func ValidateName(name string) error {
	if name == "" {
		return InvalidInputf("item name must not be empty")
	}
	return nil
}

func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return InvalidInputf("item price must be a finite number")
	}
	if price < 0 {
		return InvalidInputf("item price must not be negative, got %g", price)
	}
	return nil
}

// ValidateStockValue rejects stock whose value quantity*price is not a finite float.
func ValidateStockValue(quantity uint64, price float64) error {
	if math.IsInf(price*float64(quantity), 0) {
		return InvalidInputf("stock value of %d at %g overflows", quantity, price)
	}
	return nil
}
