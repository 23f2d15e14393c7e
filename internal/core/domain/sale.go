package domain

import "time"

// SaleLine is one requested line of a sale.
type SaleLine struct {
	ItemID   uint64
	Quantity uint64
}

// SaleItem snapshots an inventory item at the time it was sold.
type SaleItem struct {
	ID        uint64
	Name      string
	UnitPrice float64
	Quantity  uint64
}

type SaleRecord struct {
	ID          string
	Items       []SaleItem
	TotalAmount float64
	Timestamp   time.Time
}

// Clone returns a copy that shares no memory with r.
func (r SaleRecord) Clone() SaleRecord {
	out := r
	out.Items = make([]SaleItem, len(r.Items))
	copy(out.Items, r.Items)
	return out
}
