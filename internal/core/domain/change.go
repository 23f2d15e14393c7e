package domain

type ChangeKind string

const (
	ChangeItemUpserted ChangeKind = "item_upserted"
	ChangeItemRemoved  ChangeKind = "item_removed"
	ChangeSaleRecorded ChangeKind = "sale_recorded"
)

// Change describes one committed mutation of the store, in commit order.
type Change struct {
	Kind   ChangeKind
	NextID uint64

	// ItemUpserted: the item as written. SaleRecorded: every touched item after the sale.
	Items []InventoryItem

	// ItemRemoved only.
	ItemID uint64

	// SaleRecorded only. Seq is the record's position in the ledger.
	Sale *SaleRecord
	Seq  int
}

// Snapshot is the full state of the store, used to restore it on start.
type Snapshot struct {
	Items  []InventoryItem
	NextID uint64
	Sales  []SaleRecord
}
