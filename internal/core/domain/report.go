package domain

import "github.com/shopspring/decimal"

// FinancialOverview carries the float sums over the ledger and the inventory
// together with the same sums computed in exact decimal arithmetic.
type FinancialOverview struct {
	TotalSalesRevenue   float64
	TotalInventoryValue float64

	ExactSalesRevenue   decimal.Decimal
	ExactInventoryValue decimal.Decimal
}

type TopSeller struct {
	Name         string
	QuantitySold uint64
}
