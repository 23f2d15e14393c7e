package service

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// lineValue is price times quantity in float64, the figure reported to callers.
func lineValue(price float64, quantity uint64) float64 {
	return price * float64(quantity)
}

// exactLineValue is price times quantity without binary rounding of the product.
func exactLineValue(price float64, quantity uint64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromBigInt(new(big.Int).SetUint64(quantity), 0))
}
