package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// BasisPointsDenominator is the scale for every rate in the system (10000 = 100%)
	BasisPointsDenominator = 10000

	// MaxRoyaltyBps caps the creator royalty so it can never exceed the sale price
	MaxRoyaltyBps = 10000

	// MaxFeeRateBps caps the platform fee rate
	MaxFeeRateBps = 10000
)

var bpsDenominator = decimal.NewFromInt(BasisPointsDenominator)

// IsWholeAmount reports whether amount is a non-negative integer in the smallest currency unit
func IsWholeAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative() && amount.IsInteger()
}

// ApplyBasisPoints returns floor(amount * bps / 10000).
// amount must be a whole amount; the quotient is exact integer division.
func ApplyBasisPoints(amount decimal.Decimal, bps uint32) decimal.Decimal {
	if bps == 0 || amount.IsZero() {
		return decimal.Zero
	}
	q, _ := amount.Mul(decimal.NewFromInt(int64(bps))).QuoRem(bpsDenominator, 0)
	return q
}
