package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Market is the marketplace's own state: configuration set at initialization,
// the treasury of accumulated platform fees, and the listing-id counter
type Market struct {
	Address         common.Address // Operator identity sellers approve to move their assets
	Initialized     bool
	Administrator   common.Address
	FeeRateBps      uint32
	AccumulatedFees decimal.Decimal // Never negative
	ListingCount    uint64          // Last allocated listing ID
	InitializedAt   *time.Time
}

// PlatformFee returns floor(price * FeeRateBps / 10000)
func (m *Market) PlatformFee(price decimal.Decimal) decimal.Decimal {
	return ApplyBasisPoints(price, m.FeeRateBps)
}

// CreditFees adds a settled platform fee to the treasury
func (m *Market) CreditFees(fee decimal.Decimal) error {
	if !IsWholeAmount(fee) {
		return ErrInvalidAmount
	}
	m.AccumulatedFees = m.AccumulatedFees.Add(fee)
	return nil
}

// DrainFees empties the treasury and returns what it held
func (m *Market) DrainFees() decimal.Decimal {
	amount := m.AccumulatedFees
	m.AccumulatedFees = decimal.Zero
	return amount
}

// Validate ensures the market adheres to domain rules
func (m *Market) Validate() error {
	if m.Address == (common.Address{}) {
		return errors.New("market address cannot be the zero address")
	}
	if m.AccumulatedFees.IsNegative() {
		return errors.New("accumulated fees cannot be negative")
	}
	if m.FeeRateBps > MaxFeeRateBps {
		return ErrInvalidFeeRate
	}
	if m.Initialized && m.Administrator == (common.Address{}) {
		return errors.New("initialized market must have an administrator")
	}
	return nil
}
