package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the receipt of one settled listing
type Sale struct {
	ID             uuid.UUID
	ListingID      uint64
	Collection     common.Address
	AssetID        uint64
	Seller         common.Address
	Buyer          common.Address
	Creator        common.Address
	Price          decimal.Decimal
	Royalty        decimal.Decimal
	PlatformFee    decimal.Decimal
	SellerProceeds decimal.Decimal
	SettledAt      time.Time
}

// Validate ensures the sale adheres to domain rules
// CRITICAL: Royalty + PlatformFee + SellerProceeds must equal Price exactly
func (s *Sale) Validate() error {
	if s.ListingID == 0 {
		return errors.New("sale must reference a listing")
	}
	if !IsWholeAmount(s.Price) || s.Price.IsZero() {
		return ErrInvalidPrice
	}

	for _, part := range []decimal.Decimal{s.Royalty, s.PlatformFee, s.SellerProceeds} {
		if part.IsNegative() {
			return ErrSplitUnderflow
		}
		if !part.IsInteger() {
			return ErrInvalidAmount
		}
	}

	if !s.Royalty.Add(s.PlatformFee).Add(s.SellerProceeds).Equal(s.Price) {
		return errors.New("sum of royalty, platform fee and seller proceeds must equal the sale price")
	}

	return nil
}

// SaleTotals aggregates settled sales
type SaleTotals struct {
	Count        int
	Volume       decimal.Decimal
	Royalties    decimal.Decimal
	PlatformFees decimal.Decimal
}
