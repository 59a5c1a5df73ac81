package split

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// Split is the three-way division of one sale price
type Split struct {
	Price          decimal.Decimal
	Royalty        decimal.Decimal
	PlatformFee    decimal.Decimal
	SellerProceeds decimal.Decimal
}

// Calculate divides a sale price between creator, platform and seller
// Logic:
//  1. Royalty is taken as given (the registry computed floor(price * royaltyBps / 10000))
//  2. PlatformFee = floor(price * feeRateBps / 10000), independent of the royalty
//  3. SellerProceeds = price - royalty - fee; a negative remainder is rejected, never clamped
//
// Safety: Ensures royalty + fee + proceeds equals the price exactly (no unit lost)
func Calculate(price, royalty decimal.Decimal, feeRateBps uint32) (Split, error) {
	if !domain.IsWholeAmount(price) || price.IsZero() {
		return Split{}, domain.ErrInvalidPrice
	}
	if !domain.IsWholeAmount(royalty) {
		return Split{}, domain.ErrInvalidAmount
	}
	if feeRateBps > domain.MaxFeeRateBps {
		return Split{}, domain.ErrInvalidFeeRate
	}

	fee := domain.ApplyBasisPoints(price, feeRateBps)

	if royalty.Add(fee).GreaterThan(price) {
		return Split{}, domain.ErrSplitUnderflow
	}
	proceeds := price.Sub(royalty).Sub(fee)

	s := Split{
		Price:          price,
		Royalty:        royalty,
		PlatformFee:    fee,
		SellerProceeds: proceeds,
	}

	// Safety check: Ensure the parts add back up to the price
	if !s.Total().Equal(price) {
		return Split{}, domain.ErrSplitUnderflow
	}

	return s, nil
}

// Total returns royalty + fee + proceeds
func (s Split) Total() decimal.Decimal {
	return s.Royalty.Add(s.PlatformFee).Add(s.SellerProceeds)
}
