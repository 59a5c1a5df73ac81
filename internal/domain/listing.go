package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ListingStatus is the lifecycle state of a listing
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "ACTIVE"
	ListingStatusSold   ListingStatus = "SOLD"
)

// Listing is a fixed-price offer to sell one asset.
// Listings are never deleted; a sold listing stays as the historical record.
type Listing struct {
	ID         uint64
	Collection common.Address
	AssetID    uint64
	Seller     common.Address
	Price      decimal.Decimal
	Status     ListingStatus
	Buyer      common.Address // Zero until sold
	CreatedAt  time.Time
	SoldAt     *time.Time // NULL until sold
}

// IsActive reports whether the listing can still be purchased
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// MarkSold moves the listing to its terminal state.
// Returns ErrListingAlreadySold if it is not active.
func (l *Listing) MarkSold(buyer common.Address, at time.Time) error {
	if !l.IsActive() {
		return ErrListingAlreadySold
	}
	l.Status = ListingStatusSold
	l.Buyer = buyer
	l.SoldAt = &at
	return nil
}

// Validate ensures the listing adheres to domain rules
func (l *Listing) Validate() error {
	if l.ID == 0 {
		return errors.New("listing ID must be positive")
	}
	if l.AssetID == 0 {
		return errors.New("listing must reference a positive asset ID")
	}
	if l.Seller == (common.Address{}) {
		return errors.New("listing seller cannot be the zero address")
	}
	if !IsWholeAmount(l.Price) || l.Price.IsZero() {
		return ErrInvalidPrice
	}

	switch l.Status {
	case ListingStatusActive:
		if l.SoldAt != nil {
			return errors.New("active listing cannot have a sale time")
		}
	case ListingStatusSold:
		if l.SoldAt == nil || l.Buyer == (common.Address{}) {
			return errors.New("sold listing must have a buyer and a sale time")
		}
	default:
		return errors.New("listing status must be ACTIVE or SOLD")
	}

	return nil
}
