package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Validate(t *testing.T) {
	seller := common.HexToAddress("0x01")
	buyer := common.HexToAddress("0x02")
	now := time.Now()

	active := func() Listing {
		return Listing{ID: 1, AssetID: 1, Seller: seller, Price: decimal.NewFromInt(100), Status: ListingStatusActive}
	}

	tests := []struct {
		name    string
		modify  func(l *Listing)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Active listing should pass",
			modify:  func(l *Listing) {},
			wantErr: false,
		},
		{
			name: "Sold listing with buyer and time should pass",
			modify: func(l *Listing) {
				l.Status = ListingStatusSold
				l.Buyer = buyer
				l.SoldAt = &now
			},
			wantErr: false,
		},
		{
			name:    "Zero price should fail",
			modify:  func(l *Listing) { l.Price = decimal.Zero },
			wantErr: true,
			errMsg:  ErrInvalidPrice.Error(),
		},
		{
			name:    "Fractional price should fail",
			modify:  func(l *Listing) { l.Price = decimal.RequireFromString("10.5") },
			wantErr: true,
			errMsg:  ErrInvalidPrice.Error(),
		},
		{
			name:    "Missing seller should fail",
			modify:  func(l *Listing) { l.Seller = common.Address{} },
			wantErr: true,
			errMsg:  "listing seller cannot be the zero address",
		},
		{
			name:    "Zero ID should fail",
			modify:  func(l *Listing) { l.ID = 0 },
			wantErr: true,
			errMsg:  "listing ID must be positive",
		},
		{
			name:    "Active listing with sale time should fail",
			modify:  func(l *Listing) { l.SoldAt = &now },
			wantErr: true,
			errMsg:  "active listing cannot have a sale time",
		},
		{
			name:    "Sold listing without buyer should fail",
			modify:  func(l *Listing) { l.Status = ListingStatusSold; l.SoldAt = &now },
			wantErr: true,
			errMsg:  "sold listing must have a buyer and a sale time",
		},
		{
			name:    "Unknown status should fail",
			modify:  func(l *Listing) { l.Status = "PENDING" },
			wantErr: true,
			errMsg:  "listing status must be ACTIVE or SOLD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := active()
			tt.modify(&l)
			err := l.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListing_MarkSold(t *testing.T) {
	buyer := common.HexToAddress("0x02")
	l := Listing{ID: 1, AssetID: 1, Seller: common.HexToAddress("0x01"), Price: decimal.NewFromInt(1), Status: ListingStatusActive}
	at := time.Now()

	require.NoError(t, l.MarkSold(buyer, at))
	assert.False(t, l.IsActive())
	assert.Equal(t, buyer, l.Buyer)
	require.NotNil(t, l.SoldAt)
	assert.True(t, at.Equal(*l.SoldAt))
	assert.NoError(t, l.Validate())

	// Terminal: a second sale is refused and changes nothing
	err := l.MarkSold(common.HexToAddress("0x03"), at.Add(time.Hour))
	assert.ErrorIs(t, err, ErrListingAlreadySold)
	assert.Equal(t, buyer, l.Buyer)
}
