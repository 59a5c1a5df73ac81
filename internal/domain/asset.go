package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Collection holds the registry-level state of one asset contract
type Collection struct {
	Address    common.Address
	Name       string
	Symbol     string
	Owner      common.Address // May pause/unpause minting
	Paused     bool
	TokenCount uint64 // Last minted asset ID; IDs start at 1 and are never reused
}

// Validate ensures the collection adheres to domain rules
func (c *Collection) Validate() error {
	if c.Address == (common.Address{}) {
		return errors.New("collection address cannot be the zero address")
	}
	if c.Owner == (common.Address{}) {
		return errors.New("collection owner cannot be the zero address")
	}
	return nil
}

// Asset is a non-fungible item tracked by a collection.
// Creator, RoyaltyBps and URI are fixed at mint and never change.
type Asset struct {
	Collection common.Address
	ID         uint64
	Owner      common.Address
	Creator    common.Address
	RoyaltyBps uint32
	URI        string
	Approved   common.Address // Single-asset transfer delegate; cleared on every transfer
	Burned     bool
	MintedAt   time.Time
}

// Exists reports whether the asset has been minted and not burned
func (a *Asset) Exists() bool {
	return a != nil && !a.Burned
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.ID == 0 {
		return errors.New("asset ID must be positive")
	}
	if a.Creator == (common.Address{}) {
		return errors.New("asset creator cannot be the zero address")
	}
	if a.Owner == (common.Address{}) && !a.Burned {
		return errors.New("asset owner cannot be the zero address")
	}
	if a.RoyaltyBps > MaxRoyaltyBps {
		return ErrInvalidRoyaltyRate
	}
	return nil
}
