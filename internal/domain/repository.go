package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CollectionRepository defines the interface for collection persistence operations
type CollectionRepository interface {
	// Get retrieves a collection by its address
	// Returns ErrUnknownCollection if it does not exist
	Get(ctx context.Context, address common.Address) (*Collection, error)

	// Create creates a new collection
	Create(ctx context.Context, collection *Collection) error

	// Update persists a modified collection
	Update(ctx context.Context, collection *Collection) error
}

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// Get retrieves an asset, burned ones included
	// Returns ErrNoSuchAsset if it was never minted
	Get(ctx context.Context, collection common.Address, id uint64) (*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// Update persists a modified asset
	Update(ctx context.Context, asset *Asset) error
}

// ListingFilter narrows ListingRepository.List
// Zero values mean "no filter"
type ListingFilter struct {
	Status ListingStatus
	Seller common.Address
}

// ListingRepository defines the interface for listing persistence operations
type ListingRepository interface {
	// Get retrieves a listing by its ID
	// Returns ErrNoSuchListing if it does not exist
	Get(ctx context.Context, id uint64) (*Listing, error)

	// Create creates a new listing
	Create(ctx context.Context, listing *Listing) error

	// Update persists a modified listing
	Update(ctx context.Context, listing *Listing) error

	// List retrieves a page of listings ordered by ID
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*Listing, error)

	// Count returns the number of listings with the given status
	// If status is empty, returns the count of all listings
	Count(ctx context.Context, status ListingStatus) (int, error)
}

// MarketRepository defines the interface for marketplace state persistence
type MarketRepository interface {
	// Get retrieves the market state
	// Returns ErrMarketNotFound if it was never created
	Get(ctx context.Context) (*Market, error)

	// Create creates the market state
	Create(ctx context.Context, market *Market) error

	// Update persists a modified market state
	Update(ctx context.Context, market *Market) error
}

// SaleRepository defines the interface for settlement receipt persistence
type SaleRepository interface {
	// Create stores a settled sale
	Create(ctx context.Context, sale *Sale) error

	// Totals aggregates every settled sale
	Totals(ctx context.Context) (SaleTotals, error)
}

// BalanceRepository defines the interface for account balances
type BalanceRepository interface {
	// Get returns the balance of an account (zero if unknown)
	Get(ctx context.Context, account common.Address) (decimal.Decimal, error)

	// Credit increases the balance of an account
	Credit(ctx context.Context, account common.Address, amount decimal.Decimal) error

	// Debit decreases the balance of an account
	// Returns ErrInsufficientFunds if the balance would go negative
	Debit(ctx context.Context, account common.Address, amount decimal.Decimal) error
}

// Repositories is the set of stores one unit of work reads and mutates
type Repositories struct {
	Collections CollectionRepository
	Assets      AssetRepository
	Listings    ListingRepository
	Market      MarketRepository
	Sales       SaleRepository
	Balances    BalanceRepository
}

// Store owns the whole marketplace state and runs operations against it.
//
// Atomic runs fn as one all-or-nothing unit of work: every mutation made through
// repos is committed when fn returns nil and discarded otherwise. The outermost call
// excludes every other unit of work on the store. When ctx already carries a unit of
// work of the same store (a call made from inside fn, e.g. by a payout receiver),
// the call joins it under a savepoint that rolls back on its own failure.
type Store interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// AssetContract is the registry surface the marketplace lists and settles against
type AssetContract interface {
	// Address identifies the collection
	Address() common.Address

	// OwnerOf returns the current owner; ErrNoSuchAsset if burned or never minted
	OwnerOf(ctx context.Context, assetID uint64) (common.Address, error)

	// RoyaltyInfo returns the creator and floor(salePrice * royaltyBps / 10000)
	RoyaltyInfo(ctx context.Context, assetID uint64, salePrice decimal.Decimal) (common.Address, decimal.Decimal, error)

	// IsApprovedOrOwner reports whether spender may move the asset
	IsApprovedOrOwner(ctx context.Context, spender common.Address, assetID uint64) (bool, error)

	// TransferFrom moves the asset from its owner on behalf of operator
	TransferFrom(ctx context.Context, operator, from, to common.Address, assetID uint64) error
}

// ContractResolver finds the asset contract for a collection address
type ContractResolver interface {
	Contract(address common.Address) (AssetContract, bool)
}
