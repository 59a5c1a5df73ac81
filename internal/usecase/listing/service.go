package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/access"
)

// ListItemInput represents the input for listing an asset
type ListItemInput struct {
	Seller     common.Address
	Collection common.Address
	AssetID    uint64
	Price      decimal.Decimal
}

// ListingService handles listing operations
type ListingService struct {
	Store     domain.Store
	Contracts domain.ContractResolver
	now       func() time.Time
}

// NewListingService creates a new ListingService instance
func NewListingService(store domain.Store, contracts domain.ContractResolver) *ListingService {
	return &ListingService{
		Store:     store,
		Contracts: contracts,
		now:       time.Now,
	}
}

// ListItem offers an asset for sale at a fixed price
// Logic:
//  1. Validate the price (positive, whole units)
//  2. Require an initialized marketplace
//  3. Resolve the collection and require that the seller owns the asset
//  4. Allocate the next listing ID and store the listing as ACTIVE
//
// The asset stays with the seller; approval for the marketplace is not checked here
// and surfaces as a transfer failure at purchase time.
func (s *ListingService) ListItem(ctx context.Context, input ListItemInput) (*domain.Listing, error) {
	if !domain.IsWholeAmount(input.Price) || input.Price.IsZero() {
		return nil, domain.ErrInvalidPrice
	}

	var listing *domain.Listing
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		market, err := repos.Market.Get(ctx)
		if err != nil {
			return err
		}
		if err := access.ForMarket(market).RequireInitialized(); err != nil {
			return err
		}

		contract, ok := s.Contracts.Contract(input.Collection)
		if !ok {
			return fmt.Errorf("collection %s: %w", input.Collection.Hex(), domain.ErrUnknownCollection)
		}

		owner, err := contract.OwnerOf(ctx, input.AssetID)
		if err != nil {
			if errors.Is(err, domain.ErrNoSuchAsset) {
				return fmt.Errorf("list asset %d: %w", input.AssetID, domain.ErrNotAssetOwner)
			}
			return err
		}
		if owner != input.Seller {
			return fmt.Errorf("list asset %d: %w", input.AssetID, domain.ErrNotAssetOwner)
		}

		market.ListingCount++
		if err := repos.Market.Update(ctx, market); err != nil {
			return err
		}

		listing = &domain.Listing{
			ID:         market.ListingCount,
			Collection: input.Collection,
			AssetID:    input.AssetID,
			Seller:     input.Seller,
			Price:      input.Price,
			Status:     domain.ListingStatusActive,
			CreatedAt:  s.now().UTC(),
		}
		if err := listing.Validate(); err != nil {
			return err
		}
		return repos.Listings.Create(ctx, listing)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("item listed",
		zap.Uint64("listing_id", listing.ID),
		zap.String("collection", listing.Collection.Hex()),
		zap.Uint64("asset_id", listing.AssetID),
		zap.String("seller", listing.Seller.Hex()),
		zap.String("price", listing.Price.String()))

	return listing, nil
}

// GetListing retrieves a listing, sold or not
func (s *ListingService) GetListing(ctx context.Context, id uint64) (*domain.Listing, error) {
	var listing *domain.Listing
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		listing, err = repos.Listings.Get(ctx, id)
		return err
	})
	return listing, err
}

// ListListings retrieves a page of listings and the total matching count
func (s *ListingService) ListListings(ctx context.Context, filter domain.ListingFilter, limit, offset int) ([]*domain.Listing, int, error) {
	if limit <= 0 {
		return nil, 0, errors.New("limit must be positive")
	}
	if offset < 0 {
		return nil, 0, errors.New("offset must be non-negative")
	}

	var (
		listings []*domain.Listing
		total    int
	)
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		listings, err = repos.Listings.List(ctx, filter, limit, offset)
		if err != nil {
			return err
		}
		if filter.Seller == (common.Address{}) {
			total, err = repos.Listings.Count(ctx, filter.Status)
			return err
		}
		all, err := repos.Listings.List(ctx, filter, 0, 0)
		total = len(all)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}
