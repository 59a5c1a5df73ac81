package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/access"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/split"
)

// BuyItemInput represents the input for purchasing a listing
type BuyItemInput struct {
	Buyer     common.Address
	ListingID uint64
	Payment   decimal.Decimal // Must equal the listing price exactly
}

// SettlementService settles purchases of listed assets
type SettlementService struct {
	Store     domain.Store
	Contracts domain.ContractResolver
	Payouts   *payout.Service
	now       func() time.Time
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(store domain.Store, contracts domain.ContractResolver, payouts *payout.Service) *SettlementService {
	return &SettlementService{
		Store:     store,
		Contracts: contracts,
		Payouts:   payouts,
		now:       time.Now,
	}
}

// BuyItem settles one listing as a single all-or-nothing unit of work
// Logic:
//  1. Preconditions, first failure wins: listing exists and is ACTIVE, payment equals
//     the price, the seller still owns the asset
//  2. Query the creator royalty and split the price (royalty, platform fee, seller proceeds)
//  3. Mark the listing SOLD and persist it before anything leaves the engine
//  4. Take the payment from the buyer and credit the fee to the treasury
//  5. Move the asset from seller to buyer through the registry
//  6. Record the sale, then pay the creator and the seller
//
// Payees' receivers run at step 6 and may re-enter the engine; the listing is already
// SOLD at that point, so a second purchase fails with ErrListingAlreadySold. Any
// failure, including a rejected payout, reverts every step.
func (s *SettlementService) BuyItem(ctx context.Context, input BuyItemInput) (*domain.Sale, error) {
	if input.Buyer == (common.Address{}) {
		return nil, fmt.Errorf("buyer: %w", domain.ErrInvalidAddress)
	}

	var sale *domain.Sale
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		listing, err := repos.Listings.Get(ctx, input.ListingID)
		if err != nil {
			return err
		}
		if !listing.IsActive() {
			return fmt.Errorf("listing %d: %w", listing.ID, domain.ErrListingAlreadySold)
		}
		if !input.Payment.Equal(listing.Price) {
			return fmt.Errorf("listing %d costs %s, got %s: %w",
				listing.ID, listing.Price.String(), input.Payment.String(), domain.ErrIncorrectPayment)
		}

		market, err := repos.Market.Get(ctx)
		if err != nil {
			return err
		}
		if err := access.ForMarket(market).RequireInitialized(); err != nil {
			return err
		}

		contract, ok := s.Contracts.Contract(listing.Collection)
		if !ok {
			return fmt.Errorf("collection %s: %w", listing.Collection.Hex(), domain.ErrUnknownCollection)
		}
		if err := s.checkAvailable(ctx, contract, listing); err != nil {
			return err
		}

		creator, royalty, err := contract.RoyaltyInfo(ctx, listing.AssetID, listing.Price)
		if err != nil {
			return err
		}
		parts, err := split.Calculate(listing.Price, royalty, market.FeeRateBps)
		if err != nil {
			return fmt.Errorf("listing %d: %w", listing.ID, err)
		}

		now := s.now().UTC()
		if err := listing.MarkSold(input.Buyer, now); err != nil {
			return err
		}
		if err := repos.Listings.Update(ctx, listing); err != nil {
			return err
		}

		if err := repos.Balances.Debit(ctx, input.Buyer, listing.Price); err != nil {
			return err
		}
		if err := market.CreditFees(parts.PlatformFee); err != nil {
			return err
		}
		if err := repos.Market.Update(ctx, market); err != nil {
			return err
		}

		if err := contract.TransferFrom(ctx, market.Address, listing.Seller, input.Buyer, listing.AssetID); err != nil {
			return fmt.Errorf("failed to transfer asset %d: %w", listing.AssetID, err)
		}

		sale = &domain.Sale{
			ID:             uuid.New(),
			ListingID:      listing.ID,
			Collection:     listing.Collection,
			AssetID:        listing.AssetID,
			Seller:         listing.Seller,
			Buyer:          input.Buyer,
			Creator:        creator,
			Price:          parts.Price,
			Royalty:        parts.Royalty,
			PlatformFee:    parts.PlatformFee,
			SellerProceeds: parts.SellerProceeds,
			SettledAt:      now,
		}
		if err := sale.Validate(); err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		if err := s.Payouts.Send(ctx, repos.Balances, market.Address, creator, parts.Royalty); err != nil {
			return err
		}
		return s.Payouts.Send(ctx, repos.Balances, market.Address, listing.Seller, parts.SellerProceeds)
	})
	if err != nil {
		logger.Debug("purchase failed",
			zap.Uint64("listing_id", input.ListingID),
			zap.String("buyer", input.Buyer.Hex()),
			zap.Error(err))
		return nil, err
	}

	logger.Info("item sold",
		zap.String("sale_id", sale.ID.String()),
		zap.Uint64("listing_id", sale.ListingID),
		zap.Uint64("asset_id", sale.AssetID),
		zap.String("buyer", sale.Buyer.Hex()),
		zap.String("price", sale.Price.String()),
		zap.String("royalty", sale.Royalty.String()),
		zap.String("platform_fee", sale.PlatformFee.String()),
		zap.String("seller_proceeds", sale.SellerProceeds.String()))

	return sale, nil
}

// checkAvailable guards against the asset having moved or been burned since listing
func (s *SettlementService) checkAvailable(ctx context.Context, contract domain.AssetContract, listing *domain.Listing) error {
	owner, err := contract.OwnerOf(ctx, listing.AssetID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchAsset) {
			return fmt.Errorf("asset %d: %w", listing.AssetID, domain.ErrAssetNoLongerAvailable)
		}
		return err
	}
	if owner != listing.Seller {
		return fmt.Errorf("asset %d left seller %s: %w", listing.AssetID, listing.Seller.Hex(), domain.ErrAssetNoLongerAvailable)
	}
	return nil
}
