package registry

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

// MintInput represents the input for minting an asset
type MintInput struct {
	Caller     common.Address // Becomes owner and creator
	URI        string
	RoyaltyBps uint32
}

// Service is the asset registry of one collection. It implements domain.AssetContract.
type Service struct {
	Store      domain.Store
	collection common.Address
	now        func() time.Time
}

var _ domain.AssetContract = (*Service)(nil)

// NewService creates a registry bound to the collection at address
func NewService(store domain.Store, collection common.Address) *Service {
	return &Service{
		Store:      store,
		collection: collection,
		now:        time.Now,
	}
}

// Address returns the collection address
func (s *Service) Address() common.Address {
	return s.collection
}

// Mint creates a new asset owned and created by the caller
// Logic:
//  1. Reject royalty rates above 10000 bps (royalty can never exceed the price)
//  2. Fetch the collection and refuse while paused
//  3. Allocate the next sequential ID from the collection's counter
//  4. Store the asset and log the mint notification
func (s *Service) Mint(ctx context.Context, input MintInput) (*domain.Asset, error) {
	if input.RoyaltyBps > domain.MaxRoyaltyBps {
		return nil, domain.ErrInvalidRoyaltyRate
	}
	if input.Caller == (common.Address{}) {
		return nil, domain.ErrInvalidAddress
	}

	var asset *domain.Asset
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		collection, err := repos.Collections.Get(ctx, s.collection)
		if err != nil {
			return err
		}
		if err := access.ForCollection(collection).RequireUnpaused(); err != nil {
			return err
		}

		collection.TokenCount++
		if err := repos.Collections.Update(ctx, collection); err != nil {
			return err
		}

		asset = &domain.Asset{
			Collection: s.collection,
			ID:         collection.TokenCount,
			Owner:      input.Caller,
			Creator:    input.Caller,
			RoyaltyBps: input.RoyaltyBps,
			URI:        input.URI,
			MintedAt:   s.now().UTC(),
		}
		if err := asset.Validate(); err != nil {
			return err
		}
		return repos.Assets.Create(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("asset minted",
		zap.String("collection", s.collection.Hex()),
		zap.Uint64("asset_id", asset.ID),
		zap.String("minter", asset.Creator.Hex()),
		zap.String("uri", asset.URI),
		zap.Uint32("royalty_bps", asset.RoyaltyBps))

	return asset, nil
}

// Burn permanently destroys an asset. Only its current owner may burn it.
func (s *Service) Burn(ctx context.Context, caller common.Address, assetID uint64) error {
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		asset, err := s.existing(ctx, repos, assetID)
		if err != nil {
			return err
		}
		if asset.Owner != caller {
			return fmt.Errorf("burn asset %d: %w", assetID, domain.ErrNotOwner)
		}

		asset.Burned = true
		asset.Owner = common.Address{}
		asset.Approved = common.Address{}
		return repos.Assets.Update(ctx, asset)
	})
	if err != nil {
		return err
	}

	logger.Info("asset burned",
		zap.String("collection", s.collection.Hex()),
		zap.Uint64("asset_id", assetID),
		zap.String("owner", caller.Hex()))
	return nil
}

// Approve lets spender move one asset on the owner's behalf (e.g. the marketplace).
// Approving the zero address clears the delegate.
func (s *Service) Approve(ctx context.Context, caller, spender common.Address, assetID uint64) error {
	return s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		asset, err := s.existing(ctx, repos, assetID)
		if err != nil {
			return err
		}
		if asset.Owner != caller {
			return fmt.Errorf("approve asset %d: %w", assetID, domain.ErrNotOwner)
		}
		asset.Approved = spender
		return repos.Assets.Update(ctx, asset)
	})
}

// TransferFrom moves an asset from its owner to `to`. The operator must be the owner
// or the approved delegate; the approval is cleared by the move.
func (s *Service) TransferFrom(ctx context.Context, operator, from, to common.Address, assetID uint64) error {
	if to == (common.Address{}) {
		return fmt.Errorf("transfer recipient: %w", domain.ErrInvalidAddress)
	}

	return s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		asset, err := s.existing(ctx, repos, assetID)
		if err != nil {
			return err
		}
		if asset.Owner != from {
			return fmt.Errorf("transfer asset %d from %s: %w", assetID, from.Hex(), domain.ErrNotOwner)
		}
		if operator != asset.Owner && operator != asset.Approved {
			return fmt.Errorf("transfer asset %d by %s: %w", assetID, operator.Hex(), domain.ErrNotApproved)
		}

		asset.Owner = to
		asset.Approved = common.Address{}
		if err := repos.Assets.Update(ctx, asset); err != nil {
			return err
		}

		logger.Debug("asset transferred",
			zap.Uint64("asset_id", assetID),
			zap.String("from", from.Hex()),
			zap.String("to", to.Hex()))
		return nil
	})
}

// OwnerOf returns the current owner; ErrNoSuchAsset once burned
func (s *Service) OwnerOf(ctx context.Context, assetID uint64) (common.Address, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return common.Address{}, err
	}
	return asset.Owner, nil
}

// IsApprovedOrOwner reports whether spender may move the asset
func (s *Service) IsApprovedOrOwner(ctx context.Context, spender common.Address, assetID uint64) (bool, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return false, err
	}
	return spender == asset.Owner || (asset.Approved != (common.Address{}) && spender == asset.Approved), nil
}

// RoyaltyInfo returns the creator and floor(salePrice * royaltyBps / 10000).
// The royalty never exceeds the sale price.
func (s *Service) RoyaltyInfo(ctx context.Context, assetID uint64, salePrice decimal.Decimal) (common.Address, decimal.Decimal, error) {
	if !domain.IsWholeAmount(salePrice) {
		return common.Address{}, decimal.Zero, domain.ErrInvalidPrice
	}
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return common.Address{}, decimal.Zero, err
	}
	return asset.Creator, domain.ApplyBasisPoints(salePrice, asset.RoyaltyBps), nil
}

// GetAsset returns an existing (minted, not burned) asset
func (s *Service) GetAsset(ctx context.Context, assetID uint64) (*domain.Asset, error) {
	var asset *domain.Asset
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		asset, err = s.existing(ctx, repos, assetID)
		return err
	})
	return asset, err
}

// TokenCount returns how many assets were ever minted (burned ones included)
func (s *Service) TokenCount(ctx context.Context) (uint64, error) {
	collection, err := s.GetCollection(ctx)
	if err != nil {
		return 0, err
	}
	return collection.TokenCount, nil
}

// GetCollection returns the collection state
func (s *Service) GetCollection(ctx context.Context) (*domain.Collection, error) {
	var collection *domain.Collection
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		collection, err = repos.Collections.Get(ctx, s.collection)
		return err
	})
	return collection, err
}

// Pause stops minting. Only the registry owner may pause.
func (s *Service) Pause(ctx context.Context, caller common.Address) error {
	return s.setPaused(ctx, caller, true)
}

// Unpause resumes minting. Only the registry owner may unpause.
func (s *Service) Unpause(ctx context.Context, caller common.Address) error {
	return s.setPaused(ctx, caller, false)
}

func (s *Service) setPaused(ctx context.Context, caller common.Address, paused bool) error {
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		collection, err := repos.Collections.Get(ctx, s.collection)
		if err != nil {
			return err
		}
		if err := access.ForCollection(collection).Require(caller, access.RoleRegistryOwner); err != nil {
			return err
		}
		collection.Paused = paused
		return repos.Collections.Update(ctx, collection)
	})
	if err != nil {
		return err
	}

	logger.Info("registry pause changed", zap.String("collection", s.collection.Hex()), zap.Bool("paused", paused))
	return nil
}

// existing fetches an asset and hides burned ones behind ErrNoSuchAsset
func (s *Service) existing(ctx context.Context, repos domain.Repositories, assetID uint64) (*domain.Asset, error) {
	asset, err := repos.Assets.Get(ctx, s.collection, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Exists() {
		return nil, fmt.Errorf("asset %d burned: %w", assetID, domain.ErrNoSuchAsset)
	}
	return asset, nil
}

// Directory resolves collection addresses to registries. It implements domain.ContractResolver.
type Directory map[common.Address]domain.AssetContract

// NewDirectory indexes contracts by address
func NewDirectory(contracts ...domain.AssetContract) Directory {
	d := make(Directory, len(contracts))
	for _, c := range contracts {
		d[c.Address()] = c
	}
	return d
}

// Contract implements domain.ContractResolver
func (d Directory) Contract(address common.Address) (domain.AssetContract, bool) {
	c, ok := d[address]
	return c, ok
}

// IsNotFound reports whether err means the asset does not exist (never minted or burned)
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNoSuchAsset)
}
