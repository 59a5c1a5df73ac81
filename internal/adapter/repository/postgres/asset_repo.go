package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	q querier
}

// Get retrieves an asset, burned ones included
func (r *assetRepository) Get(ctx context.Context, collection common.Address, id uint64) (*domain.Asset, error) {
	query := `
		SELECT owner, creator, royalty_bps, uri, approved, burned, minted_at
		FROM assets
		WHERE collection = $1 AND id = $2
	`

	a := domain.Asset{Collection: collection, ID: id}
	var ownerStr, creatorStr, approvedStr string
	var royaltyBps int64

	err := r.q.QueryRowContext(ctx, query, collection.Hex(), int64(id)).Scan(
		&ownerStr,
		&creatorStr,
		&royaltyBps,
		&a.URI,
		&approvedStr,
		&a.Burned,
		&a.MintedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %d: %w", id, domain.ErrNoSuchAsset)
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if a.Owner, err = parseAddress("owner", ownerStr); err != nil {
		return nil, err
	}
	if a.Creator, err = parseAddress("creator", creatorStr); err != nil {
		return nil, err
	}
	if a.Approved, err = parseAddress("approved", approvedStr); err != nil {
		return nil, err
	}
	a.RoyaltyBps = uint32(royaltyBps)

	return &a, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `
		INSERT INTO assets (collection, id, owner, creator, royalty_bps, uri, approved, burned, minted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		a.Collection.Hex(),
		int64(a.ID),
		addressValue(a.Owner),
		addressValue(a.Creator),
		int64(a.RoyaltyBps),
		a.URI,
		addressValue(a.Approved),
		a.Burned,
		a.MintedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// Update persists a modified asset. Creator and royalty rate are immutable.
func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `
		UPDATE assets
		SET owner = $3, approved = $4, burned = $5
		WHERE collection = $1 AND id = $2
	`

	res, err := r.q.ExecContext(ctx, query,
		a.Collection.Hex(),
		int64(a.ID),
		addressValue(a.Owner),
		addressValue(a.Approved),
		a.Burned,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("asset %d: %w", a.ID, domain.ErrNoSuchAsset))
}
