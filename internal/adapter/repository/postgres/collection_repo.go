package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// collectionRepository implements domain.CollectionRepository
type collectionRepository struct {
	q querier
}

// Get retrieves a collection by its address
func (r *collectionRepository) Get(ctx context.Context, address common.Address) (*domain.Collection, error) {
	query := `
		SELECT address, name, symbol, owner, paused, token_count
		FROM collections
		WHERE address = $1
	`

	var c domain.Collection
	var addressStr, ownerStr string
	var tokenCount int64

	err := r.q.QueryRowContext(ctx, query, address.Hex()).Scan(
		&addressStr,
		&c.Name,
		&c.Symbol,
		&ownerStr,
		&c.Paused,
		&tokenCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("collection %s: %w", address.Hex(), domain.ErrUnknownCollection)
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	if c.Address, err = parseAddress("address", addressStr); err != nil {
		return nil, err
	}
	if c.Owner, err = parseAddress("owner", ownerStr); err != nil {
		return nil, err
	}
	c.TokenCount = uint64(tokenCount)

	return &c, nil
}

// Create creates a new collection
func (r *collectionRepository) Create(ctx context.Context, c *domain.Collection) error {
	query := `
		INSERT INTO collections (address, name, symbol, owner, paused, token_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		c.Address.Hex(),
		c.Name,
		c.Symbol,
		addressValue(c.Owner),
		c.Paused,
		int64(c.TokenCount),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("collection %s: %w", c.Address.Hex(), domain.ErrCollectionAlreadyExists)
		}
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// Update persists a modified collection
func (r *collectionRepository) Update(ctx context.Context, c *domain.Collection) error {
	query := `
		UPDATE collections
		SET name = $2, symbol = $3, owner = $4, paused = $5, token_count = $6
		WHERE address = $1
	`

	res, err := r.q.ExecContext(ctx, query,
		c.Address.Hex(),
		c.Name,
		c.Symbol,
		addressValue(c.Owner),
		c.Paused,
		int64(c.TokenCount),
	)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("collection %s: %w", c.Address.Hex(), domain.ErrUnknownCollection))
}

// expectOneRow returns notFound when an UPDATE matched nothing
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
