package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// listingRepository implements domain.ListingRepository
type listingRepository struct {
	q querier
}

const listingColumns = `id, collection, asset_id, seller, price, status, buyer, created_at, sold_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	var id, assetID int64
	var collectionStr, sellerStr, priceStr, statusStr, buyerStr string
	var soldAt sql.NullTime

	if err := row.Scan(&id, &collectionStr, &assetID, &sellerStr, &priceStr, &statusStr, &buyerStr, &l.CreatedAt, &soldAt); err != nil {
		return nil, err
	}

	var err error
	l.ID = uint64(id)
	l.AssetID = uint64(assetID)
	l.Status = domain.ListingStatus(statusStr)
	if l.Collection, err = parseAddress("collection", collectionStr); err != nil {
		return nil, err
	}
	if l.Seller, err = parseAddress("seller", sellerStr); err != nil {
		return nil, err
	}
	if l.Buyer, err = parseAddress("buyer", buyerStr); err != nil {
		return nil, err
	}
	if l.Price, err = parseAmount("price", priceStr); err != nil {
		return nil, err
	}
	if soldAt.Valid {
		t := soldAt.Time
		l.SoldAt = &t
	}
	return &l, nil
}

// Get retrieves a listing by its ID, locking the row for the rest of the unit of work
func (r *listingRepository) Get(ctx context.Context, id uint64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

	l, err := scanListing(r.q.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing %d: %w", id, domain.ErrNoSuchListing)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// Create creates a new listing
func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		int64(l.ID),
		l.Collection.Hex(),
		int64(l.AssetID),
		l.Seller.Hex(),
		l.Price.String(),
		string(l.Status),
		addressValue(l.Buyer),
		l.CreatedAt,
		l.SoldAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// Update persists a modified listing. Only the sale outcome may change.
func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `
		UPDATE listings
		SET status = $2, buyer = $3, sold_at = $4
		WHERE id = $1
	`

	res, err := r.q.ExecContext(ctx, query,
		int64(l.ID),
		string(l.Status),
		addressValue(l.Buyer),
		l.SoldAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("listing %d: %w", l.ID, domain.ErrNoSuchListing))
}

// filterClause builds the WHERE clause for a filter, numbering placeholders from 1
func filterClause(filter domain.ListingFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Seller != (common.Address{}) {
		args = append(args, filter.Seller.Hex())
		conds = append(conds, fmt.Sprintf("seller = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves a page of listings ordered by ID. A limit of 0 means no limit.
func (r *listingRepository) List(ctx context.Context, filter domain.ListingFilter, limit, offset int) ([]*domain.Listing, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + listingColumns + ` FROM listings` + where + ` ORDER BY id ASC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// Count returns the number of listings with the given status
func (r *listingRepository) Count(ctx context.Context, status domain.ListingStatus) (int, error) {
	where, args := filterClause(domain.ListingFilter{Status: status})

	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}
