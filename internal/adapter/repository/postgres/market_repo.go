package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// marketRepository implements domain.MarketRepository
type marketRepository struct {
	q querier
}

// Get retrieves the market state, locking it for the rest of the unit of work
func (r *marketRepository) Get(ctx context.Context) (*domain.Market, error) {
	query := `
		SELECT address, initialized, administrator, fee_rate_bps, accumulated_fees, listing_count, initialized_at
		FROM market
		WHERE singleton
		FOR UPDATE
	`

	var m domain.Market
	var addressStr, adminStr, feesStr string
	var feeRateBps, listingCount int64
	var initializedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query).Scan(
		&addressStr,
		&m.Initialized,
		&adminStr,
		&feeRateBps,
		&feesStr,
		&listingCount,
		&initializedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMarketNotFound
		}
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	if m.Address, err = parseAddress("address", addressStr); err != nil {
		return nil, err
	}
	if m.Administrator, err = parseAddress("administrator", adminStr); err != nil {
		return nil, err
	}
	if m.AccumulatedFees, err = parseAmount("accumulated_fees", feesStr); err != nil {
		return nil, err
	}
	m.FeeRateBps = uint32(feeRateBps)
	m.ListingCount = uint64(listingCount)
	if initializedAt.Valid {
		t := initializedAt.Time
		m.InitializedAt = &t
	}

	return &m, nil
}

// Create creates the market state
func (r *marketRepository) Create(ctx context.Context, m *domain.Market) error {
	query := `
		INSERT INTO market (singleton, address, initialized, administrator, fee_rate_bps, accumulated_fees, listing_count, initialized_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		m.Address.Hex(),
		m.Initialized,
		addressValue(m.Administrator),
		int64(m.FeeRateBps),
		m.AccumulatedFees.String(),
		int64(m.ListingCount),
		m.InitializedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New("failed to create market: market already exists")
		}
		return fmt.Errorf("failed to create market: %w", err)
	}

	return nil
}

// Update persists a modified market state
func (r *marketRepository) Update(ctx context.Context, m *domain.Market) error {
	query := `
		UPDATE market
		SET address = $1, initialized = $2, administrator = $3, fee_rate_bps = $4,
		    accumulated_fees = $5, listing_count = $6, initialized_at = $7
		WHERE singleton
	`

	res, err := r.q.ExecContext(ctx, query,
		m.Address.Hex(),
		m.Initialized,
		addressValue(m.Administrator),
		int64(m.FeeRateBps),
		m.AccumulatedFees.String(),
		int64(m.ListingCount),
		m.InitializedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update market: %w", err)
	}
	return expectOneRow(res, domain.ErrMarketNotFound)
}
