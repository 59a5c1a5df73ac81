package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// saleRepository implements domain.SaleRepository
type saleRepository struct {
	q querier
}

// Create stores a settled sale
func (r *saleRepository) Create(ctx context.Context, s *domain.Sale) error {
	query := `
		INSERT INTO sales (id, listing_id, collection, asset_id, seller, buyer, creator,
		                   price, royalty, platform_fee, seller_proceeds, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		s.ID,
		int64(s.ListingID),
		s.Collection.Hex(),
		int64(s.AssetID),
		s.Seller.Hex(),
		s.Buyer.Hex(),
		s.Creator.Hex(),
		s.Price.String(),
		s.Royalty.String(),
		s.PlatformFee.String(),
		s.SellerProceeds.String(),
		s.SettledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale of listing %d: %w", s.ListingID, domain.ErrListingAlreadySold)
		}
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// Totals aggregates every settled sale
func (r *saleRepository) Totals(ctx context.Context) (domain.SaleTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(price), 0)::TEXT,
		       COALESCE(SUM(royalty), 0)::TEXT,
		       COALESCE(SUM(platform_fee), 0)::TEXT
		FROM sales
	`

	var totals domain.SaleTotals
	var volumeStr, royaltiesStr, feesStr string

	err := r.q.QueryRowContext(ctx, query).Scan(&totals.Count, &volumeStr, &royaltiesStr, &feesStr)
	if err != nil {
		return domain.SaleTotals{}, fmt.Errorf("failed to total sales: %w", err)
	}

	if totals.Volume, err = parseAmount("volume", volumeStr); err != nil {
		return domain.SaleTotals{}, err
	}
	if totals.Royalties, err = parseAmount("royalties", royaltiesStr); err != nil {
		return domain.SaleTotals{}, err
	}
	if totals.PlatformFees, err = parseAmount("platform_fees", feesStr); err != nil {
		return domain.SaleTotals{}, err
	}

	return totals, nil
}
