package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// MarketSummary represents the aggregated marketplace figures
type MarketSummary struct {
	Initialized     bool
	FeeRateBps      uint32
	ActiveListings  int
	SoldListings    int
	SalesCount      int
	Volume          decimal.Decimal
	Royalties       decimal.Decimal
	PlatformFees    decimal.Decimal // Ever collected
	AccumulatedFees decimal.Decimal // Awaiting withdrawal
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	Store domain.Store
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(store domain.Store) *DashboardService {
	return &DashboardService{Store: store}
}

// GetMarketSummary aggregates the marketplace state from one consistent snapshot
// Logic:
//   - Listings: count of ACTIVE and SOLD listings
//   - Sales: count, volume and the royalty/fee parts of every settled sale
//   - Treasury: platform fees not yet withdrawn
func (s *DashboardService) GetMarketSummary(ctx context.Context) (*MarketSummary, error) {
	var summary MarketSummary
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		// 1. Market configuration and treasury
		market, err := repos.Market.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to get market: %w", err)
		}
		summary.Initialized = market.Initialized
		summary.FeeRateBps = market.FeeRateBps
		summary.AccumulatedFees = market.AccumulatedFees

		// 2. Listing counts
		summary.ActiveListings, err = repos.Listings.Count(ctx, domain.ListingStatusActive)
		if err != nil {
			return fmt.Errorf("failed to count active listings: %w", err)
		}
		summary.SoldListings, err = repos.Listings.Count(ctx, domain.ListingStatusSold)
		if err != nil {
			return fmt.Errorf("failed to count sold listings: %w", err)
		}

		// 3. Sale totals
		totals, err := repos.Sales.Totals(ctx)
		if err != nil {
			return fmt.Errorf("failed to total sales: %w", err)
		}
		summary.SalesCount = totals.Count
		summary.Volume = totals.Volume
		summary.Royalties = totals.Royalties
		summary.PlatformFees = totals.PlatformFees
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
