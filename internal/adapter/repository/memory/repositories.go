package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// collectionRepository implements domain.CollectionRepository
type collectionRepository struct {
	st *state
}

func (r *collectionRepository) Get(ctx context.Context, address common.Address) (*domain.Collection, error) {
	c, ok := r.st.collections[address]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", address.Hex(), domain.ErrUnknownCollection)
	}
	return &c, nil
}

func (r *collectionRepository) Create(ctx context.Context, collection *domain.Collection) error {
	if _, ok := r.st.collections[collection.Address]; ok {
		return fmt.Errorf("collection %s: %w", collection.Address.Hex(), domain.ErrCollectionAlreadyExists)
	}
	r.st.collections[collection.Address] = *collection
	return nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *domain.Collection) error {
	if _, ok := r.st.collections[collection.Address]; !ok {
		return fmt.Errorf("collection %s: %w", collection.Address.Hex(), domain.ErrUnknownCollection)
	}
	r.st.collections[collection.Address] = *collection
	return nil
}

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	st *state
}

func (r *assetRepository) Get(ctx context.Context, collection common.Address, id uint64) (*domain.Asset, error) {
	a, ok := r.st.assets[assetKey{collection, id}]
	if !ok {
		return nil, fmt.Errorf("asset %d: %w", id, domain.ErrNoSuchAsset)
	}
	return &a, nil
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	key := assetKey{asset.Collection, asset.ID}
	if _, ok := r.st.assets[key]; ok {
		return fmt.Errorf("failed to create asset: asset %d already exists", asset.ID)
	}
	r.st.assets[key] = *asset
	return nil
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	key := assetKey{asset.Collection, asset.ID}
	if _, ok := r.st.assets[key]; !ok {
		return fmt.Errorf("asset %d: %w", asset.ID, domain.ErrNoSuchAsset)
	}
	r.st.assets[key] = *asset
	return nil
}

// listingRepository implements domain.ListingRepository
type listingRepository struct {
	st *state
}

func (r *listingRepository) Get(ctx context.Context, id uint64) (*domain.Listing, error) {
	l, ok := r.st.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %d: %w", id, domain.ErrNoSuchListing)
	}
	l = cloneListing(l)
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if _, ok := r.st.listings[listing.ID]; ok {
		return fmt.Errorf("failed to create listing: listing %d already exists", listing.ID)
	}
	r.st.listings[listing.ID] = cloneListing(*listing)
	return nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	if _, ok := r.st.listings[listing.ID]; !ok {
		return fmt.Errorf("listing %d: %w", listing.ID, domain.ErrNoSuchListing)
	}
	r.st.listings[listing.ID] = cloneListing(*listing)
	return nil
}

func (r *listingRepository) List(ctx context.Context, filter domain.ListingFilter, limit, offset int) ([]*domain.Listing, error) {
	ids := make([]uint64, 0, len(r.st.listings))
	for id, l := range r.st.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Seller != (common.Address{}) && l.Seller != filter.Seller {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) {
		return []*domain.Listing{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]*domain.Listing, 0, len(ids))
	for _, id := range ids {
		l := cloneListing(r.st.listings[id])
		out = append(out, &l)
	}
	return out, nil
}

func (r *listingRepository) Count(ctx context.Context, status domain.ListingStatus) (int, error) {
	if status == "" {
		return len(r.st.listings), nil
	}
	n := 0
	for _, l := range r.st.listings {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

// marketRepository implements domain.MarketRepository
type marketRepository struct {
	st *state
}

func (r *marketRepository) Get(ctx context.Context) (*domain.Market, error) {
	if r.st.market == nil {
		return nil, domain.ErrMarketNotFound
	}
	m := cloneMarket(*r.st.market)
	return &m, nil
}

func (r *marketRepository) Create(ctx context.Context, market *domain.Market) error {
	if r.st.market != nil {
		return fmt.Errorf("failed to create market: market %s already exists", r.st.market.Address.Hex())
	}
	m := cloneMarket(*market)
	r.st.market = &m
	return nil
}

func (r *marketRepository) Update(ctx context.Context, market *domain.Market) error {
	if r.st.market == nil {
		return domain.ErrMarketNotFound
	}
	m := cloneMarket(*market)
	r.st.market = &m
	return nil
}

// saleRepository implements domain.SaleRepository
type saleRepository struct {
	st *state
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	r.st.sales = append(r.st.sales, *sale)
	return nil
}

func (r *saleRepository) Totals(ctx context.Context) (domain.SaleTotals, error) {
	totals := domain.SaleTotals{
		Volume:       decimal.Zero,
		Royalties:    decimal.Zero,
		PlatformFees: decimal.Zero,
	}
	for _, s := range r.st.sales {
		totals.Count++
		totals.Volume = totals.Volume.Add(s.Price)
		totals.Royalties = totals.Royalties.Add(s.Royalty)
		totals.PlatformFees = totals.PlatformFees.Add(s.PlatformFee)
	}
	return totals, nil
}

// balanceRepository implements domain.BalanceRepository
type balanceRepository struct {
	st *state
}

func (r *balanceRepository) Get(ctx context.Context, account common.Address) (decimal.Decimal, error) {
	return r.st.balances[account], nil
}

func (r *balanceRepository) Credit(ctx context.Context, account common.Address, amount decimal.Decimal) error {
	if !domain.IsWholeAmount(amount) {
		return domain.ErrInvalidAmount
	}
	r.st.balances[account] = r.st.balances[account].Add(amount)
	return nil
}

func (r *balanceRepository) Debit(ctx context.Context, account common.Address, amount decimal.Decimal) error {
	if !domain.IsWholeAmount(amount) {
		return domain.ErrInvalidAmount
	}
	current := r.st.balances[account]
	if current.LessThan(amount) {
		return fmt.Errorf("account %s holds %s, needs %s: %w", account.Hex(), current, amount, domain.ErrInsufficientFunds)
	}
	r.st.balances[account] = current.Sub(amount)
	return nil
}
