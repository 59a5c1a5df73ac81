//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/listing"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/registry"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/seeder"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/settlement"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/treasury"
)

var (
	collectionAddr = common.HexToAddress("0x721")
	marketAddr     = common.HexToAddress("0xa11e")
	owner          = common.HexToAddress("0x01")
	admin          = common.HexToAddress("0x02")
	creator        = common.HexToAddress("0x03")
	buyer          = common.HexToAddress("0x04")
)

// getDBConnectionString returns the test database, e.g.
// "host=localhost port=5432 user=postgres password=postgres dbname=royaltymarket_test sslmode=disable"
func getDBConnectionString(t *testing.T) string {
	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		t.Skip("DB_CONN_STR not set")
	}
	return connStr
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(getDBConnectionString(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx))
	_, err = db.ExecContext(ctx, `TRUNCATE sales, listings, assets, collections, market, balances`)
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, seeder.NewSeeder(store).Seed(ctx, marketAddr, seeder.CollectionSpec{
		Address: collectionAddr, Name: "NFT Main Collection", Symbol: "NTC", Owner: owner,
	}))
	return store
}

func TestStore_SettlementScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	reg := registry.NewService(store, collectionAddr)
	contracts := registry.NewDirectory(reg)
	payouts := payout.NewService(store)
	listings := listing.NewListingService(store, contracts)
	treasuryService := treasury.NewTreasuryService(store, payouts)
	settlementService := settlement.NewSettlementService(store, contracts, payouts)

	_, err := treasuryService.Initialize(ctx, owner, 500, admin)
	require.NoError(t, err)

	asset, err := reg.Mint(ctx, registry.MintInput{Caller: creator, URI: "sample URI", RoyaltyBps: 300})
	require.NoError(t, err)
	require.NoError(t, reg.Approve(ctx, creator, marketAddr, asset.ID))

	l, err := listings.ListItem(ctx, listing.ListItemInput{Seller: creator, Collection: collectionAddr, AssetID: asset.ID, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = payouts.Deposit(ctx, buyer, decimal.NewFromInt(100))
	require.NoError(t, err)

	// A rejected payout rolls the whole settlement back
	errRejected := errors.New("rejected")
	payouts.Register(creator, payout.ReceiverFunc(func(context.Context, common.Address, decimal.Decimal) error {
		return errRejected
	}))
	_, err = settlementService.BuyItem(ctx, settlement.BuyItemInput{Buyer: buyer, ListingID: l.ID, Payment: decimal.NewFromInt(100)})
	require.ErrorIs(t, err, errRejected)
	payouts.Unregister(creator)

	stored, err := listings.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusActive, stored.Status)

	// Reentrant purchase from inside a payout is refused
	var reentered error
	payouts.Register(creator, payout.ReceiverFunc(func(ctx context.Context, _ common.Address, _ decimal.Decimal) error {
		_, reentered = settlementService.BuyItem(ctx, settlement.BuyItemInput{Buyer: buyer, ListingID: l.ID, Payment: decimal.NewFromInt(100)})
		return nil
	}))

	sale, err := settlementService.BuyItem(ctx, settlement.BuyItemInput{Buyer: buyer, ListingID: l.ID, Payment: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.ErrorIs(t, reentered, domain.ErrListingAlreadySold)
	assert.True(t, sale.Royalty.Equal(decimal.NewFromInt(3)))
	assert.True(t, sale.PlatformFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, sale.SellerProceeds.Equal(decimal.NewFromInt(92)))

	balance, err := payouts.BalanceOf(ctx, creator)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(95)))

	holder, err := reg.OwnerOf(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer, holder)

	withdrawn, err := treasuryService.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.True(t, withdrawn.Equal(decimal.NewFromInt(5)))
}

func TestStore_NestedSavepointRollback(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	account := common.HexToAddress("0x99")
	errInner := errors.New("inner")

	err := store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Balances.Credit(ctx, account, decimal.NewFromInt(10)))

		inner := store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
			require.NoError(t, repos.Balances.Credit(ctx, account, decimal.NewFromInt(5)))
			return errInner
		})
		assert.ErrorIs(t, inner, errInner)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		b, err := repos.Balances.Get(ctx, account)
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.NewFromInt(10)))

		assert.ErrorIs(t, repos.Balances.Debit(ctx, account, decimal.NewFromInt(11)), domain.ErrInsufficientFunds)
		return nil
	}))
}

func TestStore_ListingsListAndCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seller := common.HexToAddress("0x10")

	require.NoError(t, store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		for id := uint64(1); id <= 3; id++ {
			require.NoError(t, repos.Listings.Create(ctx, &domain.Listing{
				ID: id, Collection: collectionAddr, AssetID: id, Seller: seller,
				Price: decimal.NewFromInt(10), Status: domain.ListingStatusActive,
			}))
		}

		page, err := repos.Listings.List(ctx, domain.ListingFilter{Seller: seller}, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(2), page[0].ID)

		n, err := repos.Listings.Count(ctx, domain.ListingStatusActive)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		_, err = repos.Listings.Get(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNoSuchListing)
		return nil
	}))
}
