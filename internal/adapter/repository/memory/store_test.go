package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

var (
	alice = common.HexToAddress("0xa1")
	bob   = common.HexToAddress("0xb0")
)

func balanceOf(t *testing.T, s *Store, account common.Address) decimal.Decimal {
	t.Helper()
	var out decimal.Decimal
	require.NoError(t, s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = repos.Balances.Get(ctx, account)
		return err
	}))
	return out
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	s := NewStore()

	err := s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		return repos.Balances.Credit(ctx, alice, decimal.NewFromInt(10))
	})

	require.NoError(t, err)
	assert.True(t, balanceOf(t, s, alice).Equal(decimal.NewFromInt(10)))
}

func TestAtomic_DiscardsOnError(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")

	err := s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Balances.Credit(ctx, alice, decimal.NewFromInt(10)))
		require.NoError(t, repos.Market.Create(ctx, &domain.Market{Address: bob}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, balanceOf(t, s, alice).IsZero())
	err = s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		_, err := repos.Market.Get(ctx)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}

func TestAtomic_NestedFailureRollsBackOnlyInnerWork(t *testing.T) {
	s := NewStore()
	inner := errors.New("inner")

	err := s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Balances.Credit(ctx, alice, decimal.NewFromInt(5)))

		nestedErr := s.Atomic(ctx, func(ctx context.Context, nested domain.Repositories) error {
			require.NoError(t, nested.Balances.Credit(ctx, bob, decimal.NewFromInt(7)))
			require.NoError(t, nested.Balances.Credit(ctx, alice, decimal.NewFromInt(1)))
			return inner
		})
		assert.ErrorIs(t, nestedErr, inner)

		// The outer repositories see the rollback
		got, err := repos.Balances.Get(ctx, alice)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(5)))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, balanceOf(t, s, alice).Equal(decimal.NewFromInt(5)))
	assert.True(t, balanceOf(t, s, bob).IsZero())
}

func TestAtomic_NestedSuccessJoinsOuterUnit(t *testing.T) {
	s := NewStore()
	outer := errors.New("outer")

	err := s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, s.Atomic(ctx, func(ctx context.Context, nested domain.Repositories) error {
			return nested.Balances.Credit(ctx, bob, decimal.NewFromInt(7))
		}))
		return outer
	})

	assert.ErrorIs(t, err, outer)
	assert.True(t, balanceOf(t, s, bob).IsZero(), "nested work must not outlive a failed outer unit")
}

func TestAtomic_SeparateStoresDoNotNest(t *testing.T) {
	a, b := NewStore(), NewStore()

	err := a.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		return b.Atomic(ctx, func(ctx context.Context, other domain.Repositories) error {
			return other.Balances.Credit(ctx, alice, decimal.NewFromInt(1))
		})
	})

	require.NoError(t, err)
	assert.True(t, balanceOf(t, b, alice).Equal(decimal.NewFromInt(1)))
	assert.True(t, balanceOf(t, a, alice).IsZero())
}

func TestBalanceRepository_Debit(t *testing.T) {
	s := NewStore()

	err := s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Balances.Credit(ctx, alice, decimal.NewFromInt(10)))
		require.NoError(t, repos.Balances.Debit(ctx, alice, decimal.NewFromInt(4)))
		return repos.Balances.Debit(ctx, alice, decimal.NewFromInt(7))
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, balanceOf(t, s, alice).IsZero())
}

func TestListingRepository_ListAndCount(t *testing.T) {
	s := NewStore()
	now := time.Now()

	require.NoError(t, s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		for i := uint64(1); i <= 5; i++ {
			l := &domain.Listing{ID: i, AssetID: i, Seller: alice, Price: decimal.NewFromInt(100), Status: domain.ListingStatusActive, CreatedAt: now}
			if i%2 == 0 {
				l.Seller = bob
				require.NoError(t, l.MarkSold(alice, now))
			}
			require.NoError(t, repos.Listings.Create(ctx, l))
		}
		return nil
	}))

	require.NoError(t, s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		active, err := repos.Listings.List(ctx, domain.ListingFilter{Status: domain.ListingStatusActive}, 10, 0)
		require.NoError(t, err)
		require.Len(t, active, 3)
		assert.Equal(t, []uint64{1, 3, 5}, []uint64{active[0].ID, active[1].ID, active[2].ID})

		page, err := repos.Listings.List(ctx, domain.ListingFilter{}, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(2), page[0].ID)

		bobs, err := repos.Listings.List(ctx, domain.ListingFilter{Seller: bob}, 0, 0)
		require.NoError(t, err)
		assert.Len(t, bobs, 2)

		empty, err := repos.Listings.List(ctx, domain.ListingFilter{}, 10, 50)
		require.NoError(t, err)
		assert.Empty(t, empty)

		sold, err := repos.Listings.Count(ctx, domain.ListingStatusSold)
		require.NoError(t, err)
		assert.Equal(t, 2, sold)

		all, err := repos.Listings.Count(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 5, all)
		return nil
	}))
}

func TestListingRepository_GetReturnsCopy(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Listings.Create(ctx, &domain.Listing{ID: 1, AssetID: 1, Seller: alice, Price: decimal.NewFromInt(1), Status: domain.ListingStatusActive}))
		l, err := repos.Listings.Get(ctx, 1)
		require.NoError(t, err)
		l.Status = domain.ListingStatusSold

		again, err := repos.Listings.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.ListingStatusActive, again.Status, "mutating a fetched listing must not write through")
		return nil
	}))
}
