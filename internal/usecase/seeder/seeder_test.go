package seeder

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/royaltymarket-backend/internal/adapter/repository/memory"
	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

var (
	collectionAddr = common.HexToAddress("0x721")
	marketAddr     = common.HexToAddress("0xa11e")
	owner          = common.HexToAddress("0x01")
)

func mainCollection() CollectionSpec {
	return CollectionSpec{Address: collectionAddr, Name: "NFT Main Collection", Symbol: "NTC", Owner: owner}
}

func TestSeed_CreatesMissingRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, NewSeeder(store).Seed(ctx, marketAddr, mainCollection()))

	require.NoError(t, store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		c, err := repos.Collections.Get(ctx, collectionAddr)
		require.NoError(t, err)
		assert.Equal(t, owner, c.Owner)
		assert.Equal(t, "NTC", c.Symbol)
		assert.Zero(t, c.TokenCount)

		m, err := repos.Market.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, marketAddr, m.Address)
		assert.False(t, m.Initialized)
		assert.True(t, m.AccumulatedFees.IsZero())
		return nil
	}))
}

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeder := NewSeeder(store)
	require.NoError(t, seeder.Seed(ctx, marketAddr, mainCollection()))

	// Mutate seeded state; a second seed must not reset it
	require.NoError(t, store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		c, err := repos.Collections.Get(ctx, collectionAddr)
		require.NoError(t, err)
		c.TokenCount = 4
		require.NoError(t, repos.Collections.Update(ctx, c))

		m, err := repos.Market.Get(ctx)
		require.NoError(t, err)
		m.AccumulatedFees = decimal.NewFromInt(9)
		return repos.Market.Update(ctx, m)
	}))

	require.NoError(t, seeder.Seed(ctx, marketAddr, mainCollection()))

	require.NoError(t, store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		c, err := repos.Collections.Get(ctx, collectionAddr)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), c.TokenCount)

		m, err := repos.Market.Get(ctx)
		require.NoError(t, err)
		assert.True(t, m.AccumulatedFees.Equal(decimal.NewFromInt(9)))
		return nil
	}))
}

func TestSeed_RejectsInvalidCollection(t *testing.T) {
	store := memory.NewStore()
	bad := mainCollection()
	bad.Owner = common.Address{}

	err := NewSeeder(store).Seed(context.Background(), marketAddr, bad)

	assert.Error(t, err)
}
