package treasury

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/royaltymarket-backend/internal/adapter/repository/memory"
	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/seeder"
)

var (
	marketAddr = common.HexToAddress("0xa11e")
	admin      = common.HexToAddress("0x01")
	stranger   = common.HexToAddress("0x02")
)

func newService(t *testing.T) (*TreasuryService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, seeder.NewSeeder(store).Seed(context.Background(), marketAddr))
	return NewTreasuryService(store, payout.NewService(store)), store
}

// accrue credits fees straight into the treasury, as a settled sale would
func accrue(t *testing.T, store domain.Store, amount int64) {
	t.Helper()
	require.NoError(t, store.Atomic(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		m, err := repos.Market.Get(ctx)
		if err != nil {
			return err
		}
		if err := m.CreditFees(decimal.NewFromInt(amount)); err != nil {
			return err
		}
		return repos.Market.Update(ctx, m)
	}))
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	market, err := service.Initialize(ctx, stranger, 500, admin)
	require.NoError(t, err)
	assert.True(t, market.Initialized)
	assert.Equal(t, admin, market.Administrator)
	assert.Equal(t, uint32(500), market.FeeRateBps)
	assert.NotNil(t, market.InitializedAt)

	_, err = service.Initialize(ctx, admin, 100, stranger)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	stored, err := service.GetMarket(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin, stored.Administrator)
	assert.Equal(t, uint32(500), stored.FeeRateBps)
}

func TestInitialize_Validation(t *testing.T) {
	tests := []struct {
		name    string
		feeBps  uint32
		admin   common.Address
		wantErr error
	}{
		{"fee above 100%", 10001, admin, domain.ErrInvalidFeeRate},
		{"zero administrator", 500, common.Address{}, domain.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			service, _ := newService(t)

			_, err := service.Initialize(ctx, admin, tt.feeBps, tt.admin)
			assert.ErrorIs(t, err, tt.wantErr)

			market, err := service.GetMarket(ctx)
			require.NoError(t, err)
			assert.False(t, market.Initialized)
		})
	}
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	service, store := newService(t)
	_, err := service.Initialize(ctx, admin, 500, admin)
	require.NoError(t, err)
	accrue(t, store, 10)

	_, err = service.Withdraw(ctx, stranger)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))

	amount, err := service.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10)))

	balance, err := service.GetContractBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	paid, err := service.Payouts.BalanceOf(ctx, admin)
	require.NoError(t, err)
	assert.True(t, paid.Equal(decimal.NewFromInt(10)))

	// Empty treasury is a successful no-op
	amount, err = service.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestWithdraw_BeforeInitialize(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Withdraw(context.Background(), admin)

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestWithdraw_RejectedPayoutKeepsFees(t *testing.T) {
	ctx := context.Background()
	service, store := newService(t)
	_, err := service.Initialize(ctx, admin, 500, admin)
	require.NoError(t, err)
	accrue(t, store, 7)

	errRejected := errors.New("rejected")
	service.Payouts.Register(admin, payout.ReceiverFunc(func(context.Context, common.Address, decimal.Decimal) error {
		return errRejected
	}))

	_, err = service.Withdraw(ctx, admin)
	assert.ErrorIs(t, err, errRejected)

	balance, err := service.GetContractBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(7)))
}

func TestWithdraw_ReentrantWithdrawGetsNothing(t *testing.T) {
	ctx := context.Background()
	service, store := newService(t)
	_, err := service.Initialize(ctx, admin, 500, admin)
	require.NoError(t, err)
	accrue(t, store, 10)

	var second decimal.Decimal
	service.Payouts.Register(admin, payout.ReceiverFunc(func(ctx context.Context, _ common.Address, _ decimal.Decimal) error {
		var err error
		second, err = service.Withdraw(ctx, admin)
		return err
	}))

	amount, err := service.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, second.IsZero())

	paid, err := service.Payouts.BalanceOf(ctx, admin)
	require.NoError(t, err)
	assert.True(t, paid.Equal(decimal.NewFromInt(10)))
}
