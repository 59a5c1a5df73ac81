package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

func TestCalculate_ReferenceScenario(t *testing.T) {
	// price=100, royalty 3% (computed by the registry), fee 5%
	price := decimal.NewFromInt(100)
	royalty := domain.ApplyBasisPoints(price, 300)

	s, err := Calculate(price, royalty, 500)

	require.NoError(t, err)
	assert.True(t, s.Royalty.Equal(decimal.NewFromInt(3)), "royalty should be 3")
	assert.True(t, s.PlatformFee.Equal(decimal.NewFromInt(5)), "fee should be 5")
	assert.True(t, s.SellerProceeds.Equal(decimal.NewFromInt(92)), "seller should get 92")
	assert.True(t, s.Total().Equal(price))
}

func TestCalculate_FloorsIndependently(t *testing.T) {
	// 3% and 5% of 99 are 2.97 and 4.95; both floor, the seller keeps the dust
	price := decimal.NewFromInt(99)
	royalty := domain.ApplyBasisPoints(price, 300)

	s, err := Calculate(price, royalty, 500)

	require.NoError(t, err)
	assert.True(t, s.Royalty.Equal(decimal.NewFromInt(2)))
	assert.True(t, s.PlatformFee.Equal(decimal.NewFromInt(4)))
	assert.True(t, s.SellerProceeds.Equal(decimal.NewFromInt(93)))
}

func TestCalculate_ZeroRates(t *testing.T) {
	price := decimal.NewFromInt(1)

	s, err := Calculate(price, decimal.Zero, 0)

	require.NoError(t, err)
	assert.True(t, s.Royalty.IsZero())
	assert.True(t, s.PlatformFee.IsZero())
	assert.True(t, s.SellerProceeds.Equal(price))
}

func TestCalculate_LargePriceStaysExact(t *testing.T) {
	price, err := decimal.NewFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	royalty := domain.ApplyBasisPoints(price, 250)

	s, err := Calculate(price, royalty, 250)

	require.NoError(t, err)
	assert.True(t, s.Royalty.Equal(s.PlatformFee))
	assert.True(t, s.Royalty.IsInteger())
	assert.True(t, s.Total().Equal(price))
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		price      decimal.Decimal
		royalty    decimal.Decimal
		feeRateBps uint32
		wantErr    error
	}{
		{"zero price", decimal.Zero, decimal.Zero, 500, domain.ErrInvalidPrice},
		{"negative price", decimal.NewFromInt(-1), decimal.Zero, 500, domain.ErrInvalidPrice},
		{"fractional price", decimal.RequireFromString("1.5"), decimal.Zero, 500, domain.ErrInvalidPrice},
		{"negative royalty", decimal.NewFromInt(100), decimal.NewFromInt(-1), 500, domain.ErrInvalidAmount},
		{"fee rate above max", decimal.NewFromInt(100), decimal.Zero, 10001, domain.ErrInvalidFeeRate},
		{"royalty and fee exceed price", decimal.NewFromInt(100), decimal.NewFromInt(100), 500, domain.ErrSplitUnderflow},
		{"royalty alone exceeds price", decimal.NewFromInt(100), decimal.NewFromInt(101), 0, domain.ErrSplitUnderflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.price, tt.royalty, tt.feeRateBps)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_ConservesValueAcrossRates(t *testing.T) {
	for _, p := range []int64{1, 7, 99, 100, 101, 12345, 999999} {
		for _, royaltyBps := range []uint32{0, 1, 300, 2500, 5000} {
			for _, feeBps := range []uint32{0, 1, 500, 2500, 5000} {
				price := decimal.NewFromInt(p)
				s, err := Calculate(price, domain.ApplyBasisPoints(price, royaltyBps), feeBps)
				require.NoError(t, err)
				assert.True(t, s.Total().Equal(price))
				assert.False(t, s.SellerProceeds.IsNegative())
			}
		}
	}
}
