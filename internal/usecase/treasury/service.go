package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/access"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
)

// TreasuryService handles marketplace setup and platform fee withdrawal
type TreasuryService struct {
	Store   domain.Store
	Payouts *payout.Service
	now     func() time.Time
}

// NewTreasuryService creates a new TreasuryService instance
func NewTreasuryService(store domain.Store, payouts *payout.Service) *TreasuryService {
	return &TreasuryService{
		Store:   store,
		Payouts: payouts,
		now:     time.Now,
	}
}

// Initialize configures the marketplace exactly once.
// Any caller may initialize; every later call fails with ErrAlreadyInitialized.
func (s *TreasuryService) Initialize(ctx context.Context, caller common.Address, feeRateBps uint32, administrator common.Address) (*domain.Market, error) {
	if feeRateBps > domain.MaxFeeRateBps {
		return nil, domain.ErrInvalidFeeRate
	}
	if administrator == (common.Address{}) {
		return nil, fmt.Errorf("administrator: %w", domain.ErrInvalidAddress)
	}

	var market *domain.Market
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		market, err = repos.Market.Get(ctx)
		if err != nil {
			return err
		}
		if market.Initialized {
			return domain.ErrAlreadyInitialized
		}

		now := s.now().UTC()
		market.Initialized = true
		market.Administrator = administrator
		market.FeeRateBps = feeRateBps
		market.InitializedAt = &now

		if err := market.Validate(); err != nil {
			return err
		}
		return repos.Market.Update(ctx, market)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("marketplace initialized",
		zap.String("caller", caller.Hex()),
		zap.String("administrator", administrator.Hex()),
		zap.Uint32("fee_rate_bps", feeRateBps))

	return market, nil
}

// Withdraw pays every accumulated platform fee to the administrator
// Logic:
//  1. Require the administrator role
//  2. Drain the treasury to zero and persist it
//  3. Pay the drained amount to the administrator (may hand control to its receiver)
//
// A zero balance is a successful no-op. Returns the amount paid.
func (s *TreasuryService) Withdraw(ctx context.Context, caller common.Address) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		market, err := repos.Market.Get(ctx)
		if err != nil {
			return err
		}
		table := access.ForMarket(market)
		if err := table.RequireInitialized(); err != nil {
			return err
		}
		if err := table.Require(caller, access.RoleAdministrator); err != nil {
			return err
		}

		amount = market.DrainFees()
		if err := repos.Market.Update(ctx, market); err != nil {
			return err
		}

		return s.Payouts.Send(ctx, repos.Balances, market.Address, market.Administrator, amount)
	})
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("fees withdrawn",
		zap.String("administrator", caller.Hex()),
		zap.String("amount", amount.String()))

	return amount, nil
}

// GetContractBalance returns the platform fees awaiting withdrawal
func (s *TreasuryService) GetContractBalance(ctx context.Context) (decimal.Decimal, error) {
	market, err := s.GetMarket(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return market.AccumulatedFees, nil
}

// GetMarket returns the marketplace state
func (s *TreasuryService) GetMarket(ctx context.Context) (*domain.Market, error) {
	var market *domain.Market
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		market, err = repos.Market.Get(ctx)
		return err
	})
	return market, err
}
