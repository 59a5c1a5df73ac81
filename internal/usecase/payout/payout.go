package payout

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
)

// Receiver is code that runs when value lands on an account. It runs inside the
// sender's unit of work with the sender's context, so it may call back into the
// marketplace; returning an error rejects the payment and reverts the sender.
type Receiver interface {
	Receive(ctx context.Context, from common.Address, amount decimal.Decimal) error
}

// ReceiverFunc adapts a function to Receiver
type ReceiverFunc func(ctx context.Context, from common.Address, amount decimal.Decimal) error

// Receive calls f
func (f ReceiverFunc) Receive(ctx context.Context, from common.Address, amount decimal.Decimal) error {
	return f(ctx, from, amount)
}

// Service moves native value between accounts
type Service struct {
	Store domain.Store

	mu        sync.RWMutex
	receivers map[common.Address]Receiver
}

// NewService creates a new payout Service instance
func NewService(store domain.Store) *Service {
	return &Service{
		Store:     store,
		receivers: make(map[common.Address]Receiver),
	}
}

// Register installs the receiver invoked on payments to account
func (s *Service) Register(account common.Address, r Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivers[account] = r
}

// Unregister removes the receiver of account
func (s *Service) Unregister(account common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.receivers, account)
}

func (s *Service) receiver(account common.Address) Receiver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.receivers[account]
}

// Send credits amount to `to` and hands control to its receiver, if any.
// It must be called from inside a unit of work; balances are that unit's repository.
// A zero amount is a no-op that never fails and never reaches the receiver.
func (s *Service) Send(ctx context.Context, balances domain.BalanceRepository, from, to common.Address, amount decimal.Decimal) error {
	if !domain.IsWholeAmount(amount) {
		return domain.ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}
	if to == (common.Address{}) {
		return fmt.Errorf("payout recipient: %w", domain.ErrInvalidAddress)
	}

	if err := balances.Credit(ctx, to, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to.Hex(), err)
	}

	if r := s.receiver(to); r != nil {
		if err := r.Receive(ctx, from, amount); err != nil {
			logger.Debug("payout rejected by receiver",
				zap.String("to", to.Hex()),
				zap.String("amount", amount.String()),
				zap.Error(err))
			return fmt.Errorf("payout to %s rejected: %w", to.Hex(), err)
		}
	}
	return nil
}

// Deposit adds externally sourced funds to an account
func (s *Service) Deposit(ctx context.Context, account common.Address, amount decimal.Decimal) (decimal.Decimal, error) {
	if !domain.IsWholeAmount(amount) || amount.IsZero() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if account == (common.Address{}) {
		return decimal.Zero, domain.ErrInvalidAddress
	}

	var balance decimal.Decimal
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := repos.Balances.Credit(ctx, account, amount); err != nil {
			return err
		}
		var err error
		balance, err = repos.Balances.Get(ctx, account)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("deposit", zap.String("account", account.Hex()), zap.String("amount", amount.String()))
	return balance, nil
}

// BalanceOf returns the balance of an account
func (s *Service) BalanceOf(ctx context.Context, account common.Address) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.Store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		balance, err = repos.Balances.Get(ctx, account)
		return err
	})
	return balance, err
}
