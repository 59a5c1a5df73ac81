package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// balanceRepository implements domain.BalanceRepository
type balanceRepository struct {
	q querier
}

// Get returns the balance of an account (zero if unknown)
func (r *balanceRepository) Get(ctx context.Context, account common.Address) (decimal.Decimal, error) {
	var amountStr string
	err := r.q.QueryRowContext(ctx, `SELECT amount::TEXT FROM balances WHERE account = $1`, account.Hex()).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return parseAmount("amount", amountStr)
}

// Credit increases the balance of an account
func (r *balanceRepository) Credit(ctx context.Context, account common.Address, amount decimal.Decimal) error {
	if !domain.IsWholeAmount(amount) {
		return domain.ErrInvalidAmount
	}

	query := `
		INSERT INTO balances (account, amount)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET amount = balances.amount + EXCLUDED.amount
	`
	if _, err := r.q.ExecContext(ctx, query, account.Hex(), amount.String()); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}

// Debit decreases the balance of an account, never below zero
func (r *balanceRepository) Debit(ctx context.Context, account common.Address, amount decimal.Decimal) error {
	if !domain.IsWholeAmount(amount) {
		return domain.ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}

	query := `
		UPDATE balances
		SET amount = amount - $2
		WHERE account = $1 AND amount >= $2
	`
	res, err := r.q.ExecContext(ctx, query, account.Hex(), amount.String())
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("debit %s from %s: %w", amount.String(), account.Hex(), domain.ErrInsufficientFunds))
}
