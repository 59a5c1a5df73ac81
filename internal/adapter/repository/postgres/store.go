package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
)

// advisoryLockKey serializes units of work across every process sharing the database
const advisoryLockKey int64 = 0x726f79616c7479

// Store implements domain.Store on PostgreSQL. One unit of work is one database transaction.
type Store struct {
	db *DB
	mu sync.Mutex
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a new PostgreSQL store
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

type unitKey struct{}

type unit struct {
	store      *Store
	tx         *sql.Tx
	repos      domain.Repositories
	savepoints int
}

// Atomic implements domain.Store
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok && u.store == s {
		return u.nested(ctx, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Start a database transaction
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}

	u := &unit{store: s, tx: tx, repos: repositories(tx)}
	if err := fn(context.WithValue(ctx, unitKey{}, u), u.repos); err != nil {
		return err
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nested runs fn under a savepoint of the enclosing transaction
func (u *unit) nested(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	u.savepoints++
	name := fmt.Sprintf("unit_%d", u.savepoints)

	if _, err := u.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(ctx, u.repos); err != nil {
		if _, rbErr := u.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			logger.Error("failed to roll back savepoint", zap.String("savepoint", name), zap.Error(rbErr))
			return fmt.Errorf("%w (savepoint rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if _, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

func repositories(q querier) domain.Repositories {
	return domain.Repositories{
		Collections: &collectionRepository{q: q},
		Assets:      &assetRepository{q: q},
		Listings:    &listingRepository{q: q},
		Market:      &marketRepository{q: q},
		Sales:       &saleRepository{q: q},
		Balances:    &balanceRepository{q: q},
	}
}
