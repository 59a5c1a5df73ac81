package seeder

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// CollectionSpec defines a registry collection to be seeded
type CollectionSpec struct {
	Address common.Address
	Name    string
	Symbol  string
	Owner   common.Address
}

// Seeder ensures the records the services expect exist before serving
type Seeder struct {
	store domain.Store
}

// NewSeeder creates a new Seeder instance
func NewSeeder(store domain.Store) *Seeder {
	return &Seeder{
		store: store,
	}
}

// Seed creates the collections and the (uninitialized) market record if they are missing.
// Existing records are left untouched, so Seed is safe to run on every start.
func (s *Seeder) Seed(ctx context.Context, market common.Address, collections ...CollectionSpec) error {
	return s.store.Atomic(ctx, func(ctx context.Context, repos domain.Repositories) error {
		for _, spec := range collections {
			_, err := repos.Collections.Get(ctx, spec.Address)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrUnknownCollection) {
				return err
			}

			collection := &domain.Collection{
				Address: spec.Address,
				Name:    spec.Name,
				Symbol:  spec.Symbol,
				Owner:   spec.Owner,
			}

			// Validate before creating
			if err := collection.Validate(); err != nil {
				return err
			}
			if err := repos.Collections.Create(ctx, collection); err != nil {
				return err
			}
		}

		_, err := repos.Market.Get(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrMarketNotFound) {
			return err
		}

		m := &domain.Market{
			Address:         market,
			AccumulatedFees: decimal.Zero,
		}
		if err := m.Validate(); err != nil {
			return err
		}
		return repos.Market.Create(ctx, m)
	})
}
