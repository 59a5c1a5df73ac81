package memory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

type assetKey struct {
	collection common.Address
	id         uint64
}

// state is the whole marketplace state. Values (not pointers) are stored so a
// shallow map copy is a full snapshot.
type state struct {
	collections map[common.Address]domain.Collection
	assets      map[assetKey]domain.Asset
	listings    map[uint64]domain.Listing
	market      *domain.Market
	sales       []domain.Sale
	balances    map[common.Address]decimal.Decimal
}

func newState() *state {
	return &state{
		collections: make(map[common.Address]domain.Collection),
		assets:      make(map[assetKey]domain.Asset),
		listings:    make(map[uint64]domain.Listing),
		balances:    make(map[common.Address]decimal.Decimal),
	}
}

func (s *state) clone() *state {
	c := &state{
		collections: make(map[common.Address]domain.Collection, len(s.collections)),
		assets:      make(map[assetKey]domain.Asset, len(s.assets)),
		listings:    make(map[uint64]domain.Listing, len(s.listings)),
		sales:       make([]domain.Sale, len(s.sales)),
		balances:    make(map[common.Address]decimal.Decimal, len(s.balances)),
	}
	for k, v := range s.collections {
		c.collections[k] = v
	}
	for k, v := range s.assets {
		c.assets[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = cloneListing(v)
	}
	if s.market != nil {
		m := cloneMarket(*s.market)
		c.market = &m
	}
	copy(c.sales, s.sales)
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

// Store is an in-memory domain.Store
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{st: newState()}
}

type unitKey struct{}

// unit is an open unit of work; its working state is committed by the outermost Atomic
type unit struct {
	store *Store
	work  *state
}

// Atomic implements domain.Store
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok && u.store == s {
		// Savepoint: restore the working state in place so repositories held by
		// the outer unit observe the rollback.
		saved := u.work.clone()
		if err := fn(ctx, repositories(u.work)); err != nil {
			*u.work = *saved
			return err
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &unit{store: s, work: s.st.clone()}
	if err := fn(context.WithValue(ctx, unitKey{}, u), repositories(u.work)); err != nil {
		return err
	}
	s.st = u.work
	return nil
}

func repositories(st *state) domain.Repositories {
	return domain.Repositories{
		Collections: &collectionRepository{st: st},
		Assets:      &assetRepository{st: st},
		Listings:    &listingRepository{st: st},
		Market:      &marketRepository{st: st},
		Sales:       &saleRepository{st: st},
		Balances:    &balanceRepository{st: st},
	}
}

func cloneListing(l domain.Listing) domain.Listing {
	if l.SoldAt != nil {
		at := *l.SoldAt
		l.SoldAt = &at
	}
	return l
}

func cloneMarket(m domain.Market) domain.Market {
	if m.InitializedAt != nil {
		at := *m.InitializedAt
		m.InitializedAt = &at
	}
	return m
}
