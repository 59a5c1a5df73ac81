package access

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/simaogato/royaltymarket-backend/internal/domain"
)

// Role names a privileged capability
type Role string

const (
	// RoleRegistryOwner may pause and unpause minting
	RoleRegistryOwner Role = "REGISTRY_OWNER"
	// RoleAdministrator may withdraw platform fees
	RoleAdministrator Role = "ADMINISTRATOR"
)

// Table is the role table consulted at the start of every privileged operation.
// Build it from the current state with ForCollection or ForMarket.
type Table struct {
	holders     map[Role]common.Address
	paused      bool
	initialized bool
}

// ForCollection returns the role table of a registry collection
func ForCollection(c *domain.Collection) Table {
	return Table{
		holders:     map[Role]common.Address{RoleRegistryOwner: c.Owner},
		paused:      c.Paused,
		initialized: true,
	}
}

// ForMarket returns the role table of the marketplace
func ForMarket(m *domain.Market) Table {
	t := Table{
		holders:     map[Role]common.Address{},
		initialized: m.Initialized,
	}
	if m.Initialized {
		t.holders[RoleAdministrator] = m.Administrator
	}
	return t
}

// Require fails with ErrUnauthorized unless caller holds role
func (t Table) Require(caller common.Address, role Role) error {
	holder, ok := t.holders[role]
	if !ok || holder == (common.Address{}) || holder != caller {
		return fmt.Errorf("%s required for %s: %w", role, caller.Hex(), domain.ErrUnauthorized)
	}
	return nil
}

// Has reports whether caller holds role
func (t Table) Has(caller common.Address, role Role) bool {
	return t.Require(caller, role) == nil
}

// RequireUnpaused fails with ErrRegistryPaused while paused
func (t Table) RequireUnpaused() error {
	if t.paused {
		return domain.ErrRegistryPaused
	}
	return nil
}

// RequireInitialized fails with ErrNotInitialized before one-time setup
func (t Table) RequireInitialized() error {
	if !t.initialized {
		return domain.ErrNotInitialized
	}
	return nil
}
