package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the server configuration, read from the environment
type Config struct {
	GRPCAddr      string `env:"GRPC_ADDR" envDefault:":8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	LogDebug      bool   `env:"LOG_DEBUG" envDefault:"false"`

	// DBConnStr wins over the individual DB_* variables when set
	DBConnStr  string `env:"DB_CONN_STR"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"royaltymarket"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	CollectionAddress string `env:"COLLECTION_ADDRESS" envDefault:"0x0000000000000000000000000000000000000721"`
	CollectionName    string `env:"COLLECTION_NAME" envDefault:"NFT Main Collection"`
	CollectionSymbol  string `env:"COLLECTION_SYMBOL" envDefault:"NTC"`
	CollectionOwner   string `env:"COLLECTION_OWNER,required"`
	MarketAddress     string `env:"MARKET_ADDRESS" envDefault:"0x000000000000000000000000000000000000a11e"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	if c.StorageDriver != StorageMemory && c.StorageDriver != StoragePostgres {
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be %q or %q", c.StorageDriver, StorageMemory, StoragePostgres)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET cannot be empty")
	}

	addresses := map[string]string{
		"COLLECTION_ADDRESS": c.CollectionAddress,
		"COLLECTION_OWNER":   c.CollectionOwner,
		"MARKET_ADDRESS":     c.MarketAddress,
	}
	for name, value := range addresses {
		if !common.IsHexAddress(value) {
			return fmt.Errorf("invalid %s %q: must be a hex address", name, value)
		}
		if common.HexToAddress(value) == (common.Address{}) {
			return fmt.Errorf("invalid %s: cannot be the zero address", name)
		}
	}
	return nil
}

// ConnectionString returns DB_CONN_STR or builds one from the DB_* variables (Docker friendly)
func (c *Config) ConnectionString() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Collection returns the configured collection address
func (c *Config) Collection() common.Address {
	return common.HexToAddress(c.CollectionAddress)
}

// Owner returns the configured collection owner
func (c *Config) Owner() common.Address {
	return common.HexToAddress(c.CollectionOwner)
}

// Market returns the configured marketplace operator address
func (c *Config) Market() common.Address {
	return common.HexToAddress(c.MarketAddress)
}
