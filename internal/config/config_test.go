package config

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerHex = "0x1111111111111111111111111111111111111111"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COLLECTION_OWNER", ownerHex)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GRPCAddr)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, common.HexToAddress(ownerHex), cfg.Owner())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=royaltymarket sslmode=disable", cfg.ConnectionString())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("COLLECTION_OWNER", ownerHex)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestConnectionString_Explicit(t *testing.T) {
	cfg := Config{DBConnStr: "postgres://u:p@db/x"}
	assert.Equal(t, "postgres://u:p@db/x", cfg.ConnectionString())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StorageDriver:     StoragePostgres,
			JWTSecret:         "secret",
			CollectionAddress: "0x0000000000000000000000000000000000000721",
			CollectionOwner:   ownerHex,
			MarketAddress:     "0x000000000000000000000000000000000000a11e",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.StorageDriver = "sqlite" }, wantErr: "STORAGE_DRIVER"},
		{name: "bad owner", mutate: func(c *Config) { c.CollectionOwner = "nope" }, wantErr: "COLLECTION_OWNER"},
		{name: "zero market", mutate: func(c *Config) { c.MarketAddress = "0x0000000000000000000000000000000000000000" }, wantErr: "MARKET_ADDRESS"},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
