// internal/app/app_test.go
package app

import (
	"context"
	"testing"

	"copywriter/internal/common/config"
	"copywriter/internal/common/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "copywriter", Environment: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory, ConnectRetries: 1},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			TokenTTLHours:     1,
			CookieName:        "token",
			MinPasswordLength: 6,
			BcryptCost:        4,
		},
		APIs:       config.APIsConfig{GenAI: config.GenAIConfig{Provider: config.ProviderNone}},
		Generation: config.GenerationConfig{DefaultStyle: "Playful", MaxProductNameLength: 200, MaxSellingPointLength: 2000},
	}
}

// ==========================
// Build
// ==========================

func TestBuild(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name           string
		mutate         func(*config.Config)
		wantDriver     string
		wantChecks     []string
		wantRevocation bool
		wantBackend    bool
	}{
		{
			name:       "memory store without redis or backend",
			mutate:     func(*config.Config) {},
			wantDriver: config.DriverMemory,
			wantChecks: []string{"store"},
		},
		{
			name:           "redis enables revocation",
			mutate:         func(c *config.Config) { c.Database.Redis.Address = mr.Addr() },
			wantDriver:     config.DriverMemory,
			wantChecks:     []string{"store", "redis"},
			wantRevocation: true,
		},
		{
			name:       "unreachable redis is skipped",
			mutate:     func(c *config.Config) { c.Database.Redis.Address = "127.0.0.1:1" },
			wantDriver: config.DriverMemory,
			wantChecks: []string{"store"},
		},
		{
			name: "unreachable postgres falls back to memory",
			mutate: func(c *config.Config) {
				c.Database.Driver = config.DriverPostgres
				c.Database.Postgres = config.PostgresConfig{Host: "127.0.0.1", Port: 1, User: "u", Database: "d", SSLMode: "disable"}
			},
			wantDriver: config.DriverMemory,
			wantChecks: []string{"store"},
		},
		{
			name: "configured backend",
			mutate: func(c *config.Config) {
				c.APIs.GenAI = config.GenAIConfig{Provider: config.ProviderOpenAI, APIKey: "k", BaseURL: "http://127.0.0.1:1", Model: "m"}
			},
			wantDriver:  config.DriverMemory,
			wantChecks:  []string{"store"},
			wantBackend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			a, err := Build(context.Background(), cfg, zap.NewNop(), &observability.Observability{})
			require.NoError(t, err)
			defer a.Close()

			assert.Equal(t, tt.wantDriver, a.Accounts.Store().Driver())
			assert.Len(t, a.Checks, len(tt.wantChecks))
			for _, name := range tt.wantChecks {
				assert.Contains(t, a.Checks, name)
			}
			assert.Equal(t, tt.wantRevocation, a.Accounts.Issuer().RevocationEnabled())
			assert.Equal(t, tt.wantBackend, a.Copywriting.BackendConfigured())
		})
	}
}

func TestBuild_ChecksPing(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Database.Redis.Address = mr.Addr()

	a, err := Build(context.Background(), cfg, zap.NewNop(), &observability.Observability{})
	require.NoError(t, err)
	defer a.Close()

	for name, check := range a.Checks {
		assert.NoError(t, check.Ping(context.Background()), name)
	}

	mr.Close()
	assert.Error(t, a.Checks["redis"].Ping(context.Background()))
}

func TestWorkers_CloseNil(t *testing.T) {
	var w *Workers
	assert.NoError(t, w.Close())
}
