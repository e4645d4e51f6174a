package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "cosvm-explorer", cfg.App.Name)
	assert.Equal(t, 15, cfg.Explorer.HistorySize)
	assert.Equal(t, DailyScopeSession, cfg.Explorer.DailyScope)
	assert.Equal(t, 30*time.Second, cfg.Staking.PollInterval)
	assert.Equal(t, 10, cfg.Staking.PageLimit)
	assert.Equal(t, int32(18), cfg.Staking.TokenExponent)
	assert.Equal(t, 8081, cfg.Health.Port)
	assert.Empty(t, cfg.Node.EVMRPCURL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node:
  websocket_url: wss://rpc.cosvm.net/websocket
  rpc_url: https://rpc.cosvm.net
  lcd_url: https://api.cosvm.net
explorer:
  daily_scope: window
  time_location: UTC
`), 0o600))

	t.Setenv("EXP_HISTORY_SIZE", "20")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://rpc.cosvm.net/websocket", cfg.Node.WebSocketURL)
	assert.Equal(t, DailyScopeWindow, cfg.Explorer.DailyScope)
	assert.Equal(t, 20, cfg.Explorer.HistorySize)

	loc, err := cfg.Explorer.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Node: NodeConfig{
				WebSocketURL: "ws://localhost:26657/websocket",
				RPCURL:       "http://localhost:26657",
				LCDURL:       "http://localhost:1317",
			},
			Explorer: ExplorerConfig{HistorySize: 15, DailyScope: DailyScopeSession},
			Staking:  StakingConfig{PollInterval: time.Second, PageLimit: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http websocket url", func(c *Config) { c.Node.WebSocketURL = "http://localhost:26657" }},
		{"missing lcd", func(c *Config) { c.Node.LCDURL = "" }},
		{"bad evm url", func(c *Config) { c.Node.EVMRPCURL = "tcp://x" }},
		{"zero history", func(c *Config) { c.Explorer.HistorySize = 0 }},
		{"unknown scope", func(c *Config) { c.Explorer.DailyScope = "forever" }},
		{"bad location", func(c *Config) { c.Explorer.TimeLocation = "Mars/Olympus" }},
		{"zero poll", func(c *Config) { c.Staking.PollInterval = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
		})
	}
}
