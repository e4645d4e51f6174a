// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

// Daily aggregation scopes.
const (
	DailyScopeSession = "session"
	DailyScopeWindow  = "window"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Node      NodeConfig      `mapstructure:"node"`
	Explorer  ExplorerConfig  `mapstructure:"explorer"`
	Staking   StakingConfig   `mapstructure:"staking"`
	Health    HealthConfig    `mapstructure:"health"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime from flags
}

// NodeConfig holds CometBFT / EVM endpoint configuration.
type NodeConfig struct {
	WebSocketURL   string        `mapstructure:"websocket_url"` // ws://host:26657/websocket
	RPCURL         string        `mapstructure:"rpc_url"`
	LCDURL         string        `mapstructure:"lcd_url"`
	EVMRPCURL      string        `mapstructure:"evm_rpc_url"` // optional, enables the gas tile
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	StatusInterval time.Duration `mapstructure:"status_interval"`
	EventBuffer    int           `mapstructure:"event_buffer"`
}

// ExplorerConfig controls the ingestion windows and charts.
type ExplorerConfig struct {
	HistorySize  int    `mapstructure:"history_size"`
	DailyScope   string `mapstructure:"daily_scope"`
	TimeLocation string `mapstructure:"time_location"` // chart label zone, "Local" or IANA name
}

// Location resolves TimeLocation.
func (c ExplorerConfig) Location() (*time.Location, error) {
	switch c.TimeLocation {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeLocation)
}

// StakingConfig controls the validator poller.
type StakingConfig struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	PageLimit         int           `mapstructure:"page_limit"`
	TokenExponent     int32         `mapstructure:"token_exponent"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// HealthConfig configures the probe server.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // zipkin, otlp-grpc, otlp-http, console
	TraceEndpoint  string `mapstructure:"trace_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("EXP")
	v.AutomaticEnv()
	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithContext("read config"), apperror.WithCause(err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("unmarshal config"), apperror.WithCause(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "EXP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "EXP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "EXP_LOG_LEVEL", "LOG_LEVEL")

	// Node
	v.BindEnv("node.websocket_url", "EXP_NODE_WS_URL", "NODE_WS_URL")
	v.BindEnv("node.rpc_url", "EXP_NODE_RPC_URL", "NODE_RPC_URL")
	v.BindEnv("node.lcd_url", "EXP_NODE_LCD_URL", "NODE_LCD_URL")
	v.BindEnv("node.evm_rpc_url", "EXP_EVM_RPC_URL", "EVM_RPC_URL")

	// Explorer
	v.BindEnv("explorer.history_size", "EXP_HISTORY_SIZE")
	v.BindEnv("explorer.daily_scope", "EXP_DAILY_SCOPE")
	v.BindEnv("explorer.time_location", "EXP_TIME_LOCATION", "TZ")

	// Staking
	v.BindEnv("staking.poll_interval", "EXP_STAKING_POLL_INTERVAL")
	v.BindEnv("staking.token_exponent", "EXP_STAKING_TOKEN_EXPONENT")

	// Health
	v.BindEnv("health.port", "EXP_HEALTH_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "EXP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "EXP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_endpoint", "EXP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cosvm-explorer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("node.websocket_url", "ws://localhost:26657/websocket")
	v.SetDefault("node.rpc_url", "http://localhost:26657")
	v.SetDefault("node.lcd_url", "http://localhost:1317")
	v.SetDefault("node.max_reconnects", 0) // infinite
	v.SetDefault("node.initial_backoff", "1s")
	v.SetDefault("node.max_backoff", "30s")
	v.SetDefault("node.request_timeout", "10s")
	v.SetDefault("node.status_interval", "10s")
	v.SetDefault("node.event_buffer", 256)

	v.SetDefault("explorer.history_size", 15)
	v.SetDefault("explorer.daily_scope", DailyScopeSession)
	v.SetDefault("explorer.time_location", "Local")

	v.SetDefault("staking.poll_interval", "30s")
	v.SetDefault("staking.page_limit", 10)
	v.SetDefault("staking.token_exponent", 18)
	v.SetDefault("staking.requests_per_minute", 30)

	v.SetDefault("health.port", 8081)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "cosvm-explorer")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.trace_endpoint", "http://localhost:9411/api/v2/spans")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext(fmt.Sprintf(format, args...)))
	}

	if err := checkURL(c.Node.WebSocketURL, "ws", "wss"); err != nil {
		return invalid("node.websocket_url: %v", err)
	}
	if err := checkURL(c.Node.RPCURL, "http", "https"); err != nil {
		return invalid("node.rpc_url: %v", err)
	}
	if err := checkURL(c.Node.LCDURL, "http", "https"); err != nil {
		return invalid("node.lcd_url: %v", err)
	}
	if c.Node.EVMRPCURL != "" {
		if err := checkURL(c.Node.EVMRPCURL, "http", "https", "ws", "wss"); err != nil {
			return invalid("node.evm_rpc_url: %v", err)
		}
	}
	if c.Explorer.HistorySize < 1 {
		return invalid("explorer.history_size must be positive, got %d", c.Explorer.HistorySize)
	}
	if c.Explorer.DailyScope != DailyScopeSession && c.Explorer.DailyScope != DailyScopeWindow {
		return invalid("explorer.daily_scope must be %q or %q, got %q",
			DailyScopeSession, DailyScopeWindow, c.Explorer.DailyScope)
	}
	if _, err := c.Explorer.Location(); err != nil {
		return invalid("explorer.time_location: %v", err)
	}
	if c.Staking.PollInterval <= 0 {
		return invalid("staking.poll_interval must be positive")
	}
	if c.Staking.PageLimit < 1 {
		return invalid("staking.page_limit must be positive, got %d", c.Staking.PageLimit)
	}
	if c.Staking.TokenExponent < 0 {
		return invalid("staking.token_exponent cannot be negative")
	}
	return nil
}

func checkURL(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("unsupported url %q", raw)
}
