// Package store owns the YAML configuration surface consumed at startup.
package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"agent-trading-gateway/internal/types"
)

// Config is the startup configuration for the gateway.
type Config struct {
	Trading struct {
		Provider    string     `yaml:"provider"`
		Mode        types.Mode `yaml:"mode"`
		AutoExecute bool       `yaml:"auto_execute"`
	} `yaml:"trading"`

	Data struct {
		Provider string `yaml:"provider"`
		// Fallbacks is the ordered list of secondary data providers
		// consulted when the primary is rate limited.
		Fallbacks []string `yaml:"fallbacks"`
	} `yaml:"data"`

	Client struct {
		MaxRetries         int `yaml:"max_retries"`
		BackoffSeconds     int `yaml:"backoff_seconds"`
		CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	} `yaml:"client"`

	Zerodha struct {
		Exchange string `yaml:"exchange"`
	} `yaml:"zerodha"`
}

// DataProviders returns the primary data provider followed by its
// fallbacks, in consultation order.
func (c *Config) DataProviders() []string {
	return append([]string{c.Data.Provider}, c.Data.Fallbacks...)
}

// Backoff returns the client base backoff as a duration.
func (c *Config) Backoff() time.Duration {
	return time.Duration(c.Client.BackoffSeconds) * time.Second
}

// CallTimeout returns the per-attempt timeout as a duration.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Client.CallTimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	if !c.Trading.Mode.Valid() {
		return fmt.Errorf("invalid trading.mode '%s': must be 'paper' or 'live'", c.Trading.Mode)
	}
	if c.Trading.Provider == "" {
		return fmt.Errorf("trading.provider must be set")
	}
	if c.Data.Provider == "" {
		return fmt.Errorf("data.provider must be set")
	}
	for _, f := range c.Data.Fallbacks {
		if f == c.Data.Provider {
			return fmt.Errorf("data.fallbacks must not repeat the primary provider '%s'", f)
		}
	}
	if c.Client.MaxRetries <= 0 {
		return fmt.Errorf("client.max_retries must be positive, got %d", c.Client.MaxRetries)
	}
	if c.Client.BackoffSeconds <= 0 {
		return fmt.Errorf("client.backoff_seconds must be positive, got %d", c.Client.BackoffSeconds)
	}
	if c.Client.CallTimeoutSeconds <= 0 {
		return fmt.Errorf("client.call_timeout_seconds must be positive, got %d", c.Client.CallTimeoutSeconds)
	}
	return nil
}

// LoadConfig reads, defaults, and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Trading.Mode == "" {
		c.Trading.Mode = types.ModePaper
	}
	if c.Client.MaxRetries == 0 {
		c.Client.MaxRetries = 3
	}
	if c.Client.BackoffSeconds == 0 {
		c.Client.BackoffSeconds = 1
	}
	if c.Client.CallTimeoutSeconds == 0 {
		c.Client.CallTimeoutSeconds = 10
	}
	if c.Zerodha.Exchange == "" {
		c.Zerodha.Exchange = "NSE"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// TradingState holds the live trading-mode switches. The safety gate reads
// it through Snapshot on every call, so SetAutoExecute takes effect on the
// very next order-producing call.
type TradingState struct {
	mu  sync.RWMutex
	cfg types.TradingModeConfig
}

// NewTradingState seeds the state from the startup config.
func NewTradingState(cfg types.TradingModeConfig) *TradingState {
	return &TradingState{cfg: cfg}
}

// Snapshot returns the current trading-mode config.
func (s *TradingState) Snapshot() types.TradingModeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetAutoExecute flips the auto-execute opt-in at runtime.
func (s *TradingState) SetAutoExecute(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.AutoExecute = enabled
}
