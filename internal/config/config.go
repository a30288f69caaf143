// Package config is the matching engine's immutable process configuration
// (spec.md §6, SPEC_FULL.md §9): supported symbols, order-size and price
// bounds, and the default depth for book snapshots.
//
// Load follows the YAML-file-plus-env-override pattern of
// 0xtitan6-polymarket-mm's internal/config/config.go (spf13/viper,
// mapstructure tags, an env prefix for overrides); the default values
// mirror original_source/src/config.py's Settings.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoggingConfig controls the engine's zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the top-level, immutable-after-load engine configuration.
type Config struct {
	SupportedSymbols []string        `mapstructure:"supported_symbols"`
	MinOrderSize     decimal.Decimal `mapstructure:"min_order_size"`
	MaxOrderSize     decimal.Decimal `mapstructure:"max_order_size"`
	MinPrice         decimal.Decimal `mapstructure:"min_price"`
	MaxPrice         decimal.Decimal `mapstructure:"max_price"`
	SnapshotDepth    int             `mapstructure:"snapshot_depth"`
	Logging          LoggingConfig   `mapstructure:"logging"`
}

// Default returns the original_source/src/config.py defaults: ten major
// USDT pairs, an 8-decimal-tick-friendly size/price range, and a 10-level
// default snapshot depth. Useful for tests and the cmd/matchcored demo
// when no config file is supplied.
func Default() *Config {
	return &Config{
		SupportedSymbols: []string{
			"BTC-USDT", "ETH-USDT", "BNB-USDT", "ADA-USDT", "SOL-USDT",
			"XRP-USDT", "DOT-USDT", "DOGE-USDT", "AVAX-USDT", "MATIC-USDT",
		},
		MinOrderSize:  decimal.NewFromFloat(0.00000001),
		MaxOrderSize:  decimal.NewFromFloat(1000000),
		MinPrice:      decimal.NewFromFloat(0.00000001),
		MaxPrice:      decimal.NewFromFloat(1000000),
		SnapshotDepth: 10,
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads config from a YAML file at path, with MATCHCORE_* environment
// variable overrides (e.g. MATCHCORE_SNAPSHOT_DEPTH=25), falling back to
// Default()'s values for anything the file omits.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("supported_symbols", def.SupportedSymbols)
	v.SetDefault("min_order_size", def.MinOrderSize.String())
	v.SetDefault("max_order_size", def.MaxOrderSize.String())
	v.SetDefault("min_price", def.MinPrice.String())
	v.SetDefault("max_price", def.MaxPrice.String())
	v.SetDefault("snapshot_depth", def.SnapshotDepth)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MATCHCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		SupportedSymbols: v.GetStringSlice("supported_symbols"),
		SnapshotDepth:    v.GetInt("snapshot_depth"),
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}
	var err error
	if cfg.MinOrderSize, err = decimal.NewFromString(v.GetString("min_order_size")); err != nil {
		return nil, fmt.Errorf("parse min_order_size: %w", err)
	}
	if cfg.MaxOrderSize, err = decimal.NewFromString(v.GetString("max_order_size")); err != nil {
		return nil, fmt.Errorf("parse max_order_size: %w", err)
	}
	if cfg.MinPrice, err = decimal.NewFromString(v.GetString("min_price")); err != nil {
		return nil, fmt.Errorf("parse min_price: %w", err)
	}
	if cfg.MaxPrice, err = decimal.NewFromString(v.GetString("max_price")); err != nil {
		return nil, fmt.Errorf("parse max_price: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that could never admit a valid order.
func (c *Config) Validate() error {
	if len(c.SupportedSymbols) == 0 {
		return fmt.Errorf("supported_symbols must not be empty")
	}
	if !c.MinOrderSize.IsPositive() {
		return fmt.Errorf("min_order_size must be positive")
	}
	if c.MaxOrderSize.LessThan(c.MinOrderSize) {
		return fmt.Errorf("max_order_size must be >= min_order_size")
	}
	if !c.MinPrice.IsPositive() {
		return fmt.Errorf("min_price must be positive")
	}
	if c.MaxPrice.LessThan(c.MinPrice) {
		return fmt.Errorf("max_price must be >= min_price")
	}
	if c.SnapshotDepth <= 0 {
		return fmt.Errorf("snapshot_depth must be positive")
	}
	return nil
}
