// Package config provides TOML configuration for the tracker server and
// tools. Flags and environment variables override what the file sets.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"hunt-stats-lab/internal/domain"
)

// Config represents the TOML configuration file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Market  MarketConfig  `toml:"market"`
	Markup  MarkupConfig  `toml:"markup"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	FlushTickMs     int64  `toml:"flush_tick_ms"`
	DebounceMs      int64  `toml:"debounce_ms"`
	StatsIntervalMs int64  `toml:"stats_interval_ms"`
}

// StorageConfig maps persistence settings. Backend selects the session
// store: "memory", "file", or "postgres".
type StorageConfig struct {
	Backend       string `toml:"backend"`
	DataDir       string `toml:"data_dir"`
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickhouseDSN string `toml:"clickhouse_dsn"`
}

// MarketConfig maps the external data services.
type MarketConfig struct {
	FeedURL     string `toml:"feed_url"`     // websocket market feed
	ItemAPIURL  string `toml:"item_api_url"` // equipment lookup API
	CatalogPath string `toml:"catalog_path"` // offline equipment catalog
}

// MarkupConfig maps user markup overrides onto the synced library.
type MarkupConfig struct {
	DefaultPercent *float64                      `toml:"default_percent"`
	Fallback       *string                       `toml:"fallback"`
	Items          map[string]MarkupItemOverride `toml:"items"`
}

// MarkupItemOverride is one per-item override entry.
type MarkupItemOverride struct {
	Percent float64 `toml:"percent"`
	Value   float64 `toml:"value"`
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			FlushTickMs:     100,
			DebounceMs:      500,
			StatsIntervalMs: 500,
		},
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "data",
		},
	}
}

// DomainMarkupConfig converts the TOML markup section into the domain
// override layer. Returns nil when nothing is overridden.
func (c *Config) DomainMarkupConfig() *domain.MarkupConfig {
	m := c.Markup
	if m.DefaultPercent == nil && m.Fallback == nil && len(m.Items) == 0 {
		return nil
	}

	out := &domain.MarkupConfig{DefaultPercent: m.DefaultPercent}
	if m.Fallback != nil {
		policy := domain.FallbackPolicy(*m.Fallback)
		if policy.IsValid() {
			out.Fallback = &policy
		}
	}
	if len(m.Items) > 0 {
		out.Entries = make(map[string]domain.MarkupEntry, len(m.Items))
		for name, it := range m.Items {
			out.Entries[name] = domain.MarkupEntry{
				Percent: it.Percent,
				Value:   it.Value,
				Source:  domain.MarkupSourceUser,
			}
		}
	}
	return out
}
