// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"newsharvest/internal/harvester"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Store    StoreConfig    `mapstructure:"store"`
	Harvest  HarvestConfig  `mapstructure:"harvest"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig identifies the publication being harvested.
type SourceConfig struct {
	Name              string `mapstructure:"name"`
	Slug              string `mapstructure:"slug"`
	Homepage          string `mapstructure:"homepage"`
	Domain            string `mapstructure:"domain"`
	ArticlePathMarker string `mapstructure:"article_path_marker"`
	DefaultAuthor     string `mapstructure:"default_author"`
	Timezone          string `mapstructure:"timezone"`
}

// StoreConfig sets the root directory of the article store.
type StoreConfig struct {
	Root string `mapstructure:"root"`
}

// HarvestConfig governs cycle behavior.
type HarvestConfig struct {
	Limit             int     `mapstructure:"limit"`
	Loop              bool    `mapstructure:"loop"`
	Concurrency       int     `mapstructure:"concurrency"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	UserAgent         string  `mapstructure:"user_agent"`
}

// HTTPConfig configures the plain fetch strategy.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// HeadlessConfig configures the rendered-page fetch strategy.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.name", "echo24.cz")
	v.SetDefault("source.slug", "echo24")
	v.SetDefault("source.homepage", "https://echo24.cz/")
	v.SetDefault("source.domain", "echo24.cz")
	v.SetDefault("source.article_path_marker", "/a/")
	v.SetDefault("source.default_author", "Redakce Echo24")
	v.SetDefault("source.timezone", "Europe/Prague")
	v.SetDefault("store.root", "./data")
	v.SetDefault("harvest.limit", 0)
	v.SetDefault("harvest.loop", false)
	v.SetDefault("harvest.concurrency", 1)
	v.SetDefault("harvest.requests_per_second", 1.25)
	v.SetDefault("harvest.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0 Safari/537.36")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Source.Homepage == "" {
		return fmt.Errorf("source.homepage must be set")
	}
	if c.Source.Domain == "" {
		return fmt.Errorf("source.domain must be set")
	}
	if c.Source.ArticlePathMarker == "" {
		return fmt.Errorf("source.article_path_marker must be set")
	}
	if c.Store.Root == "" {
		return fmt.Errorf("store.root must be set")
	}
	if c.Harvest.Concurrency <= 0 {
		return fmt.Errorf("harvest.concurrency must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if _, err := time.LoadLocation(c.Source.Timezone); err != nil {
		return fmt.Errorf("source.timezone: %w", err)
	}
	return nil
}

// BuildSource resolves the configured publication into the immutable
// Source value handed to the pipeline, including the home timezone.
func (c Config) BuildSource() (harvester.Source, error) {
	loc, err := time.LoadLocation(c.Source.Timezone)
	if err != nil {
		return harvester.Source{}, fmt.Errorf("load timezone %q: %w", c.Source.Timezone, err)
	}
	return harvester.Source{
		Name:              c.Source.Name,
		Slug:              c.Source.Slug,
		Homepage:          c.Source.Homepage,
		Domain:            c.Source.Domain,
		ArticlePathMarker: c.Source.ArticlePathMarker,
		DefaultAuthor:     c.Source.DefaultAuthor,
		Location:          loc,
	}, nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
