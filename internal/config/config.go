package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	configFileName = ".vq.yaml"

	defaultCacheTTLMillis = 5000
	defaultCacheCapacity  = 100
)

// CacheConfig tunes the query result cache.
type CacheConfig struct {
	TTLMillis int `yaml:"ttl_ms"   json:"ttl_ms"`
	Capacity  int `yaml:"capacity" json:"capacity"`
}

// Config is the host configuration for the vq CLI.
type Config struct {
	VaultDir       string            `yaml:"vaultdir"        json:"vaultdir"`
	IgnoredFolders []string          `yaml:"ignored_folders" json:"ignored_folders"`
	Cache          CacheConfig       `yaml:"cache"           json:"cache"`
	Views          map[string]string `yaml:"views"           json:"views"`
	DefaultView    string            `yaml:"default_view"    json:"default_view"`
}

// DefaultPath returns the config file location under the user's home.
func DefaultPath(home string) string {
	return filepath.Join(home, configFileName)
}

// Load reads the config file at path. A missing file yields the defaults; a
// present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Cache: CacheConfig{
			TTLMillis: defaultCacheTTLMillis,
			Capacity:  defaultCacheCapacity,
		},
		Views: make(map[string]string),
	}
}

func (cfg *Config) ensureDefaults() {
	if cfg.Cache.TTLMillis == 0 {
		cfg.Cache.TTLMillis = defaultCacheTTLMillis
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = defaultCacheCapacity
	}
	if cfg.Views == nil {
		cfg.Views = make(map[string]string)
	}
}

// Validate checks structural constraints before the config is used.
func (cfg *Config) Validate() error {
	err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.Cache),
	)
	if err != nil {
		return err
	}

	for name, q := range cfg.Views {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("view %q has an empty query", name)
		}
	}
	if cfg.DefaultView != "" {
		if _, ok := cfg.Views[cfg.DefaultView]; !ok {
			return fmt.Errorf("default view %q is not defined", cfg.DefaultView)
		}
	}
	return nil
}

// Validate keeps the cache knobs non-negative.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTLMillis, validation.Min(0)),
		validation.Field(&c.Capacity, validation.Min(0)),
	)
}
