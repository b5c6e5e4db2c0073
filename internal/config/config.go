package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// FallbackRoot is the identifier returned when a referral chain is
	// broken or no qualifying ancestor exists.
	FallbackRoot string `mapstructure:"fallback_root" yaml:"fallback_root"`
	// SelfIsRoot treats a member naming itself as referrer as the valid
	// top-of-tree marker rather than a defect.
	SelfIsRoot bool `mapstructure:"self_is_root" yaml:"self_is_root"`
	// DuplicatePolicy is "first" or "last": which row wins when several
	// share a canonical identifier.
	DuplicatePolicy string `mapstructure:"duplicate_policy" yaml:"duplicate_policy"`
	// MaxDepth bounds chain climbs during resolution; 0 means unbounded.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// CSV shape overrides; empty means auto-detect.
	IDColumn       string `mapstructure:"id_column" yaml:"id_column"`
	ReferrerColumn string `mapstructure:"referrer_column" yaml:"referrer_column"`
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`

	// Strict makes audit exit non-zero when any finding exists.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.refgraph/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".refgraph")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REFGRAPH")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fallback_root", "")
	v.SetDefault("self_is_root", true)
	v.SetDefault("duplicate_policy", "first")
	v.SetDefault("max_depth", 0)
	v.SetDefault("id_column", "")
	v.SetDefault("referrer_column", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("strict", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".refgraph")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DuplicatePolicy != "first" && c.DuplicatePolicy != "last" {
		return nil, fmt.Errorf("invalid duplicate_policy: %q (use first or last)", c.DuplicatePolicy)
	}
	return &c, nil
}
