package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/refgraph-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set refgraph configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("fallback_root: %s\n", cfg.FallbackRoot)
		fmt.Printf("self_is_root: %t\n", cfg.SelfIsRoot)
		fmt.Printf("duplicate_policy: %s\n", cfg.DuplicatePolicy)
		fmt.Printf("max_depth: %d\n", cfg.MaxDepth)
		if cfg.IDColumn != "" {
			fmt.Printf("id_column: %s\n", cfg.IDColumn)
		}
		if cfg.ReferrerColumn != "" {
			fmt.Printf("referrer_column: %s\n", cfg.ReferrerColumn)
		}
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		}
		fmt.Printf("strict: %t\n", cfg.Strict)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "fallback_root":
			cfg.FallbackRoot = val
		case "self_is_root":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for self_is_root: %v", val)
			}
			cfg.SelfIsRoot = b
		case "duplicate_policy":
			if val != "first" && val != "last" {
				return fmt.Errorf("invalid duplicate_policy: %s (use first or last)", val)
			}
			cfg.DuplicatePolicy = val
		case "max_depth":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_depth: %v", val)
			}
			cfg.MaxDepth = i
		case "id_column":
			cfg.IDColumn = val
		case "referrer_column":
			cfg.ReferrerColumn = val
		case "delimiter":
			switch val {
			case ",", ";", "tab":
				cfg.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %s (use ','|';'|'tab')", val)
			}
		case "strict":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for strict: %v", val)
			}
			cfg.Strict = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
