package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search-assistant/internal/config"
)

var (
	configPath string
	sourceFlag []string
	tailorFlag string
)

// loadSettings resolves the configuration for cmd. Flags win over the
// environment, which wins over the config file, which wins over defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SearchSources = sourceFlag
	}
	if flags.Changed("tailor") {
		cfg.Tailor = tailorFlag
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		port, err := flags.GetInt("port")
		if err != nil {
			return config.Config{}, err
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
