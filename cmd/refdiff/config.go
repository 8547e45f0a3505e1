package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/refdiff/refdiff/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  refdiff config                  # Show all config
  refdiff config threshold        # Get specific value
  refdiff config threshold 0.85   # Set value

Keys:
  threshold    Fuzzy title similarity cutoff in (0, 1]
  listen       Listen address for the serve command
  uploads_dir  Where serve stores uploaded files
  log_level    Log level for serve (debug, info, warn, error)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the JSON output after a config value is set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys {
				v, _ := cfg.Get(key)
				fmt.Printf("%-12s %s\n", key+":", v)
			}
		} else {
			all := make(map[string]string, len(config.Keys))
			for _, key := range config.Keys {
				all[key], _ = cfg.Get(key)
			}
			return outputJSON(all)
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			return outputJSON(map[string]string{key: v})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.Save(cfg); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
