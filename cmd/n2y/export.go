// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/n2y/internal/export"
	"github.com/pdiddy/n2y/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run every export in the configuration file",
	Long: `Export runs each entry of the configuration's exports list in order. A
failing export is reported and the rest still run; the command exits non-zero
when any export failed.

The Notion token is read from NOTION_ACCESS_TOKEN or .secrets/notion-access-token.
Set N2Y_CACHE to a file path to keep API responses in a local SQLite cache.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	exports := cfg.Resolved()
	if len(exports) == 0 {
		return fmt.Errorf("no exports configured")
	}

	conv, closer, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	result := export.Run(cmd.Context(), conv, exports)
	out := cmd.OutOrStdout()
	for _, f := range result.Failed {
		color.New(color.FgRed).Fprintf(out, "FAILED %s: %v\n", f.Output, f.Err)
	}
	if result.HasFailures() {
		color.New(color.FgYellow).Fprintln(out, result.Summary())
		return fmt.Errorf("%d export(s) failed", len(result.Failed))
	}
	color.New(color.FgGreen).Fprintln(out, result.Summary())
	return nil
}
