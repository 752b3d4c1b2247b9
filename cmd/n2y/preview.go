// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/n2y/internal/export"
	"github.com/pdiddy/n2y/internal/notion"
	"github.com/pdiddy/n2y/internal/plugins"
	"github.com/pdiddy/n2y/pkg/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview <page-id>",
	Short: "Render one page as Markdown in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringSlice("plugins", nil, "plugins to enable, by name")
	previewCmd.Flags().Int("width", 100, "word wrap width")
	previewCmd.Flags().Bool("raw", false, "print the Markdown without styling")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	id, err := notion.NormalizeID(args[0])
	if err != nil {
		return err
	}
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}
	conv, closer, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	names, _ := cmd.Flags().GetStringSlice("plugins")
	ps, err := plugins.Lookup(names)
	if err != nil {
		return err
	}
	if err := conv.LoadPlugins(ps...); err != nil {
		return err
	}

	page, err := conv.GetPage(cmd.Context(), id)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("page %s not found or not shared with the integration: %w", id, notion.ErrObjectNotFound)
	}
	ecfg := cfg.ExportDefaults.MergeDefaults(types.DefaultExport())
	ecfg.Format = "gfm"
	md, err := export.Body(cmd.Context(), page, ecfg)
	if err != nil {
		return err
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	width, _ := cmd.Flags().GetInt("width")
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("creating terminal renderer: %w", err)
	}
	styled, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("styling page: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), styled)
	return nil
}
