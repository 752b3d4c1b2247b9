// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/plugins"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins [names...]",
	Short: "List the built-in plugins and what they override",
	Long: `Plugins prints the name of every built-in plugin. Given plugin names, it
loads them in that order, as an export would, and prints the resulting class
chain of every type they override, built-in class first.`,
	RunE: runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, n := range plugins.Names() {
			fmt.Fprintln(out, n)
		}
		return nil
	}
	ps, err := plugins.Lookup(args)
	if err != nil {
		return err
	}
	conv := convert.New(nil, convert.WithLogger(log))
	if err := conv.LoadPlugins(ps...); err != nil {
		return err
	}
	for _, o := range plugins.Overrides(conv) {
		fmt.Fprintf(out, "%s %s: %s\n", o.Category, o.Tag, strings.Join(o.Chain, " -> "))
	}
	return nil
}
