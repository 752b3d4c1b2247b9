// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the n2y CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/n2y/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds files read as secrets at startup.
const secretsDir = ".secrets/"

var (
	log       = zerolog.Nop()
	logCloser io.Closer
)

// rootCmd is the base command for the n2y CLI.
var rootCmd = &cobra.Command{
	Use:   "n2y",
	Short: "Export Notion pages and databases to Markdown, HTML, and YAML",
	Long: `n2y reads pages and databases from the Notion API and writes them as
Markdown, plain text, HTML, or JSON documents, optionally with YAML front
matter. Databases can be written as one YAML list or as one file per row.

The exports to run are listed in a YAML configuration file. Plugins named in
an export change how particular block types are converted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := logging.New(logging.Options{
			Level:   viper.GetString("log_level"),
			Verbose: viper.GetBool("verbose"),
			File:    viper.GetString("log_file"),
		})
		if err != nil {
			return err
		}
		log, logCloser = l, closer
		if f := viper.ConfigFileUsed(); f != "" {
			log.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./n2y.yaml or ~/.config/n2y/config.yaml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("log-file", "", "also write JSON logs to this file, rotated by size")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("n2y")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "n2y"))
		}
	}

	viper.SetEnvPrefix("N2Y")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
