// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the svg2png CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svg2png/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the current directory when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "svg2png [dir]",
	Short: "Batch-convert SVG files to PNG",
	Long: `svg2png converts every *.svg file in a directory (the current one by
default) to a PNG with the same base name, using Inkscape's command-line
export mode. Files whose PNG is newer than the SVG are skipped.

Running svg2png without a subcommand is the same as "svg2png convert".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Configure(logging.DefaultConfig(), viper.GetString("log_level"))
		if f := viper.ConfigFileUsed(); f != "" {
			log.Debug().Str("file", f).Msg("using config file")
		}
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./svg2png.yaml or ~/.config/svg2png/svg2png.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error, off")
	addConversionFlags(rootCmd)

	mustBind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// A missing .env file is not an error.
	_ = godotenv.Load(".env")

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("svg2png")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "svg2png"))
		}
	}

	viper.SetEnvPrefix("SVG2PNG")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("svg2png failed")
		os.Exit(1)
	}
}
