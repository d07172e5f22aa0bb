// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the skeleton-engine CLI.
// Implements: node extraction (scan), file properties (props), the SQLite
// catalog (catalog store/list/export), and the node writer stub (write).
// See DESIGN.md § CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the skeleton-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "skeleton-engine",
	Short: "Extract node coordinates from skeleton annotation files",
	Long: `skeleton-engine reads Knossos skeleton files (.nml/.xml) and extracts
one node record per <node id=...> line: id, x, y, z and annotation time.
Intensity is left at 0 for a later sampling stage.

Subcommands scan files, summarize per-file properties, and keep a SQLite
catalog of scanned files and their nodes.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./skeleton-engine.yaml or ~/.config/skeleton-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("skeleton-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "skeleton-engine"))
		}
	}

	viper.SetEnvPrefix("SKELETON_ENGINE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
