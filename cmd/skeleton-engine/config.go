// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

// Config keys, also readable from SKELETON_ENGINE_SCAN_LAYOUT and friends.
const (
	keyScanLayout       = "scan.layout"
	keyScanFailFast     = "scan.fail_fast"
	keyScanMaxLineBytes = "scan.max_line_bytes"
	keyCatalogDir       = "catalog.dir"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func setConfigDefaults() {
	viper.SetDefault(keyScanLayout, string(types.LayoutNamed))
	viper.SetDefault(keyScanFailFast, false)
	viper.SetDefault(keyScanMaxLineBytes, 1<<20)
	viper.SetDefault(keyCatalogDir, "catalog")
}

// pipelineConfig reads the configuration, letting flags that were set on
// cmd override config file and environment values.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Scan: types.ScanConfig{
			Layout:       types.Layout(viper.GetString(keyScanLayout)),
			FailFast:     viper.GetBool(keyScanFailFast),
			MaxLineBytes: viper.GetInt(keyScanMaxLineBytes),
		},
		Catalog: types.CatalogConfig{
			Dir: viper.GetString(keyCatalogDir),
		},
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		layout, _ := flags.GetString("layout")
		cfg.Scan.Layout = types.Layout(layout)
	}
	if flags.Changed("fail-fast") {
		cfg.Scan.FailFast, _ = flags.GetBool("fail-fast")
	}
	if flags.Changed("max-line-bytes") {
		cfg.Scan.MaxLineBytes, _ = flags.GetInt("max-line-bytes")
	}
	if flags.Changed("catalog-dir") {
		cfg.Catalog.Dir, _ = flags.GetString("catalog-dir")
	}
	return cfg
}

// addScanFlags registers the flags shared by commands that run a scan.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "scan every .nml/.xml file in this directory")
	cmd.Flags().String("layout", string(types.LayoutNamed), "attribute layout: named or positional")
	cmd.Flags().Bool("fail-fast", false, "stop a file at its first malformed node line")
	cmd.Flags().Int("max-line-bytes", 1<<20, "longest accepted input line in bytes")
}
