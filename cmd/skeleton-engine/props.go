// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skeleton-engine/internal/catalog"
	"github.com/pdiddy/skeleton-engine/internal/nml"
)

var propsCmd = &cobra.Command{
	Use:   "props <file> [log]",
	Short: "Print a skeleton file's node count and annotation time",
	Long: `Props reads the <activeNode id=...> and <time ms=...> header lines of a
skeleton file and prints "file,num_nodes,time_ms". The active node is the
last one placed, so its id is the tracer's node count.

With a log path, the line is also appended to that CSV log.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProps,
}

func runProps(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !nml.IsSkeletonFile(path) {
		return fmt.Errorf("%s: nml/xml file needed", path)
	}

	cfg := pipelineConfig(cmd)
	res, err := nml.ScanFile(context.Background(), path, cfg.Scan)
	if err != nil {
		return err
	}

	p := res.Properties
	if p.NumNodes == 0 || p.TimeMS == 0 {
		fmt.Fprintf(os.Stderr, "warning %s: only found num_nodes: %d, time_ms: %d\n", path, p.NumNodes, p.TimeMS)
	}
	fmt.Printf("%s,%d,%d\n", p.File, p.NumNodes, p.TimeMS)

	if len(args) == 2 {
		if err := catalog.AppendLog(args[1], p); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(propsCmd)
}
