// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skeleton-engine/internal/nml"
	"github.com/pdiddy/skeleton-engine/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Extract node records from skeleton files",
	Long: `Scan reads skeleton files line by line and extracts one node record per
<node id=...> line, in file order. Malformed node lines are reported as
warnings and skipped; the remaining nodes are still returned.

Pass files as arguments or use --dir to scan every .nml/.xml file in a
directory.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	results, failed, err := collect(context.Background(), cmd, args, cfg.Scan, os.Stderr)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if err := formatScanOutput(os.Stdout, results, format); err != nil {
		return err
	}

	malformed := reportLineErrors(os.Stderr, results)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	if malformed > 0 {
		return fmt.Errorf("%d malformed line(s)", malformed)
	}
	return nil
}

// collect scans the files named by args, or the --dir directory, and returns
// one result per opened file plus the number of files that failed. A failed
// file's result holds the nodes read before the failure and is marked
// Truncated. Progress and failures go to w.
func collect(ctx context.Context, cmd *cobra.Command, args []string, cfg types.ScanConfig, w io.Writer) ([]*nml.Result, int, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		results, summary, err := nml.ScanAll(ctx, dir, cfg, w)
		return results, summary.Failed, err
	}

	if len(args) == 0 {
		return nil, 0, fmt.Errorf("no input: provide skeleton files or --dir")
	}

	var (
		results []*nml.Result
		failed  int
	)
	for _, path := range args {
		res, err := nml.ScanFile(ctx, path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			failed++
			if res == nil {
				continue
			}
		}
		results = append(results, res)
	}
	return results, failed, nil
}

// reportLineErrors prints every line error and returns how many there were.
func reportLineErrors(w io.Writer, results []*nml.Result) int {
	total := 0
	for _, res := range results {
		for _, le := range res.Errors {
			fmt.Fprintf(w, "warning %s: %v\n", res.Properties.File, le)
		}
		total += len(res.Errors)
	}
	return total
}

// scanOutput is the serialized form of one scanned file.
type scanOutput struct {
	types.FileProperties `yaml:",inline"`
	NodeList             []types.Node `json:"node_list" yaml:"node_list"`
	Errors               []string     `json:"errors,omitempty" yaml:"errors,omitempty"`
	Truncated            bool         `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

func toScanOutput(results []*nml.Result) []scanOutput {
	out := make([]scanOutput, len(results))
	for i, res := range results {
		out[i] = scanOutput{FileProperties: res.Properties, NodeList: res.Nodes.Nodes(), Truncated: res.Truncated}
		for _, le := range res.Errors {
			out[i].Errors = append(out[i].Errors, le.Error())
		}
	}
	return out
}

func formatScanOutput(w io.Writer, results []*nml.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toScanOutput(results))
	case "yaml":
		data, err := yaml.Marshal(toScanOutput(results))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	for _, res := range results {
		p := res.Properties
		fmt.Fprintf(w, "%s  nodes: %d  active node: %d  time: %d ms\n", p.File, p.Nodes, p.NumNodes, p.TimeMS)
		fmt.Fprintf(w, "%-10s  %-8s  %-8s  %-8s  %-12s  %s\n", "ID", "X", "Y", "Z", "Time", "Intensity")
		fmt.Fprintln(w, strings.Repeat("-", 64))
		for _, n := range res.Nodes.Nodes() {
			fmt.Fprintf(w, "%-10d  %-8d  %-8d  %-8d  %-12d  %d\n", n.ID, n.X, n.Y, n.Z, n.TimeMS, n.Intensity)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func init() {
	addScanFlags(scanCmd)
	scanCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(scanCmd)
}
