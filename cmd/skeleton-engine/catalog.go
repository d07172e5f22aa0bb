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

	"github.com/pdiddy/skeleton-engine/internal/catalog"
	"github.com/pdiddy/skeleton-engine/internal/nml"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the node catalog (store, list, deltas, export)",
	Long: `Catalog manages a local SQLite database of scanned skeleton files and
their nodes. Use subcommands to store scan results, list files, or export.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Scan skeleton files and store their nodes in the catalog",
	Long: `Store scans the given files (or every file in --dir) and writes each
file's properties and nodes to the catalog. Storing a file again replaces
its previous nodes.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	ctx := context.Background()

	results, failed, err := collect(ctx, cmd, args, cfg.Scan, os.Stderr)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(ctx, complete(results), os.Stdout)
	if err != nil {
		return err
	}
	reportLineErrors(os.Stderr, results)

	if failed+summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed+summary.Failed)
	}
	return nil
}

// complete drops truncated results so a failed rescan never replaces a
// file's stored nodes with a partial set.
func complete(results []*nml.Result) []*nml.Result {
	var out []*nml.Result
	for _, res := range results {
		if !res.Truncated {
			out = append(out, res)
		}
	}
	return out
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued files",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := store.Files(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(os.Stdout, files, jsonOutput)
}

func formatListOutput(w io.Writer, files []catalog.FileEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	if len(files) == 0 {
		fmt.Fprintln(w, "No files catalogued.")
		return nil
	}

	fmt.Fprintf(w, "%-40s  %-8s  %-10s  %-12s  %s\n", "File", "Nodes", "NumNodes", "TimeMS", "Malformed")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, f := range files {
		name := f.File
		if len(name) > 40 {
			name = "..." + name[len(name)-37:]
		}
		fmt.Fprintf(w, "%-40s  %-8d  %-10d  %-12d  %d\n", name, f.Nodes, f.NumNodes, f.TimeMS, f.Malformed)
	}
	fmt.Fprintf(w, "\n%d files\n", len(files))
	return nil
}

// --- deltas subcommand ---

var catalogDeltasCmd = &cobra.Command{
	Use:   "deltas",
	Short: "Show nodes added between successive saves of each skeleton",
	Long: `Deltas groups catalogued files by root (directory plus base name up to
the first dot) and reports, for each file, the nodes added and the time
elapsed since the previous save of the same root.`,
	RunE: runCatalogDeltas,
}

func runCatalogDeltas(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	deltas, err := store.Deltas(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatDeltasOutput(os.Stdout, deltas, jsonOutput)
}

func formatDeltasOutput(w io.Writer, deltas []catalog.Delta, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(deltas)
	}

	if len(deltas) == 0 {
		fmt.Fprintln(w, "No files catalogued.")
		return nil
	}

	fmt.Fprintf(w, "%-40s  %-10s  %-12s  %-11s  %s\n", "File", "NumNodes", "TimeMS", "NodesAdded", "TimeDelta")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	root := ""
	for i, d := range deltas {
		if i > 0 && d.Root != root {
			fmt.Fprintln(w)
		}
		root = d.Root
		name := d.File
		if len(name) > 40 {
			name = "..." + name[len(name)-37:]
		}
		fmt.Fprintf(w, "%-40s  %-10d  %-12d  %-11d  %d\n", name, d.NumNodes, d.TimeMS, d.NodesAdded, d.TimeDelta)
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every catalogued file with its nodes to export.yaml or
export.json in the catalog directory.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := pipelineConfig(cmd)
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding catalog.db and exports")

	addScanFlags(catalogStoreCmd)

	catalogListCmd.Flags().Bool("json", false, "output files as JSON")
	catalogDeltasCmd.Flags().Bool("json", false, "output deltas as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDeltasCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
