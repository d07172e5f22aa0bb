package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skeleton-engine/internal/nml"
)

var writeCmd = &cobra.Command{
	Use:   "write <file> <out>",
	Short: "Write extracted nodes to an output file",
	Long: `Write extracts the nodes of a skeleton file and writes them to an output
file. No output format is defined yet.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(cmd)
		res, err := nml.ScanFile(context.Background(), args[0], cfg.Scan)
		if err != nil {
			return err
		}
		if err := res.Nodes.Save(nml.UnimplementedWriter{}, args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "write: not yet implemented")
			return err
		}
		return nil
	},
}

func init() {
	writeCmd.Flags().String("layout", "named", "attribute layout: named or positional")

	rootCmd.AddCommand(writeCmd)
}
