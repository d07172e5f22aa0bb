package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

// AppendLog appends one "file,num_nodes,time_ms" line to the CSV run log at
// path, creating it if needed.
func AppendLog(path string, props types.FileProperties) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		props.File,
		strconv.Itoa(props.NumNodes),
		strconv.Itoa(props.TimeMS),
	}); err != nil {
		f.Close()
		return fmt.Errorf("writing log %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing log %s: %w", path, err)
	}
	return f.Close()
}
