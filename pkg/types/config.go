package types

// Layout selects how node attributes are located within a line.
type Layout string

const (
	// LayoutNamed looks attributes up by name, independent of order.
	LayoutNamed Layout = "named"

	// LayoutPositional reads the fixed quote-segment indices of the
	// reference node tag (id@1, x@5, y@7, z@9, time@15).
	LayoutPositional Layout = "positional"
)

// ScanConfig holds settings for the extraction pass.
type ScanConfig struct {
	// Layout selects named or positional attribute lookup (default named).
	Layout Layout `json:"layout" yaml:"layout"`

	// FailFast aborts a pass at the first malformed node line instead of
	// collecting line errors and continuing.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`

	// MaxLineBytes is the longest line the scanner accepts (default 1 MiB).
	MaxLineBytes int `json:"max_line_bytes" yaml:"max_line_bytes"`
}

// CatalogConfig holds settings for the SQLite catalog.
type CatalogConfig struct {
	// Dir is the directory holding catalog.db and export files.
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scan    ScanConfig    `json:"scan" yaml:"scan"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
