// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists scanned skeleton files and their nodes in a
// SQLite database so that per-file summaries and node coordinates can be
// queried and exported after the extraction pass.
//
// See DESIGN.md § Catalog.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/skeleton-engine/internal/nml"
	"github.com/pdiddy/skeleton-engine/pkg/types"
)

const (
	defaultDir = "catalog"
	dbFile     = "catalog.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the catalog database at cfg.Dir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the catalog directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			num_nodes INTEGER NOT NULL DEFAULT 0,
			time_ms INTEGER NOT NULL DEFAULT 0,
			nodes INTEGER NOT NULL DEFAULT 0,
			malformed INTEGER NOT NULL DEFAULT 0,
			scanned_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			file TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			id INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			time_ms INTEGER NOT NULL,
			intensity INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (file, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_id ON nodes(id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// FileEntry is one catalogued file.
type FileEntry struct {
	types.FileProperties `yaml:",inline"`

	// Malformed is the number of lines that failed extraction.
	Malformed int `json:"malformed" yaml:"malformed"`

	// ScannedAt is when the file was last stored.
	ScannedAt time.Time `json:"scanned_at" yaml:"scanned_at"`
}

// Put stores one file's properties and nodes, replacing any previous entry
// for the same path. The nodes keep their input order through seq. It
// reports whether an existing entry was replaced.
func (s *Store) Put(ctx context.Context, props types.FileProperties, nodes []types.Node, malformed int) (bool, error) {
	if props.File == "" {
		return false, fmt.Errorf("storing file: empty path")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM files WHERE path = ?`, props.File,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking file %s: %w", props.File, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE file = ?`, props.File); err != nil {
		return false, fmt.Errorf("deleting old nodes: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO files (path, num_nodes, time_ms, nodes, malformed, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			num_nodes=excluded.num_nodes, time_ms=excluded.time_ms,
			nodes=excluded.nodes, malformed=excluded.malformed,
			scanned_at=excluded.scanned_at`,
		props.File, props.NumNodes, props.TimeMS, len(nodes), malformed,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("upserting file: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (file, seq, id, x, y, z, time_ms, intensity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range nodes {
		if _, err := stmt.ExecContext(ctx,
			props.File, i, n.ID, n.X, n.Y, n.Z, n.TimeMS, n.Intensity,
		); err != nil {
			return false, fmt.Errorf("inserting node %d (id %d): %w", i, n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing %s: %w", props.File, err)
	}
	return exists > 0, nil
}

// IngestSummary holds counts from a catalog store run.
type IngestSummary struct {
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// Ingest stores every scan result, writing one progress line per file to w.
// A failure on one file is reported and does not stop the others.
func (s *Store) Ingest(ctx context.Context, results []*nml.Result, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, res := range results {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := res.Properties.File
		updated, err := s.Put(ctx, res.Properties, res.Nodes.Nodes(), len(res.Errors))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		if updated {
			fmt.Fprintf(w, "updated %s (%d nodes)\n", name, res.Count())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d nodes)\n", name, res.Count())
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Failed)

	return summary, nil
}

// Files lists catalogued files ordered by path.
func (s *Store) Files(ctx context.Context) ([]FileEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, num_nodes, time_ms, nodes, malformed, scanned_at
		 FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var (
			e         FileEntry
			scannedAt sql.NullString
		)
		if err := rows.Scan(&e.File, &e.NumNodes, &e.TimeMS, &e.Nodes, &e.Malformed, &scannedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if scannedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, scannedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing scanned_at for %s: %w", e.File, err)
			}
			e.ScannedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Nodes returns the stored nodes of file in their original order.
func (s *Store) Nodes(ctx context.Context, file string) ([]types.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, z, time_ms, intensity FROM nodes WHERE file = ? ORDER BY seq`, file)
	if err != nil {
		return nil, fmt.Errorf("querying nodes for %s: %w", file, err)
	}
	defer rows.Close()

	var nodes []types.Node
	for rows.Next() {
		var n types.Node
		if err := rows.Scan(&n.ID, &n.X, &n.Y, &n.Z, &n.TimeMS, &n.Intensity); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
