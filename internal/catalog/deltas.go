// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"cmp"
	"context"
	"path/filepath"
	"slices"
	"strings"
)

// Delta reports how much a skeleton grew between one saved file and the
// previous save of the same root.
type Delta struct {
	// Root groups successive saves of one skeleton: the file's directory
	// plus its base name up to the first dot.
	Root string `json:"root" yaml:"root"`

	File     string `json:"file" yaml:"file"`
	NumNodes int    `json:"num_nodes" yaml:"num_nodes"`
	TimeMS   int    `json:"time_ms" yaml:"time_ms"`

	// NodesAdded is NumNodes minus the previous save's NumNodes, or
	// NumNodes itself for the first save of a root.
	NodesAdded int `json:"nodes_added" yaml:"nodes_added"`

	// TimeDelta is TimeMS minus the previous save's TimeMS, or zero for the
	// first save of a root.
	TimeDelta int `json:"time_delta" yaml:"time_delta"`
}

// fileRoot returns the root of path: skeleton-031215-1410.001.nml and
// skeleton-031215-1410.002.nml share the root skeleton-031215-1410.
func fileRoot(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(path), base)
}

// ComputeDeltas groups files by root and diffs each file against the one
// before it in the same root. Files within a root keep their input order,
// so callers pass them sorted by path.
func ComputeDeltas(files []FileEntry) []Delta {
	deltas := make([]Delta, len(files))
	for i, f := range files {
		deltas[i] = Delta{Root: fileRoot(f.File), File: f.File, NumNodes: f.NumNodes, TimeMS: f.TimeMS}
	}
	slices.SortStableFunc(deltas, func(a, b Delta) int {
		return cmp.Compare(a.Root, b.Root)
	})

	for i := range deltas {
		d := &deltas[i]
		if i == 0 || deltas[i-1].Root != d.Root {
			d.NodesAdded = d.NumNodes
			continue
		}
		prev := deltas[i-1]
		d.NodesAdded = d.NumNodes - prev.NumNodes
		d.TimeDelta = d.TimeMS - prev.TimeMS
	}
	return deltas
}

// Deltas returns the per-root deltas of every catalogued file.
func (s *Store) Deltas(ctx context.Context) ([]Delta, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeDeltas(files), nil
}
