// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the skeleton-engine pipeline.
// Implements: Node (one extracted skeleton point), FileProperties (per-file
// summary), and the stage configuration structs.
//
// See DESIGN.md § Data Model.
package types

// Node is one point extracted from a `<node id=...>` line of a skeleton file.
// ID, X, Y, Z and TimeMS come from the source line and are not changed after
// extraction. Intensity starts at 0 and is filled in by a later sampling stage.
type Node struct {
	// ID is the node identifier. Uniqueness is not enforced.
	ID int `json:"id" yaml:"id"`

	// X, Y, Z are the voxel coordinates of the node.
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`

	// TimeMS is the annotation timestamp in milliseconds.
	TimeMS int `json:"time_ms" yaml:"time_ms"`

	// Intensity is the sampled image intensity at (X, Y, Z).
	Intensity int `json:"intensity" yaml:"intensity"`
}

// FileProperties summarizes one skeleton file: the tracer's node count and
// total annotation time as recorded in the file header, plus the number of
// node records actually extracted.
type FileProperties struct {
	// File is the path of the scanned file.
	File string `json:"file" yaml:"file"`

	// NumNodes is the id from the <activeNode id="N"/> line. The active node
	// is the last one placed, so its id doubles as the node count. Zero when
	// the file has no activeNode line.
	NumNodes int `json:"num_nodes" yaml:"num_nodes"`

	// TimeMS is the value from the <time ms="N"/> line. Zero when absent.
	TimeMS int `json:"time_ms" yaml:"time_ms"`

	// Nodes is the number of node records extracted from the file.
	Nodes int `json:"nodes" yaml:"nodes"`
}
