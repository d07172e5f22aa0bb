// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nml

import (
	"fmt"
	"slices"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

// NodeList is an ordered, append-only collection of Nodes. Insertion order
// matches input line order. The zero value is an empty list ready to use.
// A NodeList is owned by one pass and is not safe for concurrent mutation.
type NodeList struct {
	nodes []types.Node
}

// Append adds n to the end of the list.
func (l *NodeList) Append(n types.Node) {
	l.nodes = append(l.nodes, n)
}

// Len returns the number of nodes appended so far.
func (l *NodeList) Len() int {
	return len(l.nodes)
}

// At returns the node at position i.
func (l *NodeList) At(i int) (types.Node, bool) {
	if i < 0 || i >= len(l.nodes) {
		return types.Node{}, false
	}
	return l.nodes[i], true
}

// Nodes returns a copy of the nodes in insertion order.
func (l *NodeList) Nodes() []types.Node {
	return slices.Clone(l.nodes)
}

// SetIntensity records a sampled intensity for the node at position i. It is
// the only mutation allowed after extraction.
func (l *NodeList) SetIntensity(i, v int) error {
	if i < 0 || i >= len(l.nodes) {
		return fmt.Errorf("node index %d out of range [0,%d)", i, len(l.nodes))
	}
	l.nodes[i].Intensity = v
	return nil
}

// Save hands the nodes to w for writing to path.
func (l *NodeList) Save(w Writer, path string) error {
	return w.WriteFile(path, l.Nodes())
}
