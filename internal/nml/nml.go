// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nml extracts node records from line-oriented skeleton annotation
// files (Knossos .nml/.xml). Each node sits on its own line as a single tag
// with quoted attributes:
//
//	<node id="1" radius="1.5" x="4" y="9" z="6" inVp="0" inMag="1" time="243215762"/>
//
// The package classifies lines, splits them on the quote character, builds
// typed Nodes, and collects them in input order in a NodeList. It is not a
// general XML parser: it only understands one tag per line with a known set
// of attributes.
//
// See DESIGN.md § Extraction.
package nml

import "strings"

// nodeMarker is the literal, case-sensitive substring that identifies a node
// line. It does not match <activeNode id=...> because of the capital N.
const nodeMarker = "node id"

const (
	timeMarker       = "<time ms"
	activeNodeMarker = "<activeNode id"
)

// LineKind identifies which rule, if any, applies to a line.
type LineKind int

const (
	KindOther LineKind = iota
	KindNode
	KindTime
	KindActiveNode
)

func (k LineKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindTime:
		return "time"
	case KindActiveNode:
		return "activeNode"
	default:
		return "other"
	}
}

// matchers are tried in order; the first marker found decides the kind.
var matchers = []struct {
	kind   LineKind
	marker string
}{
	{KindNode, nodeMarker},
	{KindTime, timeMarker},
	{KindActiveNode, activeNodeMarker},
}

// Classify reports whether line carries a node record. Absence of the marker
// is a normal negative result.
func Classify(line string) bool {
	return strings.Contains(line, nodeMarker)
}

// Kind returns the kind of line. Kind(line) == KindNode exactly when
// Classify(line) is true.
func Kind(line string) LineKind {
	for _, m := range matchers {
		if strings.Contains(line, m.marker) {
			return m.kind
		}
	}
	return KindOther
}
