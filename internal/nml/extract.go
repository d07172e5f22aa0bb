package nml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

var (
	// ErrFormatMismatch reports a node line whose attributes cannot be
	// located: a required attribute is missing, quotes are unbalanced, or
	// the positional segment count is wrong.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrFieldNotNumeric reports a required attribute whose value is not a
	// base-10 integer.
	ErrFieldNotNumeric = errors.New("field not numeric")

	// ErrNotNodeLine reports an Extract call on a line Classify rejects.
	ErrNotNodeLine = errors.New("not a node line")
)

// segmentCount is the number of quote-delimited segments in the reference
// node tag:
//
//	<node id="1" radius="1.5" x="4" y="9" z="6" inVp="0" inMag="1" time="243215762"/>
//	     0    1    2       3  4  5  6  7  8  9  10    11  12   13  14     15       16
const segmentCount = 17

// field binds a Node attribute name to its positional segment index.
type field struct {
	name    string
	segment int
	dst     func(n *types.Node) *int
}

var nodeFields = []field{
	{"id", 1, func(n *types.Node) *int { return &n.ID }},
	{"x", 5, func(n *types.Node) *int { return &n.X }},
	{"y", 7, func(n *types.Node) *int { return &n.Y }},
	{"z", 9, func(n *types.Node) *int { return &n.Z }},
	{"time", 15, func(n *types.Node) *int { return &n.TimeMS }},
}

// tagAttributes is the full attribute set of the reference node tag. Both
// layouts reject a node line that lacks any of them, including the ones not
// copied into a Node.
var tagAttributes = []string{"id", "radius", "x", "y", "z", "inVp", "inMag", "time"}

// Extractor builds Nodes from node lines using one attribute layout.
type Extractor struct {
	layout types.Layout
}

// NewExtractor returns an Extractor for layout. An empty layout selects
// types.LayoutNamed.
func NewExtractor(layout types.Layout) (*Extractor, error) {
	switch layout {
	case "":
		layout = types.LayoutNamed
	case types.LayoutNamed, types.LayoutPositional:
	default:
		return nil, fmt.Errorf("unsupported layout %q: use named or positional", layout)
	}
	return &Extractor{layout: layout}, nil
}

// Layout returns the attribute layout in use.
func (e *Extractor) Layout() types.Layout {
	return e.layout
}

var defaultExtractor = &Extractor{layout: types.LayoutNamed}

// Extract builds a Node from line using the named layout.
func Extract(line string) (types.Node, error) {
	return defaultExtractor.Extract(line)
}

// Extract builds a Node from a node line. On any error the returned Node is
// the zero value; a partially filled Node is never returned. Intensity is
// always 0.
func (e *Extractor) Extract(line string) (types.Node, error) {
	if !Classify(line) {
		return types.Node{}, ErrNotNodeLine
	}

	lookup, err := e.lookup(line)
	if err != nil {
		return types.Node{}, err
	}

	var n types.Node
	for _, f := range nodeFields {
		raw, ok := lookup(f)
		if !ok {
			return types.Node{}, fmt.Errorf("%w: missing attribute %s", ErrFormatMismatch, f.name)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return types.Node{}, fmt.Errorf("%w: %s=%q", ErrFieldNotNumeric, f.name, raw)
		}
		*f.dst(&n) = v
	}
	return n, nil
}

// lookup returns the value accessor for the extractor's layout.
// Both layouts require the reference segment count; the named layout also
// requires every tag attribute by name, in any order.
func (e *Extractor) lookup(line string) (func(field) (string, bool), error) {
	segs := Split(line)
	if len(segs) != segmentCount {
		return nil, fmt.Errorf("%w: %d segments, want %d", ErrFormatMismatch, len(segs), segmentCount)
	}

	if e.layout == types.LayoutPositional {
		return func(f field) (string, bool) {
			return segs[f.segment], true
		}, nil
	}

	attrs, err := Attributes(line)
	if err != nil {
		return nil, err
	}
	for _, name := range tagAttributes {
		if _, ok := attrs[name]; !ok {
			return nil, fmt.Errorf("%w: missing attribute %s", ErrFormatMismatch, name)
		}
	}
	return func(f field) (string, bool) {
		v, ok := attrs[f.name]
		return v, ok
	}, nil
}

// propertyValue parses the single integer attribute of a header line such
// as <time ms="595065"/> or <activeNode id="140"/>.
func propertyValue(line, name string) (int, error) {
	attrs, err := Attributes(line)
	if err != nil {
		return 0, err
	}
	raw, ok := attrs[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing attribute %s", ErrFormatMismatch, name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrFieldNotNumeric, name, raw)
	}
	return v, nil
}
