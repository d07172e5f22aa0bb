package nml

import (
	"errors"
	"fmt"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

// ErrNotImplemented is returned by output operations that have no defined
// format yet.
var ErrNotImplemented = errors.New("not yet implemented")

// Writer persists extracted nodes. No node output format is defined yet;
// UnimplementedWriter is the only implementation.
type Writer interface {
	WriteFile(path string, nodes []types.Node) error
}

// UnimplementedWriter rejects every write with ErrNotImplemented.
type UnimplementedWriter struct{}

func (UnimplementedWriter) WriteFile(path string, _ []types.Node) error {
	return fmt.Errorf("writing %s: %w", path, ErrNotImplemented)
}
