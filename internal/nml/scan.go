// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nml

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/skeleton-engine/pkg/types"
)

const (
	defaultMaxLineBytes = 1 << 20
	maxErrorText        = 80
)

// LineError reports a line that matched a rule but could not be extracted.
type LineError struct {
	// Line is the 1-based line number.
	Line int

	// Text is the offending line, truncated for display.
	Text string

	// Err is the cause; errors.Is matches ErrFormatMismatch or ErrFieldNotNumeric.
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of one extraction pass over one input stream.
type Result struct {
	// Nodes holds every extracted node in input order.
	Nodes *NodeList

	// Properties summarizes the header lines and the extracted node count.
	Properties types.FileProperties

	// Lines is the number of lines read.
	Lines int

	// Errors lists malformed lines in input order.
	Errors []*LineError

	// Truncated is set when the pass stopped before the end of input: a read
	// error, cancellation, or a fail-fast stop.
	Truncated bool
}

// Count returns the number of extracted nodes. It is derived from the
// NodeList so it cannot drift from the stored sequence.
func (r *Result) Count() int {
	return r.Nodes.Len()
}

// Err joins all line errors, or returns nil when every line was well formed.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, le := range r.Errors {
		errs[i] = le
	}
	return errors.Join(errs...)
}

// Scan runs one extraction pass over r. Lines are handled strictly in order:
// node lines are extracted and appended to the result's NodeList, header
// lines fill in Properties, and everything else is ignored. A malformed line
// is recorded in Result.Errors and the pass continues, unless cfg.FailFast
// is set, in which case Scan stops and returns the partial result with the
// *LineError. Read errors and context cancellation end the pass with an
// error.
func Scan(ctx context.Context, r io.Reader, cfg types.ScanConfig) (*Result, error) {
	ex, err := NewExtractor(cfg.Layout)
	if err != nil {
		return nil, err
	}

	maxLine := cfg.MaxLineBytes
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	res := &Result{Nodes: &NodeList{}}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			res.Properties.Nodes = res.Count()
			res.Truncated = true
			return res, ctx.Err()
		default:
		}

		res.Lines++
		line := sc.Text()

		if err := res.handle(ex, line); err != nil {
			le := &LineError{Line: res.Lines, Text: truncate(line), Err: err}
			res.Errors = append(res.Errors, le)
			if cfg.FailFast {
				res.Properties.Nodes = res.Count()
				res.Truncated = true
				return res, le
			}
		}
	}
	res.Properties.Nodes = res.Count()

	if err := sc.Err(); err != nil {
		res.Truncated = true
		return res, fmt.Errorf("reading line %d: %w", res.Lines+1, err)
	}
	return res, nil
}

// handle applies the rule for line's kind.
func (r *Result) handle(ex *Extractor, line string) error {
	switch Kind(line) {
	case KindNode:
		n, err := ex.Extract(line)
		if err != nil {
			return err
		}
		r.Nodes.Append(n)
	case KindTime:
		v, err := propertyValue(line, "ms")
		if err != nil {
			return err
		}
		r.Properties.TimeMS = v
	case KindActiveNode:
		v, err := propertyValue(line, "id")
		if err != nil {
			return err
		}
		r.Properties.NumNodes = v
	}
	return nil
}

// ScanFile opens path and runs Scan over it.
func ScanFile(ctx context.Context, path string, cfg types.ScanConfig) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := Scan(ctx, f, cfg)
	if res != nil {
		res.Properties.File = path
	}
	if err != nil {
		return res, fmt.Errorf("scanning %s: %w", path, err)
	}
	return res, nil
}

// BatchSummary holds counts from a directory scan.
type BatchSummary struct {
	Scanned   int
	Failed    int
	Malformed int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Scanned + s.Failed
}

// HasFailures reports whether any file failed or contained malformed lines.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0 || s.Malformed > 0
}

// IsSkeletonFile reports whether name has a skeleton file extension.
func IsSkeletonFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".nml", ".xml":
		return true
	}
	return false
}

// ScanAll scans every .nml and .xml file in dir, in name order, writing one
// progress line per file to w. A failed file is reported and counted as
// failed; when it was opened, its result still holds the nodes read before
// the failure.
func ScanAll(ctx context.Context, dir string, cfg types.ScanConfig, w io.Writer) ([]*Result, BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var (
		results []*Result
		summary BatchSummary
	)

	for _, entry := range entries {
		if entry.IsDir() || !IsSkeletonFile(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return results, summary, ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		res, err := ScanFile(ctx, path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			if res != nil {
				results = append(results, res)
			}
			continue
		}

		if n := len(res.Errors); n > 0 {
			fmt.Fprintf(w, "warning %s: %d malformed line(s)\n", entry.Name(), n)
			summary.Malformed++
		}
		fmt.Fprintf(w, "scanned %s (%d nodes)\n", entry.Name(), res.Count())
		summary.Scanned++
		results = append(results, res)
	}

	fmt.Fprintf(w, "\nscanned: %d, failed: %d, with malformed lines: %d\n",
		summary.Scanned, summary.Failed, summary.Malformed)

	return results, summary, nil
}

// truncate shortens s for display without splitting a multi-byte rune.
func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorText {
		return s
	}
	cut := maxErrorText - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
