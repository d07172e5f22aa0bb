// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nml

import (
	"fmt"
	"strings"
)

const quote = `"`

// Split cuts line on every double-quote character. A line with N quotes
// yields N+1 segments. Quotes are not escaped, so a literal quote inside a
// value shifts every later segment.
func Split(line string) []string {
	return strings.Split(line, quote)
}

// Attributes maps attribute names to their values. Segment 2k holds the text
// before an opening quote and must end in "name="; segment 2k+1 holds the
// value. The trailing segment after the last closing quote is ignored. When
// a name repeats, the first value wins.
func Attributes(line string) (map[string]string, error) {
	segs := Split(line)
	if len(segs)%2 == 0 {
		return nil, fmt.Errorf("%w: unbalanced quotes (%d segments)", ErrFormatMismatch, len(segs))
	}

	attrs := make(map[string]string, len(segs)/2)
	for i := 0; i+1 < len(segs); i += 2 {
		name, ok := attributeName(segs[i])
		if !ok {
			return nil, fmt.Errorf("%w: segment %d %q does not end in name=", ErrFormatMismatch, i, segs[i])
		}
		if _, seen := attrs[name]; !seen {
			attrs[name] = segs[i+1]
		}
	}
	return attrs, nil
}

// attributeName returns the last word before the trailing '=' of seg, so
// `<node id=` gives "id" and ` radius=` gives "radius".
func attributeName(seg string) (string, bool) {
	seg = strings.TrimSpace(seg)
	if !strings.HasSuffix(seg, "=") {
		return "", false
	}
	fields := strings.Fields(strings.TrimSuffix(seg, "="))
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}
