// Package score parses "lo-hi" range keys and maps a numeric score onto a
// test's interpretation table.
package score

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/campuswell/psychtool/internal/errs"
)

// Range is an inclusive numeric interval parsed from a "lo-hi" key.
type Range struct {
	Lo int
	Hi int
}

// Contains reports whether v falls within the interval, bounds included.
func (r Range) Contains(v int) bool { return r.Lo <= v && v <= r.Hi }

// ParseRange parses a "lo-hi" key into an inclusive interval. The two parts
// are trimmed of surrounding whitespace and must both be non-negative
// integers. Any other shape (missing separator, extra separators,
// non-numeric parts) reports false. Lo > Hi is not rejected here; such a
// range simply never matches.
func ParseRange(s string) (Range, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || lo < 0 {
		return Range{}, false
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || hi < 0 {
		return Range{}, false
	}
	return Range{Lo: lo, Hi: hi}, true
}

// IsValidRange reports whether s parses as a range key. Used as a write-time
// validator when an interpretation table is authored or updated.
func IsValidRange(s string) bool {
	_, ok := ParseRange(s)
	return ok
}

// Evaluate maps score onto the interpretation table. Every key is parsed up
// front: a malformed key is a fatal consistency fault (ErrConfigCorrupt),
// never a silent skip, since tables are validated at write time. Entries are
// matched in ascending Lo order so the result is deterministic even when
// ranges overlap. A score outside every range reports matched=false with a
// nil error.
func Evaluate(score int, table map[string]string) (text string, matched bool, err error) {
	type entry struct {
		r    Range
		text string
	}
	entries := make([]entry, 0, len(table))
	for k, v := range table {
		r, ok := ParseRange(k)
		if !ok {
			return "", false, fmt.Errorf("%w: interpretation key %q", errs.ErrConfigCorrupt, k)
		}
		entries = append(entries, entry{r: r, text: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].r.Lo < entries[j].r.Lo })

	for _, e := range entries {
		if e.r.Contains(score) {
			return e.text, true, nil
		}
	}
	return "", false, nil
}
