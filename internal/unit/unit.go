// Package unit defines the common shape every extraction source is
// normalized into, and the cursor-addressed sequence used for stepping
// through extracted content one item at a time.
package unit

import "strings"

// Unit is one addressable chunk of extracted content: a spreadsheet row,
// a regex block, an HTML element or an API row.
type Unit struct {
	ID   string         `json:"id"`
	Body string         `json:"body"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Sequence is an ordered, indexable list of units with a current-position
// cursor. The whole sequence is replaced, never patched, when the source or
// configuration changes.
type Sequence struct {
	units  []Unit
	cursor int
}

// NewSequence wraps units with the cursor at 0.
func NewSequence(units []Unit) *Sequence {
	return &Sequence{units: units}
}

// Len returns the number of units.
func (s *Sequence) Len() int {
	return len(s.units)
}

// Units returns the underlying slice in order.
func (s *Sequence) Units() []Unit {
	return s.units
}

// Cursor returns the current index. Always within bounds for a non-empty
// sequence; 0 when empty.
func (s *Sequence) Cursor() int {
	return s.cursor
}

// Current returns the active unit, or false when the sequence is empty.
func (s *Sequence) Current() (Unit, bool) {
	if len(s.units) == 0 {
		return Unit{}, false
	}
	return s.units[s.cursor], true
}

// At returns the unit at index i, or false when out of range.
func (s *Sequence) At(i int) (Unit, bool) {
	if i < 0 || i >= len(s.units) {
		return Unit{}, false
	}
	return s.units[i], true
}

// SetCursor moves the cursor to i, clamped to the sequence bounds.
func (s *Sequence) SetCursor(i int) int {
	s.cursor = s.clamp(i)
	return s.cursor
}

// Next advances the cursor by one, clamping at the end. No wraparound.
func (s *Sequence) Next() int {
	return s.SetCursor(s.cursor + 1)
}

// Prev moves the cursor back by one, clamping at the start. No wraparound.
func (s *Sequence) Prev() int {
	return s.SetCursor(s.cursor - 1)
}

// JumpToID moves the cursor to the first unit whose ID matches exactly.
// IDs are not unique by construction; first match wins. When no unit
// matches, the cursor stays put and ok is false. A miss is a no-op for the
// caller, not an error.
func (s *Sequence) JumpToID(id string) (index int, ok bool) {
	for i, u := range s.units {
		if u.ID == id {
			s.cursor = i
			return i, true
		}
	}
	return s.cursor, false
}

func (s *Sequence) clamp(i int) int {
	if len(s.units) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= len(s.units) {
		return len(s.units) - 1
	}
	return i
}

// SplitParts re-splits a body that was joined from n column values.
// The first n-1 line breaks are hard split points; the remainder, embedded
// line breaks included, forms the final part. This mirrors the join rule
// exactly, so multi-line content survives only in the last column.
func SplitParts(text string, n int) []string {
	if n <= 1 {
		return []string{text}
	}
	parts := make([]string, 0, n)
	rest := text
	for i := 0; i < n-1; i++ {
		idx := strings.Index(rest, "\n")
		if idx < 0 {
			parts = append(parts, rest)
			rest = ""
			continue
		}
		parts = append(parts, rest[:idx])
		rest = rest[idx+1:]
	}
	parts = append(parts, rest)
	return parts
}

// JoinParts is the inverse of SplitParts: column values joined by a line
// break in column order.
func JoinParts(parts []string) string {
	return strings.Join(parts, "\n")
}
