package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeUnits() *Sequence {
	return NewSequence([]Unit{
		{ID: "a", Body: "first"},
		{ID: "b", Body: "second"},
		{ID: "a", Body: "duplicate id"},
	})
}

func TestCursorStartsAtZero(t *testing.T) {
	s := threeUnits()
	assert.Equal(t, 0, s.Cursor())

	cur, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "first", cur.Body)
}

func TestNextPrevClampAtBounds(t *testing.T) {
	s := threeUnits()

	s.Next()
	s.Next()
	assert.Equal(t, 2, s.Cursor())
	s.Next()
	assert.Equal(t, 2, s.Cursor(), "no wraparound at the end")

	s.SetCursor(0)
	s.Prev()
	assert.Equal(t, 0, s.Cursor(), "no wraparound at the start")
}

func TestSetCursorClamps(t *testing.T) {
	s := threeUnits()
	assert.Equal(t, 2, s.SetCursor(99))
	assert.Equal(t, 0, s.SetCursor(-5))
}

func TestEmptySequence(t *testing.T) {
	s := NewSequence(nil)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.SetCursor(7))

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestJumpToIDFirstMatchWins(t *testing.T) {
	s := threeUnits()
	s.SetCursor(2)

	idx, ok := s.JumpToID("a")
	assert.True(t, ok)
	assert.Equal(t, 0, idx, "first match wins for duplicate ids")
}

func TestJumpToIDMissLeavesCursor(t *testing.T) {
	s := threeUnits()
	s.SetCursor(1)

	idx, ok := s.JumpToID("nope")
	assert.False(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, s.Cursor())
}

func TestSplitPartsKeepRemainder(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{
			name: "two plain columns",
			text: "Widget\nBlue, large",
			n:    2,
			want: []string{"Widget", "Blue, large"},
		},
		{
			name: "multi-line content stays in last column",
			text: "Widget\nline one\nline two",
			n:    2,
			want: []string{"Widget", "line one\nline two"},
		},
		{
			name: "three columns",
			text: "a\nb\nc\nd",
			n:    3,
			want: []string{"a", "b", "c\nd"},
		},
		{
			name: "single column passthrough",
			text: "anything\nat all",
			n:    1,
			want: []string{"anything\nat all"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParts(tt.text, tt.n))
		})
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	// Joining n parts then splitting with the same n reconstructs the text.
	for _, parts := range [][]string{
		{"Widget", "Blue"},
		{"Widget", "", "notes\nwith\nbreaks"},
		{"only"},
	} {
		joined := JoinParts(parts)
		got := SplitParts(joined, len(parts))
		assert.Equal(t, parts, got)
		assert.Equal(t, joined, JoinParts(got))
	}
}
