// Package render provides output formatting for CLI commands.
// Separates presentation from assembly logic.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Writer wraps an io.Writer with formatting utilities.
// Color is applied only when writing to a terminal.
type Writer struct {
	out    io.Writer
	pretty bool
}

// NewWriter creates a Writer that writes to the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Stdout returns a Writer that writes to os.Stdout, with color enabled
// when stdout is a terminal.
func Stdout() *Writer {
	return &Writer{
		out:    os.Stdout,
		pretty: term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "",
	}
}

// Stderr returns a Writer that writes to os.Stderr.
func Stderr() *Writer {
	return &Writer{
		out:    os.Stderr,
		pretty: term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "",
	}
}

// Pretty reports whether colored output is active.
func (w *Writer) Pretty() bool {
	return w.pretty
}

// Print writes formatted text.
func (w *Writer) Print(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text with newline.
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Line writes a blank line.
func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Header writes a title line with an underline rule.
func (w *Writer) Header(title string, args ...any) {
	if len(args) > 0 {
		title = fmt.Sprintf(title, args...)
	}
	if w.pretty {
		title = color.CyanString(title)
	}
	fmt.Fprintln(w.out, title)
	fmt.Fprintln(w.out, strings.Repeat("─", 40))
}

// Section writes a section header.
func (w *Writer) Section(title string) {
	fmt.Fprintln(w.out)
	if w.pretty {
		title = color.New(color.Bold).Sprint(title)
	}
	fmt.Fprintln(w.out, title+":")
}

// Item writes an indented item line.
func (w *Writer) Item(format string, args ...any) {
	fmt.Fprintf(w.out, "  "+format+"\n", args...)
}

// SubItem writes a double-indented sub-item.
func (w *Writer) SubItem(format string, args ...any) {
	fmt.Fprintf(w.out, "    "+format+"\n", args...)
}

// Success writes a checkmarked status line.
func (w *Writer) Success(format string, args ...any) {
	mark := "✓"
	if w.pretty {
		mark = color.GreenString(mark)
	}
	fmt.Fprintf(w.out, mark+" "+format+"\n", args...)
}

// Fail writes a crossmarked status line.
func (w *Writer) Fail(format string, args ...any) {
	mark := "✗"
	if w.pretty {
		mark = color.RedString(mark)
	}
	fmt.Fprintf(w.out, mark+" "+format+"\n", args...)
}

// Dim writes de-emphasized text with newline.
func (w *Writer) Dim(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if w.pretty {
		s = color.HiBlackString(s)
	}
	fmt.Fprintln(w.out, s)
}

// Empty writes an empty state message.
func (w *Writer) Empty(msg string) {
	fmt.Fprintln(w.out, msg)
}

// Truncate shortens a string to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
