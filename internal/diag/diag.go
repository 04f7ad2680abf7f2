// Package diag collects compile-time diagnostics produced while parsing,
// classifying, and analyzing a layout. A Diagnostic always names the field
// it came from — pooling errors into a flat, field-less error type is the
// one thing the generator must never do.
package diag

import (
	"fmt"
	"go/token"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Diagnostic is one compile-time rejection, always attributable to a field.
type Diagnostic struct {
	Type    string // enclosing aggregate or enumeration name
	Field   string // offending field name, or "" for a type-level error
	Pos     token.Position
	Message string
}

func (d Diagnostic) String() string {
	loc := "-"
	if d.Pos.IsValid() {
		loc = d.Pos.String()
	}
	if d.Field != "" {
		return fmt.Sprintf("%s: %s.%s: %s", loc, d.Type, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Type, d.Message)
}

// Collector accumulates diagnostics across a whole generation run. Unlike
// a bare []error, it keeps the field/type attribution alive so a renderer
// can group and sort by source location.
type Collector struct {
	items []Diagnostic
}

func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

func (c *Collector) Addf(typeName, field string, pos token.Position, format string, args ...any) {
	c.Add(Diagnostic{Type: typeName, Field: field, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) HasErrors() bool { return len(c.items) > 0 }

func (c *Collector) Items() []Diagnostic {
	sorted := make([]Diagnostic, len(c.items))
	copy(sorted, c.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pos.Filename != sorted[j].Pos.Filename {
			return sorted[i].Pos.Filename < sorted[j].Pos.Filename
		}
		return sorted[i].Pos.Offset < sorted[j].Pos.Offset
	})
	return sorted
}

// Render writes every diagnostic to w, one per line. Colorized only when w
// is a real terminal, matching the convention of most Go lint tooling.
func Render(w io.Writer, items []Diagnostic) {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = term.IsTerminal(int(f.Fd()))
	}
	const red = "\x1b[31m"
	const reset = "\x1b[0m"
	for _, d := range items {
		if colorize {
			fmt.Fprintf(w, "%s%s%s\n", red, d.String(), reset)
		} else {
			fmt.Fprintln(w, d.String())
		}
	}
}

// FormatSize renders a byte count in SI units, e.g. "4.0 kB" instead of
// a bare integer.
func FormatSize(n int) string {
	return humanize.Bytes(uint64(n))
}
