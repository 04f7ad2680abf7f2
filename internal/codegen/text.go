// text.go emits decode/encode for a Go string field, the same size=,
// size-from=, size-expr=, until=/after=, and unbounded-tail mechanisms as
// emitDecodeVariableBytes/emitEncodeVariableBytes in container.go, plus
// the UTF-8 validation spec.md §7/§8 S7 requires of a decoded text field.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/analyze"
)

func emitDecodeText(w *strings.Builder, typeName string, f analyze.PlannedField, isLast bool) {
	raw := "__txt_" + f.Name
	switch {
	case f.BitWidth > 0:
		n := int(f.BitWidth / 8)
		fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", n, typeName, f.Name, n)
		fmt.Fprintf(w, "\t%s := b[off:off+%d]\n", raw, n)
		fmt.Fprintf(w, "\toff += %d\n", n)

	case f.SizeFromPath != "":
		fmt.Fprintf(w, "\t__n := int(v.%s)\n", f.SizeFromPath)
		fmt.Fprintf(w, "\tif len(b) < off+__n {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: __n, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\t%s := b[off:off+__n]\n", raw)
		w.WriteString("\toff += __n\n")

	case f.SizeExpr != nil:
		emitSizeExprBound(w, f.SizeExpr, "__n", typeName, f.Name)
		fmt.Fprintf(w, "\tif __n < 0 {\n\t\treturn v, off, &bitwire.SizeExprInvalidError{Type: %q, Field: %q, Reason: \"negative length\"}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\tif len(b) < off+__n {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: __n, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\t%s := b[off:off+__n]\n", raw)
		w.WriteString("\toff += __n\n")

	case f.HasMarkerUntil:
		fmt.Fprintf(w, "\t__idx := -1\n\tfor __i := off; __i < len(b); __i++ {\n\t\tif b[__i] == 0x%02x {\n\t\t\t__idx = __i\n\t\t\tbreak\n\t\t}\n\t}\n", f.MarkerUntil)
		if isLast {
			fmt.Fprintf(w, "\tvar %s []byte\n\tif __idx < 0 {\n\t\t%s = b[off:]\n\t\toff = len(b)\n\t} else {\n\t\t%s = b[off:__idx]\n\t\toff = __idx + 1\n\t}\n", raw, raw, raw)
		} else {
			fmt.Fprintf(w, "\tif __idx < 0 {\n\t\treturn v, off, &bitwire.MarkerNotFoundError{Type: %q, Field: %q, Marker: 0x%02x}\n\t}\n", typeName, f.Name, f.MarkerUntil)
			fmt.Fprintf(w, "\t%s := b[off:__idx]\n", raw)
			w.WriteString("\toff = __idx + 1\n")
		}

	case f.HasMarkerAfter:
		// Skip input up to and including the marker, then the field
		// consumes the remainder; if the marker never appears, the
		// field is empty rather than an error (spec.md §4.5).
		fmt.Fprintf(w, "\t__idx := -1\n\tfor __i := off; __i < len(b); __i++ {\n\t\tif b[__i] == 0x%02x {\n\t\t\t__idx = __i\n\t\t\tbreak\n\t\t}\n\t}\n", f.MarkerAfter)
		fmt.Fprintf(w, "\tvar %s []byte\n\tif __idx >= 0 {\n\t\t%s = b[__idx+1:]\n\t\toff = len(b)\n\t}\n", raw, raw)

	case f.IsUnboundedTail:
		fmt.Fprintf(w, "\t%s := b[off:]\n", raw)
		w.WriteString("\toff = len(b)\n")
	}

	fmt.Fprintf(w, "\tif !utf8.Valid(%s) {\n\t\treturn v, off, &bitwire.InvalidUTF8Error{Type: %q, Field: %q}\n\t}\n", raw, typeName, f.Name)
	fmt.Fprintf(w, "\tv.%s = string(%s)\n", f.Name, raw)
}

func emitEncodeText(w *strings.Builder, f analyze.PlannedField) {
	switch {
	case f.HasMarkerUntil:
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s...)\n\tbuf = append(buf, 0x%02x)\n", f.Name, f.MarkerUntil)
	case f.HasMarkerAfter:
		// The marker is prefixed to the content on encode (spec.md §6.1).
		fmt.Fprintf(w, "\tbuf = append(buf, 0x%02x)\n\tbuf = append(buf, v.%s...)\n", f.MarkerAfter, f.Name)
	default:
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s...)\n", f.Name)
	}
}
