// container.go emits the decode/encode source fragments for byte-aligned
// fields: primitives, booleans, Unicode scalars, fixed arrays, and the
// four variable-length mechanisms (size=, size-from=, size-expr=,
// until=/after=) plus the unbounded tail. Grounded on the teacher's
// internal/codegen/generator.go typeEmitter table — this package keeps
// that same "one emit function per Go type shape, assembled by a single
// driver" structure — generalized from the teacher's fixed-offset/
// indirect-slice model to a runtime cursor variable, since spec.md's
// variable-length fields make offsets unknowable until decode time.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/tag"
)

func binPkg(order string) string {
	if order == "little" {
		return "binary.LittleEndian"
	}
	return "binary.BigEndian"
}

// emitDecodePrimitive emits the statements that decode a fixed-width
// primitive field at runtime offset off into v.<Name>, then advance off.
func emitDecodePrimitive(w *strings.Builder, typeName string, f analyze.PlannedField) {
	size := int(f.BitWidth / 8)
	fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", size, typeName, f.Name, size)
	switch f.GoType {
	case "byte", "uint8":
		fmt.Fprintf(w, "\tv.%s = b[off]\n", f.Name)
	case "int8":
		fmt.Fprintf(w, "\tv.%s = int8(b[off])\n", f.Name)
	case "uint16":
		fmt.Fprintf(w, "\tv.%s = %s.Uint16(b[off:])\n", f.Name, binPkg(f.ByteOrder))
	case "int16":
		fmt.Fprintf(w, "\tv.%s = int16(%s.Uint16(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
	case "uint32":
		fmt.Fprintf(w, "\tv.%s = %s.Uint32(b[off:])\n", f.Name, binPkg(f.ByteOrder))
	case "int32":
		fmt.Fprintf(w, "\tv.%s = int32(%s.Uint32(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
	case "float32":
		fmt.Fprintf(w, "\tv.%s = math.Float32frombits(%s.Uint32(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
	case "uint64":
		fmt.Fprintf(w, "\tv.%s = %s.Uint64(b[off:])\n", f.Name, binPkg(f.ByteOrder))
	case "int64":
		fmt.Fprintf(w, "\tv.%s = int64(%s.Uint64(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
	case "float64":
		fmt.Fprintf(w, "\tv.%s = math.Float64frombits(%s.Uint64(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
	default:
		fmt.Fprintf(w, "\tv.%s = %s(b[off])\n", f.Name, f.GoType)
	}
	fmt.Fprintf(w, "\toff += %d\n", size)
}

func emitEncodePrimitive(w *strings.Builder, f analyze.PlannedField) {
	pkg := appendPkg(f.ByteOrder)
	switch f.GoType {
	case "byte", "uint8":
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s)\n", f.Name)
	case "int8":
		fmt.Fprintf(w, "\tbuf = append(buf, byte(v.%s))\n", f.Name)
	case "uint16":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint16(buf, v.%s)\n", pkg, f.Name)
	case "int16":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint16(buf, uint16(v.%s))\n", pkg, f.Name)
	case "uint32":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, v.%s)\n", pkg, f.Name)
	case "int32":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, uint32(v.%s))\n", pkg, f.Name)
	case "float32":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, math.Float32bits(v.%s))\n", pkg, f.Name)
	case "uint64":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, v.%s)\n", pkg, f.Name)
	case "int64":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, uint64(v.%s))\n", pkg, f.Name)
	case "float64":
		fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, math.Float64bits(v.%s))\n", pkg, f.Name)
	default:
		fmt.Fprintf(w, "\tbuf = append(buf, byte(v.%s))\n", f.Name)
	}
}

func emitDecodeBool(w *strings.Builder, typeName string, f analyze.PlannedField) {
	fmt.Fprintf(w, "\tif len(b) < off+1 {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: 1, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
	fmt.Fprintf(w, "\tswitch b[off] {\n\tcase 0x00:\n\t\tv.%s = false\n\tcase 0x01:\n\t\tv.%s = true\n\tdefault:\n\t\treturn v, off, &bitwire.InvalidBooleanError{Type: %q, Field: %q, Value: b[off]}\n\t}\n", f.Name, f.Name, typeName, f.Name)
	w.WriteString("\toff++\n")
}

func emitEncodeBool(w *strings.Builder, f analyze.PlannedField) {
	fmt.Fprintf(w, "\tif v.%s {\n\t\tbuf = append(buf, 0x01)\n\t} else {\n\t\tbuf = append(buf, 0x00)\n\t}\n", f.Name)
}

func emitDecodeChar(w *strings.Builder, typeName string, f analyze.PlannedField) {
	fmt.Fprintf(w, "\tif len(b) < off+4 {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: 4, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
	fmt.Fprintf(w, "\t__cp := %s.Uint32(b[off:])\n", binPkg(f.ByteOrder))
	fmt.Fprintf(w, "\tif __cp > 0x10FFFF || (__cp >= 0xD800 && __cp <= 0xDFFF) {\n\t\treturn v, off, &bitwire.InvalidCharError{Type: %q, Field: %q, Value: __cp}\n\t}\n", typeName, f.Name)
	fmt.Fprintf(w, "\tv.%s = rune(__cp)\n", f.Name)
	w.WriteString("\toff += 4\n")
}

func emitEncodeChar(w *strings.Builder, f analyze.PlannedField) {
	fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, uint32(v.%s))\n", appendPkg(f.ByteOrder), f.Name)
}

// elemSizeBytes returns a fixed array's per-element wire width for
// primitives, bool, and rune. Aggregate elements are routed around
// emitDecodeFixedArray/emitEncodeFixedArray entirely, in generator.go;
// any other element type name (an enumeration, for one) is treated as
// one byte wide.
func elemSizeBytes(elemGoType string) int {
	switch elemGoType {
	case "byte", "uint8", "int8", "bool":
		return 1
	case "uint16", "int16":
		return 2
	case "uint32", "int32", "float32":
		return 4
	case "uint64", "int64", "float64":
		return 8
	case "rune":
		return 4
	default:
		return 1
	}
}

func emitDecodeFixedArray(w *strings.Builder, typeName string, f analyze.PlannedField, class classify.Classification) {
	n := class.ArrayLen
	elemSize := elemSizeBytes(f.ElemGoType)
	total := n * elemSize
	fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", total, typeName, f.Name, total)
	if elemSize == 1 {
		fmt.Fprintf(w, "\tfor __i := 0; __i < %d; __i++ {\n\t\tv.%s[__i] = %s(b[off])\n\t\toff++\n\t}\n", n, f.Name, f.ElemGoType)
		return
	}
	fmt.Fprintf(w, "\tfor __i := 0; __i < %d; __i++ {\n", n)
	switch elemSize {
	case 2:
		fmt.Fprintf(w, "\t\tv.%s[__i] = %s(%s.Uint16(b[off:]))\n", f.Name, f.ElemGoType, binPkg(f.ByteOrder))
	case 4:
		if f.ElemGoType == "float32" {
			fmt.Fprintf(w, "\t\tv.%s[__i] = math.Float32frombits(%s.Uint32(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
		} else {
			fmt.Fprintf(w, "\t\tv.%s[__i] = %s(%s.Uint32(b[off:]))\n", f.Name, f.ElemGoType, binPkg(f.ByteOrder))
		}
	case 8:
		if f.ElemGoType == "float64" {
			fmt.Fprintf(w, "\t\tv.%s[__i] = math.Float64frombits(%s.Uint64(b[off:]))\n", f.Name, binPkg(f.ByteOrder))
		} else {
			fmt.Fprintf(w, "\t\tv.%s[__i] = %s(%s.Uint64(b[off:]))\n", f.Name, f.ElemGoType, binPkg(f.ByteOrder))
		}
	}
	fmt.Fprintf(w, "\t\toff += %d\n\t}\n", elemSize)
}

func emitEncodeFixedArray(w *strings.Builder, f analyze.PlannedField) {
	elemSize := elemSizeBytes(f.ElemGoType)
	if elemSize == 1 {
		fmt.Fprintf(w, "\tfor __i := range v.%s {\n\t\tbuf = append(buf, byte(v.%s[__i]))\n\t}\n", f.Name, f.Name)
		return
	}
	pkg := appendPkg(f.ByteOrder)
	fmt.Fprintf(w, "\tfor __i := range v.%s {\n", f.Name)
	switch elemSize {
	case 2:
		fmt.Fprintf(w, "\t\tbuf = %s.AppendUint16(buf, uint16(v.%s[__i]))\n", pkg, f.Name)
	case 4:
		if f.ElemGoType == "float32" {
			fmt.Fprintf(w, "\t\tbuf = %s.AppendUint32(buf, math.Float32bits(v.%s[__i]))\n", pkg, f.Name)
		} else {
			fmt.Fprintf(w, "\t\tbuf = %s.AppendUint32(buf, uint32(v.%s[__i]))\n", pkg, f.Name)
		}
	case 8:
		if f.ElemGoType == "float64" {
			fmt.Fprintf(w, "\t\tbuf = %s.AppendUint64(buf, math.Float64bits(v.%s[__i]))\n", pkg, f.Name)
		} else {
			fmt.Fprintf(w, "\t\tbuf = %s.AppendUint64(buf, uint64(v.%s[__i]))\n", pkg, f.Name)
		}
	}
	w.WriteString("\t}\n")
}

// emitDecodeVariableBytes emits decoding for a []byte field (the emitted
// code always assigns a []byte) governed by size=, size-from=, size-expr=, until=,
// after=, or an unbounded tail. isLast reports whether f is the last
// field of its aggregate, which governs marker-until's behavior when
// the marker is absent (spec.md §4.5).
func emitDecodeVariableBytes(w *strings.Builder, typeName string, f analyze.PlannedField, isLast bool) {
	switch {
	case f.BitWidth > 0:
		n := int(f.BitWidth / 8)
		fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", n, typeName, f.Name, n)
		fmt.Fprintf(w, "\tv.%s = append([]byte(nil), b[off:off+%d]...)\n", f.Name, n)
		fmt.Fprintf(w, "\toff += %d\n", n)

	case f.SizeFromPath != "":
		fmt.Fprintf(w, "\t__n := int(v.%s)\n", f.SizeFromPath)
		fmt.Fprintf(w, "\tif len(b) < off+__n {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: __n, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\tv.%s = append([]byte(nil), b[off:off+__n]...)\n", f.Name)
		w.WriteString("\toff += __n\n")

	case f.SizeExpr != nil:
		emitSizeExprBound(w, f.SizeExpr, "__n", typeName, f.Name)
		fmt.Fprintf(w, "\tif __n < 0 {\n\t\treturn v, off, &bitwire.SizeExprInvalidError{Type: %q, Field: %q, Reason: \"negative length\"}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\tif len(b) < off+__n {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: __n, Actual: len(b) - off}\n\t}\n", typeName, f.Name)
		fmt.Fprintf(w, "\tv.%s = append([]byte(nil), b[off:off+__n]...)\n", f.Name)
		w.WriteString("\toff += __n\n")

	case f.HasMarkerUntil:
		fmt.Fprintf(w, "\t__idx := -1\n\tfor __i := off; __i < len(b); __i++ {\n\t\tif b[__i] == 0x%02x {\n\t\t\t__idx = __i\n\t\t\tbreak\n\t\t}\n\t}\n", f.MarkerUntil)
		if isLast {
			fmt.Fprintf(w, "\tif __idx < 0 {\n\t\tv.%s = append([]byte(nil), b[off:]...)\n\t\toff = len(b)\n\t} else {\n\t\tv.%s = append([]byte(nil), b[off:__idx]...)\n\t\toff = __idx + 1\n\t}\n", f.Name, f.Name)
		} else {
			fmt.Fprintf(w, "\tif __idx < 0 {\n\t\treturn v, off, &bitwire.MarkerNotFoundError{Type: %q, Field: %q, Marker: 0x%02x}\n\t}\n", typeName, f.Name, f.MarkerUntil)
			fmt.Fprintf(w, "\tv.%s = append([]byte(nil), b[off:__idx]...)\n", f.Name)
			w.WriteString("\toff = __idx + 1\n")
		}

	case f.HasMarkerAfter:
		// Skip input up to and including the marker, then the field
		// consumes the remainder; if the marker never appears, the
		// field is empty rather than an error (spec.md §4.5).
		fmt.Fprintf(w, "\t__idx := -1\n\tfor __i := off; __i < len(b); __i++ {\n\t\tif b[__i] == 0x%02x {\n\t\t\t__idx = __i\n\t\t\tbreak\n\t\t}\n\t}\n", f.MarkerAfter)
		fmt.Fprintf(w, "\tif __idx < 0 {\n\t\tv.%s = nil\n\t} else {\n\t\tv.%s = append([]byte(nil), b[__idx+1:]...)\n\t\toff = len(b)\n\t}\n", f.Name, f.Name)

	case f.IsUnboundedTail:
		fmt.Fprintf(w, "\tv.%s = append([]byte(nil), b[off:]...)\n", f.Name)
		w.WriteString("\toff = len(b)\n")
	}
}

func emitEncodeVariableBytes(w *strings.Builder, typeName string, f analyze.PlannedField) {
	switch {
	case f.SizeFromPath != "":
		// Encode trusts v.<SizeFromPath> to already equal len(v.<Name>)
		// and writes the payload as is, with no error. On decode, a payload
		// shorter than the length field surfaces as InsufficientDataError;
		// a longer one is not detected, since decode reads only the
		// declared length.
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s...)\n", f.Name)
	case f.HasMarkerUntil:
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s...)\n\tbuf = append(buf, 0x%02x)\n", f.Name, f.MarkerUntil)
	case f.HasMarkerAfter:
		// The marker is prefixed to the content on encode (spec.md §6.1).
		fmt.Fprintf(w, "\tbuf = append(buf, 0x%02x)\n\tbuf = append(buf, v.%s...)\n", f.MarkerAfter, f.Name)
	default:
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s...)\n", f.Name)
	}
}

// emitSizeExprBound emits statements that evaluate e into a new int
// variable named dst, returning a SizeExprInvalidError attributed to
// typeName.fieldName instead of letting a division or modulus node
// panic on a runtime-zero divisor (spec.md §4.2/§7).
func emitSizeExprBound(w *strings.Builder, e *tag.Expr, dst, typeName, fieldName string) {
	errVar := "__sizeExprErr_" + fieldName
	fmt.Fprintf(w, "\tvar %s error\n", errVar)
	fmt.Fprintf(w, "\t%s := int(%s)\n", dst, renderExprChecked(e, "v.", errVar, typeName, fieldName))
	fmt.Fprintf(w, "\tif %s != nil {\n\t\treturn v, off, %s\n\t}\n", errVar, errVar)
}

// renderExprChecked renders a parsed size-expr tree as a Go int64
// expression, prefixing every field reference with the given receiver
// access prefix (e.g. "v."). A division or modulus node assigns a
// SizeExprInvalidError to errVar and evaluates to 0 instead of emitting
// a raw Go / or % that panics when the divisor is zero at runtime.
func renderExprChecked(e *tag.Expr, prefix, errVar, typeName, fieldName string) string {
	switch e.Kind {
	case tag.ExprLiteral:
		return fmt.Sprintf("%d", e.Literal)
	case tag.ExprFieldRef:
		parts := make([]string, len(e.Path))
		for i, seg := range e.Path {
			if i == 0 {
				parts[i] = prefix + seg
			} else {
				parts[i] = seg
			}
		}
		return strings.Join(parts, ".")
	case tag.ExprBinary:
		left := renderExprChecked(e.Left, prefix, errVar, typeName, fieldName)
		right := renderExprChecked(e.Right, prefix, errVar, typeName, fieldName)
		if e.Op == tag.OpDiv || e.Op == tag.OpMod {
			return fmt.Sprintf("(func() int64 { __l, __r := int64(%s), int64(%s); if __r == 0 { %s = &bitwire.SizeExprInvalidError{Type: %q, Field: %q, Reason: \"division by zero\"}; return 0 }; return __l %s __r }())",
				left, right, errVar, typeName, fieldName, e.Op)
		}
		return fmt.Sprintf("(int64(%s) %s int64(%s))", left, right, e.Op)
	case tag.ExprConditional:
		return fmt.Sprintf("(func() int64 { if int64(%s) %s int64(%s) { return int64(%s) }; return int64(%s) }())",
			renderExprChecked(e.Cond.Left, prefix, errVar, typeName, fieldName), e.Cond.Op, renderExprChecked(e.Cond.Right, prefix, errVar, typeName, fieldName),
			renderExprChecked(e.Then, prefix, errVar, typeName, fieldName), renderExprChecked(e.Else, prefix, errVar, typeName, fieldName))
	default:
		return "0"
	}
}

