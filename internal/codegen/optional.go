// optional.go emits the decode/encode source fragments for *T optional-
// primitive fields (spec.md §3.2/S3): a 1-byte presence tag followed by
// the wrapped element's fixed-width storage, written and read
// unconditionally so absent and present values serialize to the same
// total length and Some(zero) disambiguates from None. No teacher
// analogue — grounded on spec.md §8's S3 seed scenario directly.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
)

func emitDecodeOptional(w *strings.Builder, typeName string, f analyze.PlannedField) {
	elemSize := elemSizeBytes(f.ElemGoType)
	total := 1 + elemSize
	fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", total, typeName, f.Name, total)

	present := "__present_" + f.Name
	fmt.Fprintf(w, "\t%s := b[off] != 0\n\toff++\n", present)

	val := "__oval_" + f.Name
	emitOptionalElemDecode(w, typeName, f, val)

	fmt.Fprintf(w, "\tif %s {\n\t\tv.%s = &%s\n\t} else {\n\t\tv.%s = nil\n\t}\n", present, f.Name, val, f.Name)
}

// emitOptionalElemDecode reads the wrapped element's bytes into a new
// local named dst, validating it exactly as the non-optional decoder for
// the same element kind would, then advances off past it.
func emitOptionalElemDecode(w *strings.Builder, typeName string, f analyze.PlannedField, dst string) {
	elemSize := elemSizeBytes(f.ElemGoType)
	switch f.ElemKind {
	case classify.KindBool:
		fmt.Fprintf(w, "\tvar %s bool\n\tswitch b[off] {\n\tcase 0x00:\n\t\t%s = false\n\tcase 0x01:\n\t\t%s = true\n\tdefault:\n\t\treturn v, off, &bitwire.InvalidBooleanError{Type: %q, Field: %q, Value: b[off]}\n\t}\n", dst, dst, dst, typeName, f.Name)
	case classify.KindChar:
		cp := "__ocp_" + f.Name
		fmt.Fprintf(w, "\t%s := %s.Uint32(b[off:])\n", cp, binPkg(f.ByteOrder))
		fmt.Fprintf(w, "\tif %s > 0x10FFFF || (%s >= 0xD800 && %s <= 0xDFFF) {\n\t\treturn v, off, &bitwire.InvalidCharError{Type: %q, Field: %q, Value: %s}\n\t}\n", cp, cp, cp, typeName, f.Name, cp)
		fmt.Fprintf(w, "\t%s := rune(%s)\n", dst, cp)
	default:
		switch elemSize {
		case 1:
			fmt.Fprintf(w, "\t%s := %s(b[off])\n", dst, f.ElemGoType)
		case 2:
			fmt.Fprintf(w, "\t%s := %s(%s.Uint16(b[off:]))\n", dst, f.ElemGoType, binPkg(f.ByteOrder))
		case 4:
			if f.ElemGoType == "float32" {
				fmt.Fprintf(w, "\t%s := math.Float32frombits(%s.Uint32(b[off:]))\n", dst, binPkg(f.ByteOrder))
			} else {
				fmt.Fprintf(w, "\t%s := %s(%s.Uint32(b[off:]))\n", dst, f.ElemGoType, binPkg(f.ByteOrder))
			}
		default:
			if f.ElemGoType == "float64" {
				fmt.Fprintf(w, "\t%s := math.Float64frombits(%s.Uint64(b[off:]))\n", dst, binPkg(f.ByteOrder))
			} else {
				fmt.Fprintf(w, "\t%s := %s(%s.Uint64(b[off:]))\n", dst, f.ElemGoType, binPkg(f.ByteOrder))
			}
		}
	}
	fmt.Fprintf(w, "\toff += %d\n", elemSize)
}

// emitFixedOptional is emitEncodeOptional's fixed-buffer counterpart,
// used by fastpath.go's no-bounds-check encoder.
func emitFixedOptional(w *strings.Builder, order string, f analyze.PlannedField, off int) {
	fmt.Fprintf(w, "\tif v.%s != nil {\n\t\tbuf[%d] = 0x01\n\t}\n", f.Name, off)

	val := "__oval_" + f.Name
	fmt.Fprintf(w, "\tvar %s %s\n\tif v.%s != nil {\n\t\t%s = *v.%s\n\t}\n", val, f.ElemGoType, f.Name, val, f.Name)

	elemOff := off + 1
	switch f.ElemKind {
	case classify.KindBool:
		fmt.Fprintf(w, "\tif %s {\n\t\tbuf[%d] = 0x01\n\t}\n", val, elemOff)
	case classify.KindChar:
		fmt.Fprintf(w, "\t%s.PutUint32(buf[%d:], uint32(%s))\n", order, elemOff, val)
	default:
		emitFixedScalarAt(w, order, f.ElemGoType, val, fmt.Sprintf("%d", elemOff), elemSizeBytes(f.ElemGoType))
	}
}

func emitEncodeOptional(w *strings.Builder, f analyze.PlannedField) {
	fmt.Fprintf(w, "\tif v.%s != nil {\n\t\tbuf = append(buf, 0x01)\n\t} else {\n\t\tbuf = append(buf, 0x00)\n\t}\n", f.Name)

	val := "__oval_" + f.Name
	fmt.Fprintf(w, "\tvar %s %s\n\tif v.%s != nil {\n\t\t%s = *v.%s\n\t}\n", val, f.ElemGoType, f.Name, val, f.Name)

	pkg := appendPkg(f.ByteOrder)
	switch f.ElemKind {
	case classify.KindBool:
		fmt.Fprintf(w, "\tif %s {\n\t\tbuf = append(buf, 0x01)\n\t} else {\n\t\tbuf = append(buf, 0x00)\n\t}\n", val)
	case classify.KindChar:
		fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, uint32(%s))\n", pkg, val)
	default:
		switch elemSizeBytes(f.ElemGoType) {
		case 1:
			fmt.Fprintf(w, "\tbuf = append(buf, byte(%s))\n", val)
		case 2:
			fmt.Fprintf(w, "\tbuf = %s.AppendUint16(buf, uint16(%s))\n", pkg, val)
		case 4:
			if f.ElemGoType == "float32" {
				fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, math.Float32bits(%s))\n", pkg, val)
			} else {
				fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, uint32(%s))\n", pkg, val)
			}
		default:
			if f.ElemGoType == "float64" {
				fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, math.Float64bits(%s))\n", pkg, val)
			} else {
				fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, uint64(%s))\n", pkg, val)
			}
		}
	}
}
