// fastpath.go emits the §4.4.5 fast fixed-layout encoder: when an
// aggregate has no bit-packed fields, no variable-length fields, and a
// total size of at most 256 bytes, the generator additionally emits
// EncodeBEFixed/EncodeLEFixed methods that write directly into a stack
// array instead of growing a slice. Grounded on the teacher's
// generateFixedOp family (alexhholmes-layout/internal/codegen/
// generator.go), which always writes into a single preallocated buffer;
// this reuses that shape for the subset of aggregates where it applies
// without a bounds check per field, rather than the teacher's
// always-on fixed-offset buffer.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
)

// GenerateFixedEncoder emits one EncodeBEFixed/EncodeLEFixed method that
// writes p's fields directly into a [N]byte return value.
func GenerateFixedEncoder(p *analyze.Plan, suffix string) (string, error) {
	n := p.TotalBytes()
	var w strings.Builder
	fmt.Fprintf(&w, "// Encode%sFixed encodes v into a fixed-size array with no bounds checks,\n", suffix)
	fmt.Fprintf(&w, "// available because %s has no bit-packed or variable-length fields.\n", p.TypeName)
	fmt.Fprintf(&w, "func (v %s) Encode%sFixed() [%d]byte {\n\tvar buf [%d]byte\n", p.TypeName, suffix, n, n)

	off := 0
	for _, f := range p.Fields {
		size := int(f.BitWidth / 8)
		if err := emitFixedField(&w, f, off); err != nil {
			return "", err
		}
		off += size
	}
	w.WriteString("\treturn buf\n}\n")
	return w.String(), nil
}

func emitFixedField(w *strings.Builder, f analyze.PlannedField, off int) error {
	order := binPkgArray(f.ByteOrder)
	switch f.Kind {
	case classify.KindEnum, classify.KindFlagEnum:
		emitFixedScalar(w, order, f.Underlying, scalarSourceExpr(f), off, int(f.BitWidth/8))
		return nil
	case classify.KindBool:
		fmt.Fprintf(w, "\tif v.%s {\n\t\tbuf[%d] = 0x01\n\t}\n", f.Name, off)
		return nil
	case classify.KindChar:
		fmt.Fprintf(w, "\t%s.PutUint32(buf[%d:], uint32(v.%s))\n", order, off, f.Name)
		return nil
	case classify.KindArray:
		elemSize := elemSizeBytes(f.ElemGoType)
		if elemSize == 1 {
			fmt.Fprintf(w, "\tcopy(buf[%d:], v.%s[:])\n", off, f.Name)
			return nil
		}
		fmt.Fprintf(w, "\tfor __i, __off := 0, %d; __i < %d; __i, __off = __i+1, __off+%d {\n", off, f.ArrayLen, elemSize)
		emitFixedScalarAt(w, order, f.ElemGoType, fmt.Sprintf("v.%s[__i]", f.Name), "__off", elemSize)
		w.WriteString("\t}\n")
		return nil
	case classify.KindAggregate:
		fmt.Fprintf(w, "\tcopy(buf[%d:], v.%s.%s())\n", off, f.Name, encodeMethodName(f.ByteOrder))
		return nil
	case classify.KindSlice:
		// Only a size=N slice reaches here: size-from/size-expr/marker/
		// unbounded fields all set HasVariableLen, which FixedEligible
		// already excludes.
		fmt.Fprintf(w, "\tcopy(buf[%d:], v.%s)\n", off, f.Name)
		return nil
	case classify.KindOptional:
		emitFixedOptional(w, order, f, off)
		return nil
	case classify.KindText:
		// Only a size=N text field reaches here; size-from/size-expr/
		// marker/unbounded text all set HasVariableLen, excluded above.
		fmt.Fprintf(w, "\tcopy(buf[%d:], v.%s)\n", off, f.Name)
		return nil
	}

	switch f.GoType {
	case "byte", "uint8":
		fmt.Fprintf(w, "\tbuf[%d] = v.%s\n", off, f.Name)
	case "int8":
		fmt.Fprintf(w, "\tbuf[%d] = byte(v.%s)\n", off, f.Name)
	default:
		emitFixedScalar(w, order, f.GoType, fmt.Sprintf("v.%s", f.Name), off, int(f.BitWidth/8))
	}
	return nil
}

// emitFixedScalar emits the PutUintN/PutFloat call for a scalar whose
// value is already a valueExpr of the given underlying/primitive type.
func emitFixedScalar(w *strings.Builder, order, goType, valueExpr string, off, size int) {
	emitFixedScalarAt(w, order, goType, valueExpr, fmt.Sprintf("%d", off), size)
}

func emitFixedScalarAt(w *strings.Builder, order, goType, valueExpr, offExpr string, size int) {
	switch size {
	case 1:
		fmt.Fprintf(w, "\t\tbuf[%s] = byte(%s)\n", offExpr, valueExpr)
	case 2:
		fmt.Fprintf(w, "\t\t%s.PutUint16(buf[%s:], uint16(%s))\n", order, offExpr, valueExpr)
	case 4:
		if goType == "float32" {
			fmt.Fprintf(w, "\t\t%s.PutUint32(buf[%s:], math.Float32bits(%s))\n", order, offExpr, valueExpr)
		} else {
			fmt.Fprintf(w, "\t\t%s.PutUint32(buf[%s:], uint32(%s))\n", order, offExpr, valueExpr)
		}
	default:
		if goType == "float64" {
			fmt.Fprintf(w, "\t\t%s.PutUint64(buf[%s:], math.Float64bits(%s))\n", order, offExpr, valueExpr)
		} else {
			fmt.Fprintf(w, "\t\t%s.PutUint64(buf[%s:], uint64(%s))\n", order, offExpr, valueExpr)
		}
	}
}

func binPkgArray(order string) string {
	if order == "little" {
		return "binary.LittleEndian"
	}
	return "binary.BigEndian"
}
