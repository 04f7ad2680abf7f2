// generator.go is the Assembler (spec.md §4.4-4.6): given a resolved
// analyze.Plan, it emits the Go source of every method spec.md §6 binds
// to the aggregate's type. Grounded on the teacher's own generator.go
// Generator, whose Generate()/GenerateMarshal()/GenerateUnmarshal()
// triad this keeps, generalized field by field: the teacher's
// generateFixedOp table (offset, type) becomes a classify.Kind dispatch
// (bit-packed run, primitive, variable-length, nested aggregate)
// because a field's wire position is no longer known until a runtime
// cursor resolves it.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
)

// Assembler drives codegen for one aggregate. IsAggregateType reports
// whether a field's element/Go type names another generated aggregate,
// needed because such a field decodes/encodes by delegating to that
// type's own methods rather than through the primitive/container path.
type Assembler struct {
	Plan            *analyze.Plan
	IsAggregateType map[string]bool
}

// Generate returns the full method set for the aggregate: SizeInBytes,
// DecodeBE/DecodeLE, EncodeBE/EncodeLE, EncodeBEInto/EncodeLEInto, the
// fast fixed-layout encoder pair when eligible, and SchemaHash.
func (a *Assembler) Generate() (string, error) {
	var out strings.Builder

	bePlan, err := a.Plan.ForByteOrder("big")
	if err != nil {
		return "", err
	}
	lePlan, err := a.Plan.ForByteOrder("little")
	if err != nil {
		return "", err
	}

	out.WriteString(a.generateSizeInBytes())
	out.WriteString("\n")

	for _, spec := range []struct {
		suffix string
		plan   *analyze.Plan
	}{{"BE", bePlan}, {"LE", lePlan}} {
		decodeFn, err := a.generateDecode(spec.suffix, spec.plan)
		if err != nil {
			return "", err
		}
		out.WriteString(decodeFn)
		out.WriteString("\n")

		encodeFn, err := a.generateEncode(spec.suffix, spec.plan)
		if err != nil {
			return "", err
		}
		out.WriteString(encodeFn)
		out.WriteString("\n")

		out.WriteString(a.generateEncodeInto(spec.suffix))
		out.WriteString("\n")

		if a.Plan.FixedEligible() {
			fixedFn, err := GenerateFixedEncoder(spec.plan, spec.suffix)
			if err != nil {
				return "", err
			}
			out.WriteString(fixedFn)
			out.WriteString("\n")
		}
	}

	out.WriteString(GenerateSchemaHashMethod(a.Plan))
	return out.String(), nil
}

func (a *Assembler) generateSizeInBytes() string {
	var w strings.Builder
	fmt.Fprintf(&w, "// SizeInBytes returns the number of bytes v occupies on the wire.\n")
	fmt.Fprintf(&w, "func (v %s) SizeInBytes() int {\n", a.Plan.TypeName)
	if !a.Plan.HasVariableLen && !a.Plan.HasUnboundedTail {
		fmt.Fprintf(&w, "\treturn %d\n}\n", a.Plan.TotalBytes())
		return w.String()
	}
	w.WriteString("\treturn len(v.EncodeBE())\n}\n")
	return w.String()
}

func (a *Assembler) generateDecode(suffix string, p *analyze.Plan) (string, error) {
	var w strings.Builder
	fmt.Fprintf(&w, "// Decode%s decodes a %s from b, returning the number of bytes consumed.\n", suffix, p.TypeName)
	fmt.Fprintf(&w, "func Decode%s%s(b []byte) (%s, int, error) {\n\tvar v %s\n", suffix, p.TypeName, p.TypeName, p.TypeName)
	fmt.Fprintf(&w, "\tif len(b) == 0 {\n\t\treturn v, 0, &bitwire.EmptyBufferError{Type: %q}\n\t}\n", p.TypeName)
	w.WriteString("\toff := 0\n")

	if err := a.emitDecodeFields(&w, p); err != nil {
		return "", err
	}

	w.WriteString("\treturn v, off, nil\n}\n")
	return w.String(), nil
}

func (a *Assembler) emitDecodeFields(w *strings.Builder, p *analyze.Plan) error {
	fields := p.Fields
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if f.IsBitPacked {
			j := i
			for j < len(fields) && fields[j].IsBitPacked {
				j++
			}
			run := fields[i:j]
			if err := a.emitDecodeBitRun(w, p.TypeName, run); err != nil {
				return err
			}
			i = j - 1
			continue
		}
		isLast := i == len(fields)-1
		if err := a.emitDecodeOneField(w, p.TypeName, f, isLast); err != nil {
			return err
		}
	}
	return nil
}

// emitDecodeBitRun decodes one contiguous run of bit-packed fields, each
// against the same run-relative base offset (their BitOffset already
// resets to 0 at the start of the run, per analyze.Analyze's dual-cursor
// bookkeeping), then advances off by the run's byte span exactly once.
func (a *Assembler) emitDecodeBitRun(w *strings.Builder, typeName string, run []analyze.PlannedField) error {
	lastByte := -1
	for _, f := range run {
		last, err := lastBitPackedByte(f)
		if err != nil {
			return err
		}
		if last > lastByte {
			lastByte = last
		}
	}
	runBytes := lastByte + 1
	fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", runBytes, typeName, run[0].Name, runBytes)
	for _, f := range run {
		dst := "__bf_" + f.Name
		stmt, err := decodeBitField(f, "b", "off", dst)
		if err != nil {
			return err
		}
		w.WriteString(stmt)
		assignDecodedScalar(w, f, dst)
	}
	fmt.Fprintf(w, "\toff += %d\n", runBytes)
	return nil
}

// assignDecodedScalar converts a decoded uint64 accumulator into the
// field's declared Go type, routing ordinary enumerations through
// FromDiscriminant so an undeclared discriminant is rejected per I6/I7.
// A signed bit-packed field is sign-extended from bit BitWidth-1 before
// the narrowing cast, per spec.md §4.4.2 step 4 — src otherwise holds a
// zero-extended unsigned value, so e.g. a 4-bit field holding -1 would
// decode as 15 instead of -1.
func assignDecodedScalar(w *strings.Builder, f analyze.PlannedField, src string) {
	switch f.Kind {
	case classify.KindEnum:
		fmt.Fprintf(w, "\t__ev_%s, __everr_%s := FromDiscriminant%s(%s(%s))\n\tif __everr_%s != nil {\n\t\treturn v, off, __everr_%s\n\t}\n\tv.%s = __ev_%s\n",
			f.Name, f.Name, f.GoType, f.Underlying, src, f.Name, f.Name, f.Name, f.Name)
	case classify.KindFlagEnum:
		fmt.Fprintf(w, "\tv.%s = %s(%s(%s))\n", f.Name, f.GoType, f.Underlying, src)
	case classify.KindBool:
		fmt.Fprintf(w, "\tv.%s = %s != 0\n", f.Name, src)
	default:
		if isSignedIntType(f.GoType) && f.IsBitPacked && f.BitWidth < 64 {
			fmt.Fprintf(w, "\tif %s&(1<<%d) != 0 {\n\t\t%s |= ^uint64(0) << %d\n\t}\n", src, f.BitWidth-1, src, f.BitWidth)
			fmt.Fprintf(w, "\tv.%s = %s(int64(%s))\n", f.Name, f.GoType, src)
		} else {
			fmt.Fprintf(w, "\tv.%s = %s(%s)\n", f.Name, f.GoType, src)
		}
	}
}

func isSignedIntType(goType string) bool {
	switch goType {
	case "int", "int8", "int16", "int32", "int64":
		return true
	default:
		return false
	}
}

func (a *Assembler) emitDecodeOneField(w *strings.Builder, typeName string, f analyze.PlannedField, isLast bool) error {
	switch f.Kind {
	case classify.KindPrimitive:
		emitDecodePrimitive(w, typeName, f)
	case classify.KindBool:
		emitDecodeBool(w, typeName, f)
	case classify.KindChar:
		emitDecodeChar(w, typeName, f)
	case classify.KindEnum, classify.KindFlagEnum:
		emitDecodeEnumField(w, typeName, f)
	case classify.KindArray:
		if a.isAggregateElem(f.ElemGoType) {
			a.emitDecodeArrayOfAggregate(w, f)
		} else {
			emitDecodeFixedArray(w, typeName, f, classify.Classification{ArrayLen: f.ArrayLen})
		}
	case classify.KindSlice:
		if a.isAggregateElem(f.ElemGoType) {
			a.emitDecodeSliceOfAggregate(w, typeName, f)
		} else {
			emitDecodeVariableBytes(w, typeName, f, isLast)
		}
	case classify.KindAggregate:
		emitDecodeNestedAggregate(w, f)
	case classify.KindOptional:
		emitDecodeOptional(w, typeName, f)
	case classify.KindText:
		emitDecodeText(w, typeName, f, isLast)
	default:
		return fmt.Errorf("%s.%s: no decoder for kind %s", typeName, f.Name, f.Kind)
	}
	return nil
}

func (a *Assembler) isAggregateElem(elemGoType string) bool {
	return elemGoType != "" && a.IsAggregateType[elemGoType]
}

func emitDecodeEnumField(w *strings.Builder, typeName string, f analyze.PlannedField) {
	size := int(f.BitWidth / 8)
	fmt.Fprintf(w, "\tif len(b) < off+%d {\n\t\treturn v, off, &bitwire.InsufficientDataError{Type: %q, Field: %q, Expected: %d, Actual: len(b) - off}\n\t}\n", size, typeName, f.Name, size)
	raw := "__raw_" + f.Name
	switch size {
	case 1:
		fmt.Fprintf(w, "\t%s := uint64(b[off])\n", raw)
	case 2:
		fmt.Fprintf(w, "\t%s := uint64(%s.Uint16(b[off:]))\n", raw, binPkg(f.ByteOrder))
	case 4:
		fmt.Fprintf(w, "\t%s := uint64(%s.Uint32(b[off:]))\n", raw, binPkg(f.ByteOrder))
	default:
		fmt.Fprintf(w, "\t%s := %s.Uint64(b[off:])\n", raw, binPkg(f.ByteOrder))
	}
	assignDecodedScalar(w, f, raw)
	fmt.Fprintf(w, "\toff += %d\n", size)
}

func emitDecodeNestedAggregate(w *strings.Builder, f analyze.PlannedField) {
	call := decodeCallName(f.GoType, f.ByteOrder)
	fmt.Fprintf(w, "\t__nv_%s, __nn_%s, __nerr_%s := %s(b[off:])\n\tif __nerr_%s != nil {\n\t\treturn v, off, __nerr_%s\n\t}\n\tv.%s = __nv_%s\n\toff += __nn_%s\n",
		f.Name, f.Name, f.Name, call, f.Name, f.Name, f.Name, f.Name, f.Name)
}

func decodeCallName(goType, order string) string {
	if order == "little" {
		return "DecodeLE" + goType
	}
	return "DecodeBE" + goType
}

func encodeMethodName(order string) string {
	if order == "little" {
		return "EncodeLE"
	}
	return "EncodeBE"
}

func (a *Assembler) emitDecodeArrayOfAggregate(w *strings.Builder, f analyze.PlannedField) {
	call := decodeCallName(f.ElemGoType, f.ByteOrder)
	fmt.Fprintf(w, "\tfor __i := 0; __i < %d; __i++ {\n\t\t__ev, __en, __eerr := %s(b[off:])\n\t\tif __eerr != nil {\n\t\t\treturn v, off, __eerr\n\t\t}\n\t\tv.%s[__i] = __ev\n\t\toff += __en\n\t}\n", f.ArrayLen, call, f.Name)
}

func (a *Assembler) emitDecodeSliceOfAggregate(w *strings.Builder, typeName string, f analyze.PlannedField) {
	call := decodeCallName(f.ElemGoType, f.ByteOrder)
	switch {
	case f.SizeFromPath != "":
		fmt.Fprintf(w, "\t__cnt_%s := int(v.%s)\n", f.Name, f.SizeFromPath)
	case f.SizeExpr != nil:
		emitSizeExprBound(w, f.SizeExpr, "__cnt_"+f.Name, typeName, f.Name)
	default:
		fmt.Fprintf(w, "\t__cnt_%s := -1\n", f.Name)
	}
	fmt.Fprintf(w, "\tv.%s = nil\n\tfor __i := 0; __cnt_%s < 0 || __i < __cnt_%s; __i++ {\n", f.Name, f.Name, f.Name)
	fmt.Fprintf(w, "\t\tif __cnt_%s < 0 && off >= len(b) {\n\t\t\tbreak\n\t\t}\n", f.Name)
	fmt.Fprintf(w, "\t\t__ev, __en, __eerr := %s(b[off:])\n\t\tif __eerr != nil {\n\t\t\treturn v, off, __eerr\n\t\t}\n\t\tv.%s = append(v.%s, __ev)\n\t\toff += __en\n\t}\n", call, f.Name, f.Name)
}

func (a *Assembler) generateEncode(suffix string, p *analyze.Plan) (string, error) {
	var w strings.Builder
	fmt.Fprintf(&w, "// Encode%s encodes v, appending to a newly allocated buffer.\n", suffix)
	fmt.Fprintf(&w, "func (v %s) Encode%s() []byte {\n\tvar buf []byte\n", p.TypeName, suffix)

	if err := a.emitEncodeFields(&w, p); err != nil {
		return "", err
	}

	w.WriteString("\treturn buf\n}\n")
	return w.String(), nil
}

func (a *Assembler) emitEncodeFields(w *strings.Builder, p *analyze.Plan) error {
	fields := p.Fields
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if f.IsBitPacked {
			j := i
			for j < len(fields) && fields[j].IsBitPacked {
				j++
			}
			run := fields[i:j]
			if err := a.emitEncodeBitRun(w, run); err != nil {
				return err
			}
			i = j - 1
			continue
		}
		if err := a.emitEncodeOneField(w, p.TypeName, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) emitEncodeBitRun(w *strings.Builder, run []analyze.PlannedField) error {
	lastByte := -1
	for _, f := range run {
		last, err := lastBitPackedByte(f)
		if err != nil {
			return err
		}
		if last > lastByte {
			lastByte = last
		}
	}
	runBytes := lastByte + 1
	runOff := "__runOff_" + run[0].Name
	fmt.Fprintf(w, "\t%s := len(buf)\n\tbuf = append(buf, make([]byte, %d)...)\n", runOff, runBytes)
	for _, f := range run {
		src := scalarSourceExpr(f)
		stmt, err := encodeBitField(f, "buf", runOff, src, "__ev_"+f.Name)
		if err != nil {
			return err
		}
		w.WriteString(stmt)
	}
	return nil
}

// scalarSourceExpr renders a field's value as a uint64-convertible Go
// expression for encodeBitField. Ordinary enums route through
// Discriminant(); flag enums are already numeric-shaped under their
// declared underlying type, so a direct conversion suffices.
func scalarSourceExpr(f analyze.PlannedField) string {
	switch f.Kind {
	case classify.KindEnum:
		return fmt.Sprintf("v.%s.Discriminant()", f.Name)
	case classify.KindFlagEnum:
		return fmt.Sprintf("v.%s", f.Name)
	case classify.KindBool:
		return fmt.Sprintf("(func() uint64 { if v.%s { return 1 }; return 0 }())", f.Name)
	default:
		return fmt.Sprintf("v.%s", f.Name)
	}
}

func (a *Assembler) emitEncodeOneField(w *strings.Builder, typeName string, f analyze.PlannedField) error {
	switch f.Kind {
	case classify.KindPrimitive:
		emitEncodePrimitive(w, f)
	case classify.KindBool:
		emitEncodeBool(w, f)
	case classify.KindChar:
		emitEncodeChar(w, f)
	case classify.KindEnum, classify.KindFlagEnum:
		emitEncodeEnumField(w, f)
	case classify.KindArray:
		if a.isAggregateElem(f.ElemGoType) {
			fmt.Fprintf(w, "\tfor __i := range v.%s {\n\t\tbuf = append(buf, v.%s[__i].%s()...)\n\t}\n", f.Name, f.Name, encodeMethodName(f.ByteOrder))
		} else {
			emitEncodeFixedArray(w, f)
		}
	case classify.KindSlice:
		if a.isAggregateElem(f.ElemGoType) {
			fmt.Fprintf(w, "\tfor __i := range v.%s {\n\t\tbuf = append(buf, v.%s[__i].%s()...)\n\t}\n", f.Name, f.Name, encodeMethodName(f.ByteOrder))
		} else {
			emitEncodeVariableBytes(w, typeName, f)
		}
	case classify.KindAggregate:
		fmt.Fprintf(w, "\tbuf = append(buf, v.%s.%s()...)\n", f.Name, encodeMethodName(f.ByteOrder))
	case classify.KindOptional:
		emitEncodeOptional(w, f)
	case classify.KindText:
		emitEncodeText(w, f)
	default:
		return fmt.Errorf("%s.%s: no encoder for kind %s", typeName, f.Name, f.Kind)
	}
	return nil
}

func emitEncodeEnumField(w *strings.Builder, f analyze.PlannedField) {
	size := int(f.BitWidth / 8)
	src := scalarSourceExpr(f)
	switch size {
	case 1:
		fmt.Fprintf(w, "\tbuf = append(buf, byte(%s))\n", src)
	case 2:
		fmt.Fprintf(w, "\tbuf = %s.AppendUint16(buf, uint16(%s))\n", appendPkg(f.ByteOrder), src)
	case 4:
		fmt.Fprintf(w, "\tbuf = %s.AppendUint32(buf, uint32(%s))\n", appendPkg(f.ByteOrder), src)
	default:
		fmt.Fprintf(w, "\tbuf = %s.AppendUint64(buf, uint64(%s))\n", appendPkg(f.ByteOrder), src)
	}
}

func appendPkg(order string) string {
	if order == "little" {
		return "binary.LittleEndian"
	}
	return "binary.BigEndian"
}

func (a *Assembler) generateEncodeInto(suffix string) string {
	return fmt.Sprintf("// Encode%sInto writes v's %s encoding to sink without the caller\n// needing to hold the intermediate slice.\nfunc (v %s) Encode%sInto(sink bitwire.BufferSink) error {\n\t_, err := sink.Write(v.Encode%s())\n\treturn err\n}\n",
		suffix, suffix, a.Plan.TypeName, suffix, suffix)
}
