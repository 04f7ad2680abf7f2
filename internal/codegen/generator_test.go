package codegen

import (
	"strings"
	"testing"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/tag"
)

func mustTag(t *testing.T, s string) *tag.Directive {
	t.Helper()
	d, err := tag.ParseTag(s)
	if err != nil {
		t.Fatalf("ParseTag(%q) error: %v", s, err)
	}
	return d
}

func mustPlan(t *testing.T, agg *tag.Aggregate, reg *classify.Registry) *analyze.Plan {
	t.Helper()
	p, errs := analyze.Analyze(agg, reg)
	if len(errs) != 0 {
		t.Fatalf("Analyze() errors: %v", errs)
	}
	return p
}

func TestAssemblerFixedFields(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Header",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Magic", GoType: "uint32", Directive: mustTag(t, "")},
			{Name: "Version", GoType: "uint16", Directive: mustTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "func DecodeBEHeader(b []byte) (Header, int, error)") {
		t.Error("missing DecodeBEHeader")
	}
	if !strings.Contains(code, "func (v Header) EncodeBE() []byte") {
		t.Error("missing EncodeBE")
	}
	if !strings.Contains(code, "binary.BigEndian.Uint32(b[off:])") {
		t.Errorf("missing big-endian uint32 decode, got:\n%s", code)
	}
	if !strings.Contains(code, "func (v Header) SizeInBytes() int {\n\treturn 6\n}") {
		t.Errorf("missing fixed SizeInBytes, got:\n%s", code)
	}
	if !strings.Contains(code, "func (v Header) EncodeBEFixed() [6]byte") {
		t.Errorf("missing fast fixed encoder, got:\n%s", code)
	}
	if !strings.Contains(code, "func (Header) SchemaHash() string") {
		t.Error("missing SchemaHash method")
	}
}

func TestAssemblerLittleEndianUsesLittleEndianPkg(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Point",
		Anno: &tag.TypeAnnotation{Endian: "little"},
		Fields: []tag.Field{
			{Name: "X", GoType: "uint32", Directive: mustTag(t, "")},
			{Name: "Y", GoType: "uint32", Directive: mustTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "func DecodeLEPoint(b []byte) (Point, int, error)") {
		t.Error("missing DecodeLEPoint")
	}
	if !strings.Contains(code, "binary.LittleEndian.Uint32(b[off:])") {
		t.Errorf("expected little-endian decode for LE plan, got:\n%s", code)
	}
	if !strings.Contains(code, "binary.LittleEndian.AppendUint32(buf, v.X)") {
		t.Errorf("expected little-endian encode for LE plan, got:\n%s", code)
	}
}

func TestAssemblerBitPackedRun(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Flags",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Version", GoType: "byte", Directive: mustTag(t, "bits=4")},
			{Name: "Kind", GoType: "byte", Directive: mustTag(t, "bits=4")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "__bf_Version") {
		t.Errorf("expected a decode accumulator for Version, got:\n%s", code)
	}
	if !strings.Contains(code, "__bf_Kind") {
		t.Errorf("expected a decode accumulator for Kind, got:\n%s", code)
	}
	// Both fields are OR'd into the same run; encode must use distinct
	// per-field temporaries or this wouldn't compile ("no new variables
	// on left side of :=").
	if !strings.Contains(code, "__ev_Version := ") || !strings.Contains(code, "__ev_Kind := ") {
		t.Errorf("expected distinct encode temporaries per bit-packed field, got:\n%s", code)
	}
}

func TestAssemblerVariableLengthSizeFrom(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Packet",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Length", GoType: "uint16", Directive: mustTag(t, "")},
			{Name: "Payload", GoType: "[]byte", Directive: mustTag(t, "size-from=Length")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "int(v.Length)") {
		t.Errorf("expected size-from decode reading v.Length, got:\n%s", code)
	}
	if !strings.Contains(code, "buf = append(buf, v.Payload...)") {
		t.Errorf("expected size-from encode appending v.Payload, got:\n%s", code)
	}
	if !strings.Contains(code, "func (v Packet) SizeInBytes() int {\n\treturn len(v.EncodeBE())\n}") {
		t.Errorf("expected variable-length SizeInBytes, got:\n%s", code)
	}
}

func TestAssemblerFixedArrayOfMultiByteElements(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Palette",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Colors", GoType: "[4]uint16", Directive: mustTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "binary.BigEndian.Uint16(b[off:])") {
		t.Errorf("expected per-element uint16 decode for array, got:\n%s", code)
	}
	if !strings.Contains(code, "off += 2") {
		t.Errorf("expected a 2-byte element advance, got:\n%s", code)
	}
}

func TestAssemblerEnumField(t *testing.T) {
	reg := classify.NewRegistry()
	reg.RegisterEnum("Status", "uint8", false)

	agg := &tag.Aggregate{
		Name: "Reply",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Code", GoType: "Status", Directive: mustTag(t, "")},
		},
	}
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "FromDiscriminantStatus(") {
		t.Errorf("expected ordinary enum decode through FromDiscriminant, got:\n%s", code)
	}
	if !strings.Contains(code, "v.Code.Discriminant()") {
		t.Errorf("expected ordinary enum encode through Discriminant(), got:\n%s", code)
	}
}

func TestAssemblerOptionalField(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Reading",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "X", GoType: "*uint16", Directive: mustTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "__present_X := b[off] != 0") {
		t.Errorf("expected a presence-tag decode, got:\n%s", code)
	}
	if !strings.Contains(code, "v.X = &__oval_X") {
		t.Errorf("expected decode to take the wrapped value's address, got:\n%s", code)
	}
	if !strings.Contains(code, "v.X = nil") {
		t.Errorf("expected decode to clear the pointer when absent, got:\n%s", code)
	}
	if !strings.Contains(code, "func (v Reading) SizeInBytes() int {\n\treturn 3\n}") {
		t.Errorf("expected a fixed 3-byte SizeInBytes (1 tag + 2 value), got:\n%s", code)
	}
}

func TestAssemblerTextField(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Message",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Len", GoType: "uint8", Directive: mustTag(t, "")},
			{Name: "Body", GoType: "string", Directive: mustTag(t, "size-from=Len")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "utf8.Valid(__txt_Body)") {
		t.Errorf("expected UTF-8 validation of the decoded text, got:\n%s", code)
	}
	if !strings.Contains(code, "v.Body = string(__txt_Body)") {
		t.Errorf("expected decode to convert to string, got:\n%s", code)
	}
	if !strings.Contains(code, "bitwire.InvalidUTF8Error{Type: \"Message\", Field: \"Body\"}") {
		t.Errorf("expected InvalidUTF8Error on bad UTF-8, got:\n%s", code)
	}
	if !strings.Contains(code, "buf = append(buf, v.Body...)") {
		t.Errorf("expected encode to append v.Body directly, got:\n%s", code)
	}
}

func TestAssemblerMarkerAfterField(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Frame",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Payload", GoType: "[]byte", Directive: mustTag(t, "after=0x00")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "v.Payload = append([]byte(nil), b[__idx+1:]...)") {
		t.Errorf("expected decode to consume the remainder after the marker, got:\n%s", code)
	}
	if !strings.Contains(code, "v.Payload = nil") {
		t.Errorf("expected decode to leave the field empty when the marker is absent, got:\n%s", code)
	}
	if strings.Contains(code, "MarkerNotFoundError") {
		t.Errorf("after= must never raise MarkerNotFoundError when the marker is absent, got:\n%s", code)
	}
	if !strings.Contains(code, "buf = append(buf, 0x00)\n\tbuf = append(buf, v.Payload...)") {
		t.Errorf("expected encode to prefix the marker before the content, got:\n%s", code)
	}
}

func TestAssemblerMarkerUntilLastFieldFallsBackToRemainder(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Line",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Text", GoType: "[]byte", Directive: mustTag(t, "until=0x0a")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "v.Text = append([]byte(nil), b[off:]...)\n\t\toff = len(b)") {
		t.Errorf("expected a last-field fallback to the remainder when the marker is absent, got:\n%s", code)
	}
	if strings.Contains(code, "MarkerNotFoundError") {
		t.Errorf("the last field of an aggregate must never raise MarkerNotFoundError, got:\n%s", code)
	}
}

func TestAssemblerMarkerUntilNonLastFieldStillErrors(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Record",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Name", GoType: "[]byte", Directive: mustTag(t, "until=0x00")},
			{Name: "Age", GoType: "uint8", Directive: mustTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "&bitwire.MarkerNotFoundError{Type: \"Record\", Field: \"Name\", Marker: 0x00}") {
		t.Errorf("expected a non-last field to still raise MarkerNotFoundError, got:\n%s", code)
	}
}

func TestAssemblerSignedBitPackedFieldSignExtends(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Sample",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Delta", GoType: "int8", Directive: mustTag(t, "bits=4")},
			{Name: "Pad", GoType: "byte", Directive: mustTag(t, "bits=4")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "__bf_Delta&(1<<3) != 0") {
		t.Errorf("expected a sign-extension check on the top bit of a 4-bit signed field, got:\n%s", code)
	}
	if !strings.Contains(code, "__bf_Delta |= ^uint64(0) << 4") {
		t.Errorf("expected the sign bit to be replicated upward before narrowing, got:\n%s", code)
	}
	if strings.Contains(code, "__bf_Pad&(1<<") {
		t.Errorf("an unsigned bit-packed field must not be sign-extended, got:\n%s", code)
	}
}

func TestAssemblerTwoBitPackedRunsUseDistinctOffsets(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Mixed",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "A", GoType: "byte", Directive: mustTag(t, "bits=4")},
			{Name: "B", GoType: "byte", Directive: mustTag(t, "bits=4")},
			{Name: "Mid", GoType: "uint8", Directive: mustTag(t, "")},
			{Name: "C", GoType: "byte", Directive: mustTag(t, "bits=4")},
			{Name: "D", GoType: "byte", Directive: mustTag(t, "bits=4")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "__runOff_A := len(buf)") {
		t.Errorf("expected the first bit-packed run to declare __runOff_A, got:\n%s", code)
	}
	if !strings.Contains(code, "__runOff_C := len(buf)") {
		t.Errorf("expected the second bit-packed run to declare __runOff_C, got:\n%s", code)
	}
	if strings.Count(code, "__runOff := len(buf)") != 0 {
		t.Errorf("the old colliding __runOff name must not appear, got:\n%s", code)
	}
}

func TestAssemblerSizeExprGuardsDivisionByZero(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Table",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Stride", GoType: "uint8", Directive: mustTag(t, "")},
			{Name: "Total", GoType: "uint8", Directive: mustTag(t, "")},
			{Name: "Rows", GoType: "[]byte", Directive: mustTag(t, "size-expr=Total/Stride")},
		},
	}
	reg := classify.NewRegistry()
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "__r == 0") {
		t.Errorf("expected a zero-divisor guard in the generated size-expr evaluation, got:\n%s", code)
	}
	if !strings.Contains(code, "bitwire.SizeExprInvalidError") {
		t.Errorf("expected a SizeExprInvalidError on division by zero, got:\n%s", code)
	}
	if !strings.Contains(code, "if __sizeExprErr_Rows != nil {\n\t\treturn v, off, __sizeExprErr_Rows\n\t}") {
		t.Errorf("expected the decode function to propagate the size-expr error, got:\n%s", code)
	}
}

func TestAssemblerNestedAggregate(t *testing.T) {
	reg := classify.NewRegistry()
	reg.RegisterAggregate("Coord", 4)

	agg := &tag.Aggregate{
		Name: "Shape",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "Origin", GoType: "Coord", Directive: mustTag(t, "")},
		},
	}
	p := mustPlan(t, agg, reg)

	asm := &Assembler{Plan: p, IsAggregateType: map[string]bool{}}
	code, err := asm.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(code, "DecodeBECoord(b[off:])") {
		t.Errorf("expected nested aggregate decode delegation, got:\n%s", code)
	}
	if !strings.Contains(code, "v.Origin.EncodeBE()") {
		t.Errorf("expected nested aggregate encode delegation, got:\n%s", code)
	}
}
