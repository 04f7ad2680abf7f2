package analyze

import (
	"testing"

	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/tag"
)

func mustParseTag(t *testing.T, s string) *tag.Directive {
	t.Helper()
	d, err := tag.ParseTag(s)
	if err != nil {
		t.Fatalf("ParseTag(%q) error: %v", s, err)
	}
	return d
}

func TestAnalyzeBitPackedRun(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Header",
		Anno: &tag.TypeAnnotation{},
		Fields: []tag.Field{
			{Name: "Version", GoType: "byte", Directive: mustParseTag(t, "bits=4")},
			{Name: "Kind", GoType: "byte", Directive: mustParseTag(t, "bits=4")},
			{Name: "Length", GoType: "uint16", Directive: mustParseTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p, errs := Analyze(agg, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !p.HasBitPacked {
		t.Error("HasBitPacked = false, want true")
	}
	if p.TotalBits != 8+16 {
		t.Errorf("TotalBits = %d, want 24", p.TotalBits)
	}
	if p.Fields[2].BitOffset.Bits() != 8 {
		t.Errorf("Length.BitOffset = %d, want 8", p.Fields[2].BitOffset.Bits())
	}
}

func TestAnalyzeMisalignedAfterBitRun(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Bad",
		Anno: &tag.TypeAnnotation{},
		Fields: []tag.Field{
			{Name: "A", GoType: "byte", Directive: mustParseTag(t, "bits=4")},
			{Name: "B", GoType: "uint16", Directive: mustParseTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	_, errs := Analyze(agg, reg)
	if len(errs) == 0 {
		t.Fatal("expected an I1 misalignment error, got none")
	}
}

func TestAnalyzeUnboundedTailMustBeLast(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Bad",
		Anno: &tag.TypeAnnotation{},
		Fields: []tag.Field{
			{Name: "Data", GoType: "[]byte", Directive: mustParseTag(t, "")},
			{Name: "Trailer", GoType: "uint32", Directive: mustParseTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	_, errs := Analyze(agg, reg)
	if len(errs) == 0 {
		t.Fatal("expected an I3 violation, got none")
	}
}

func TestAnalyzeSizeFromMustBeBackward(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Bad",
		Anno: &tag.TypeAnnotation{},
		Fields: []tag.Field{
			{Name: "Payload", GoType: "[]byte", Directive: mustParseTag(t, "size-from=Length")},
			{Name: "Length", GoType: "uint16", Directive: mustParseTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	_, errs := Analyze(agg, reg)
	if len(errs) == 0 {
		t.Fatal("expected an I4 violation, got none")
	}
}

func TestAnalyzeFixedEligible(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Small",
		Anno: &tag.TypeAnnotation{},
		Fields: []tag.Field{
			{Name: "A", GoType: "uint32", Directive: mustParseTag(t, "")},
			{Name: "B", GoType: "uint32", Directive: mustParseTag(t, "")},
		},
	}
	reg := classify.NewRegistry()
	p, errs := Analyze(agg, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !p.FixedEligible() {
		t.Error("FixedEligible() = false, want true")
	}
}

func TestAnalyzeForByteOrder(t *testing.T) {
	agg := &tag.Aggregate{
		Name: "Mixed",
		Anno: &tag.TypeAnnotation{Endian: "big"},
		Fields: []tag.Field{
			{Name: "A", GoType: "uint32", Directive: mustParseTag(t, "")},
			{Name: "B", GoType: "uint32", Directive: mustParseTag(t, "endian=little")},
		},
	}
	reg := classify.NewRegistry()
	p, errs := Analyze(agg, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	le, err := p.ForByteOrder("little")
	if err != nil {
		t.Fatalf("ForByteOrder error: %v", err)
	}
	if le.Fields[0].ByteOrder != "little" {
		t.Errorf("A.ByteOrder = %q, want little (unpinned field follows the call)", le.Fields[0].ByteOrder)
	}
	if le.Fields[1].ByteOrder != "little" {
		t.Errorf("B.ByteOrder = %q, want little (field was already little)", le.Fields[1].ByteOrder)
	}
	if p.Fields[0].ByteOrder != "big" {
		t.Error("original Plan was mutated by ForByteOrder")
	}
}
