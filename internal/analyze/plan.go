package analyze

import (
	"github.com/mitchellh/copystructure"

	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/tag"
)

// PlannedField is one field's fully resolved placement in the wire
// layout: its bit offset, its wire width, and whichever one of the
// mutually exclusive length mechanisms (fixed size, size-from, size-expr,
// marker, unbounded tail) governs it.
type PlannedField struct {
	Name       string
	GoType     string
	ElemGoType string // element type string, for KindArray/KindSlice/KindOptional
	ArrayLen   int    // element count, for KindArray
	Kind       classify.Kind
	ElemKind   classify.Kind // wrapped element's kind, for KindOptional

	BitOffset   Cursor
	BitWidth    uint64 // storage width on the wire; 0 for unbounded-tail fields
	IsBitPacked bool

	// Exactly one of these may be set, mirroring the field's Directive.
	SizeFromPath    string
	SizeExpr        *tag.Expr
	HasMarkerUntil  bool
	MarkerUntil     byte
	HasMarkerAfter  bool
	MarkerAfter     byte
	IsUnboundedTail bool

	Segments string // segments=Count, for a sequence whose elements are themselves sequences

	ByteOrder         string // resolved "big" or "little", never ""
	IsByteOrderPinned bool   // true if the field's own directive set endian=, rather than inheriting the aggregate default

	Underlying string // enum/flag-enum storage primitive, e.g. "uint8"
}

// Plan is the Layout Analyzer's output for one aggregate: an ordered,
// fully resolved field list plus the aggregate-level facts the Container
// Codec Generator and fast-path eligibility check need.
type Plan struct {
	TypeName string
	Fields   []PlannedField

	TotalBits        uint64 // valid only when !HasUnboundedTail
	HasUnboundedTail bool
	HasBitPacked     bool
	HasVariableLen   bool // a size-from/size-expr/marker/unbounded field is present

	DefaultByteOrder string // "big" or "little"
}

// TotalBytes returns the aggregate's fixed byte size. Only meaningful
// when !HasUnboundedTail && TotalBits%8==0, which fast-path eligibility
// (spec.md §4.4.5) already requires before calling it.
func (p *Plan) TotalBytes() int { return int(p.TotalBits / 8) }

// FixedEligible reports spec.md §4.4.5's fast fixed-layout eligibility:
// no bit-packed fields, no variable-length fields, and a total size of at
// most 256 bytes.
func (p *Plan) FixedEligible() bool {
	return !p.HasBitPacked && !p.HasVariableLen && !p.HasUnboundedTail &&
		p.TotalBits%8 == 0 && p.TotalBits/8 <= 256
}

// ForByteOrder returns a deep copy of the plan with every field whose
// Directive left endian unpinned resolved to order, leaving
// directive-pinned fields untouched. Grounded on SPEC_FULL.md §4.3's
// decision to generate decode_be/decode_le/encode_be/encode_le as four
// independently specialized passes rather than branching on a runtime
// flag: cloning the plan once per byte order up front keeps the
// Container Codec Generator itself branch-free.
func (p *Plan) ForByteOrder(order string) (*Plan, error) {
	copied, err := copystructure.Copy(p)
	if err != nil {
		return nil, err
	}
	clone := copied.(*Plan)
	for i := range clone.Fields {
		if !clone.Fields[i].IsByteOrderPinned {
			clone.Fields[i].ByteOrder = order
		}
	}
	return clone, nil
}
