// Package analyze is the Layout Analyzer (spec.md §4.3). It walks an
// aggregate's fields in declaration order, advancing a single Cursor, and
// rejects any declaration that violates one of spec.md's eight layout
// invariants (I1..I8) before a single line of codec code is generated.
//
// Grounded on the teacher's internal/analyzer/analyzer.go: both packages
// are a declarative, multi-phase walk over a field list that accumulates
// diagnostics instead of panicking on the first problem. The teacher
// tracks byte-offset Regions against a fixed buffer size; this package
// tracks a bit-precise Cursor against no buffer at all, since spec.md's
// aggregates are exactly as long as their fields make them.
package analyze

import (
	"fmt"

	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/tag"
)

// Analyze builds a Plan for one aggregate, or returns every invariant
// violation found (it does not stop at the first one, matching the
// teacher's Errors-accumulation style).
func Analyze(agg *tag.Aggregate, reg *classify.Registry) (*Plan, []error) {
	p := &Plan{TypeName: agg.Name, DefaultByteOrder: defaultOrder(agg)}

	var errs []error
	var cursor Cursor   // total bits, valid only while every field so far has been statically sized
	var runCursor Cursor // bit position relative to the start of the current bit-packed run
	wasBitPacked := false
	seenUnbounded := false

	for i, f := range agg.Fields {
		if seenUnbounded {
			errs = append(errs, fmt.Errorf("%s.%s: a field cannot follow an unbounded tail field (I3)", agg.Name, f.Name))
			continue
		}

		class, err := classify.Classify(f.GoType, reg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", agg.Name, f.Name, err))
			continue
		}

		pf := PlannedField{
			Name:              f.Name,
			GoType:            f.GoType,
			ElemGoType:        class.ElemType,
			ArrayLen:          class.ArrayLen,
			Kind:              class.Kind,
			Underlying:        class.Underlying,
			ByteOrder:         resolveByteOrder(f.Directive, agg),
			IsByteOrderPinned: f.Directive.ByteOrder != "",
		}
		if class.Kind == classify.KindOptional {
			elemClass, err := classify.Classify(class.ElemType, reg)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", agg.Name, f.Name, err))
				continue
			}
			pf.ElemKind = elemClass.Kind
		}

		isBitPacked := f.Directive.BitWidth > 0 || f.Directive.BitWidthAuto
		if isBitPacked && !wasBitPacked {
			runCursor = 0 // a new run always starts at a byte boundary (I1), so byte spans within it are relative
		}

		if isBitPacked {
			if err := planBitPacked(agg, f, class, &pf, &runCursor); err != nil {
				errs = append(errs, err)
				continue
			}
			cursor = cursor.Advance(pf.BitWidth)
			p.HasBitPacked = true
		} else {
			if !cursor.Aligned() {
				errs = append(errs, fmt.Errorf("%s.%s: must start byte-aligned after a bit-packed run; pad the run to a byte boundary first (I1)", agg.Name, f.Name))
				continue
			}
			if err := planByteAligned(agg, f, class, &pf, &cursor, i, len(agg.Fields)); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		wasBitPacked = isBitPacked

		if pf.IsUnboundedTail {
			seenUnbounded = true
		}
		if pf.SizeFromPath != "" || pf.SizeExpr != nil || pf.HasMarkerUntil || pf.HasMarkerAfter || pf.IsUnboundedTail {
			p.HasVariableLen = true
		}

		p.Fields = append(p.Fields, pf)
	}

	if seenUnbounded {
		p.HasUnboundedTail = true
	} else {
		p.TotalBits = cursor.Bits()
	}

	if len(errs) > 0 {
		return p, errs
	}
	if err := validateBackwardReferences(p); err != nil {
		return p, []error{err}
	}
	return p, nil
}

func defaultOrder(agg *tag.Aggregate) string {
	if agg.Anno != nil && agg.Anno.Endian != "" {
		return agg.Anno.Endian
	}
	return "big"
}

func resolveByteOrder(d *tag.Directive, agg *tag.Aggregate) string {
	if d.ByteOrder != "" {
		return d.ByteOrder
	}
	return defaultOrder(agg)
}

// planBitPacked places a bit-packed field (invariant I2: declared width
// must not exceed the field's storage type width; I6/I7 for enumeration
// discriminants are deferred to the enum codegen stage, which already
// has the full variant list).
func planBitPacked(agg *tag.Aggregate, f tag.Field, class classify.Classification, pf *PlannedField, cursor *Cursor) error {
	if class.Kind != classify.KindPrimitive && class.Kind != classify.KindEnum && class.Kind != classify.KindFlagEnum && class.Kind != classify.KindBool {
		return fmt.Errorf("%s.%s: bits= is only valid on primitive, bool, and enumeration fields, got %s (I2)", agg.Name, f.Name, class.Kind)
	}
	if f.Directive.ByteOrder != "" {
		return fmt.Errorf("%s.%s: endian= is not allowed on a bit-packed field", agg.Name, f.Name)
	}

	width := uint64(f.Directive.BitWidth)
	if f.Directive.BitWidthAuto {
		if class.Kind != classify.KindEnum && class.Kind != classify.KindFlagEnum {
			return fmt.Errorf("%s.%s: bits=auto is only valid on an enumeration field (I8)", agg.Name, f.Name)
		}
		// The width stays 0: no later stage derives it from the variants
		// (codegen.MinBits is not called here), so code generation
		// rejects the field as a 0-bit bit-packed field.
		width = 0
	}

	storageBits := uint64(class.StaticSize) * 8
	if width > 0 && width > storageBits {
		return fmt.Errorf("%s.%s: bits=%d exceeds the %d-bit storage width of %s (I2)", agg.Name, f.Name, width, storageBits, f.GoType)
	}

	pf.IsBitPacked = true
	pf.BitWidth = width
	pf.BitOffset = *cursor
	if width > 0 {
		*cursor = cursor.Advance(width)
	}
	return nil
}

func planByteAligned(agg *tag.Aggregate, f tag.Field, class classify.Classification, pf *PlannedField, cursor *Cursor, index, total int) error {
	pf.BitOffset = *cursor

	d := f.Directive
	switch {
	case d.HasFixedSize:
		pf.BitWidth = uint64(d.FixedSize) * 8
	case d.SizeFromPath != "":
		pf.SizeFromPath = d.SizeFromPath
	case d.SizeExpr != nil:
		pf.SizeExpr = d.SizeExpr
	case d.HasMarkerUntil:
		pf.HasMarkerUntil = true
		pf.MarkerUntil = d.MarkerUntil
	case d.HasMarkerAfter:
		pf.HasMarkerAfter = true
		pf.MarkerAfter = d.MarkerAfter
	case (class.Kind == classify.KindSlice || class.Kind == classify.KindText) && class.StaticSize < 0:
		if index != total-1 {
			return fmt.Errorf("%s.%s: an unbounded-length field must be the last field in the aggregate (I3)", agg.Name, f.Name)
		}
		pf.IsUnboundedTail = true
	case class.StaticSize < 0:
		return fmt.Errorf("%s.%s: %s has no declared length and no static size; add size=, size-from=, size-expr=, until=, or after= (I4)", agg.Name, f.Name, f.GoType)
	default:
		// No directive overrides the length and the type itself is
		// statically sized (a primitive, bool, char, fixed array, or a
		// nested aggregate with no dynamic field of its own).
		pf.BitWidth = uint64(class.StaticSize) * 8
	}

	pf.Segments = d.Segments

	if pf.IsUnboundedTail {
		return nil
	}
	if pf.BitWidth > 0 {
		*cursor = cursor.Advance(pf.BitWidth)
		return nil
	}
	// Dynamic length resolved at decode/encode time: the field still
	// consumes a whole number of bytes, so subsequent fields stay
	// byte-aligned, but the analyzer cannot know how many up front.
	// The cursor tracks only fields whose width it can resolve now;
	// fields after a dynamic one lose a static TotalBits but keep I1.
	return nil
}

// validateBackwardReferences enforces I4: size-from and size-expr may
// only name fields that appear earlier in declaration order.
func validateBackwardReferences(p *Plan) error {
	seen := make(map[string]bool)
	for _, f := range p.Fields {
		seen[f.Name] = true
		if f.SizeFromPath != "" {
			root := firstSegment(f.SizeFromPath)
			if !seen[root] {
				return fmt.Errorf("%s.%s: size-from=%s refers to a field that has not been declared yet (I4)", p.TypeName, f.Name, f.SizeFromPath)
			}
		}
		if f.SizeExpr != nil {
			if err := checkExprBackward(p.TypeName, f.Name, f.SizeExpr, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkExprBackward(typeName, field string, e *tag.Expr, seen map[string]bool) error {
	switch e.Kind {
	case tag.ExprFieldRef:
		root := e.Path[0]
		if !seen[root] {
			return fmt.Errorf("%s.%s: size-expr references %s before it is declared (I4)", typeName, field, root)
		}
	case tag.ExprBinary:
		if err := checkExprBackward(typeName, field, e.Left, seen); err != nil {
			return err
		}
		return checkExprBackward(typeName, field, e.Right, seen)
	case tag.ExprConditional:
		if err := checkExprBackward(typeName, field, e.Cond.Left, seen); err != nil {
			return err
		}
		if err := checkExprBackward(typeName, field, e.Cond.Right, seen); err != nil {
			return err
		}
		if err := checkExprBackward(typeName, field, e.Then, seen); err != nil {
			return err
		}
		return checkExprBackward(typeName, field, e.Else, seen)
	}
	return nil
}

func firstSegment(path string) string {
	for i, r := range path {
		if r == '.' {
			return path[:i]
		}
	}
	return path
}
