// enums.go generates the method bodies for ordinary and flag
// enumerations. Grounded on bebytes_derive/src/enums.rs's handle_enum:
// auto-assignment of implicit discriminants by declaration order,
// min_bits derivation for bits=auto, and from_bytes/to_bytes/try_from
// arm generation — ported from a derive macro emitting match arms to a
// static generator emitting the same match arms as source text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/waddleflap/bitwire/internal/tag"
)

// ResolvedVariant is a variant with its discriminant fully resolved
// (auto-assignment applied).
type ResolvedVariant struct {
	Name  string
	Value uint64
}

// ResolveDiscriminants applies spec.md §10's auto-assignment rule:
// an explicit literal is kept; an omitted one is the previous resolved
// value (explicit or auto) plus one, starting at 0 for the first variant.
func ResolveDiscriminants(variants []tag.Variant) []ResolvedVariant {
	out := make([]ResolvedVariant, len(variants))
	var next uint64
	for i, v := range variants {
		val := next
		if v.Value != nil {
			val = *v.Value
		}
		out[i] = ResolvedVariant{Name: v.Name, Value: val}
		next = val + 1
	}
	return out
}

// ValidateOrdinaryEnum enforces I7: every discriminant must fit in the
// declared (or auto) storage width, and no two variants may share a
// discriminant.
func ValidateOrdinaryEnum(typeName string, variants []ResolvedVariant, bitWidth uint64) error {
	seen := make(map[uint64]string)
	limit := uint64(1) << bitWidth
	for _, v := range variants {
		if bitWidth < 64 && v.Value >= limit {
			return fmt.Errorf("%s.%s: discriminant %d does not fit in %d bits (I7)", typeName, v.Name, v.Value, bitWidth)
		}
		if prev, ok := seen[v.Value]; ok {
			return fmt.Errorf("%s: variants %s and %s both declare discriminant %d", typeName, prev, v.Name, v.Value)
		}
		seen[v.Value] = v.Name
	}
	return nil
}

// ValidateFlagEnum enforces I6: every discriminant must be 0 or a
// distinct power of two.
func ValidateFlagEnum(typeName string, variants []ResolvedVariant, bitWidth uint64) error {
	seen := make(map[uint64]string)
	limit := uint64(1) << bitWidth
	for _, v := range variants {
		if v.Value != 0 && v.Value&(v.Value-1) != 0 {
			return fmt.Errorf("%s.%s: flag discriminant %d is not 0 or a power of two (I6)", typeName, v.Name, v.Value)
		}
		if bitWidth < 64 && v.Value >= limit {
			return fmt.Errorf("%s.%s: discriminant %d does not fit in %d bits (I7)", typeName, v.Name, v.Value, bitWidth)
		}
		if prev, ok := seen[v.Value]; ok && v.Value != 0 {
			return fmt.Errorf("%s: variants %s and %s both declare flag %d", typeName, prev, v.Name, v.Value)
		}
		seen[v.Value] = v.Name
	}
	return nil
}

// MinBits returns the smallest bit width that can represent every
// variant's discriminant, for bits=auto. Ported from enums.rs's manual
// log2 loop.
func MinBits(variants []ResolvedVariant) uint64 {
	var maxVal uint64
	for _, v := range variants {
		if v.Value > maxVal {
			maxVal = v.Value
		}
	}
	bits := uint64(1)
	for (uint64(1) << bits) <= maxVal {
		bits++
	}
	return bits
}

// GenerateOrdinaryEnumMethods emits FromDiscriminant and Discriminant for
// a plain enumeration.
func GenerateOrdinaryEnumMethods(typeName, underlying string, variants []ResolvedVariant) string {
	var w strings.Builder
	fmt.Fprintf(&w, "// FromDiscriminant looks up the %s variant for a decoded wire value.\n", typeName)
	fmt.Fprintf(&w, "func FromDiscriminant%s(d %s) (%s, error) {\n\tswitch %s(d) {\n", typeName, underlying, typeName, typeName)
	for _, v := range variants {
		fmt.Fprintf(&w, "\tcase %s:\n\t\treturn %s, nil\n", v.Name, v.Name)
	}
	fmt.Fprintf(&w, "\t}\n\treturn 0, &bitwire.InvalidDiscriminantError{Type: %q, Value: uint64(d)}\n}\n\n", typeName)

	fmt.Fprintf(&w, "// Discriminant returns v's wire discriminant.\n")
	fmt.Fprintf(&w, "func (v %s) Discriminant() %s { return %s(v) }\n", typeName, underlying, underlying)
	return w.String()
}

// GenerateFlagEnumMethods emits the FlagSet literal and the thin
// Contains/Decompose/FromBits/IterFlags/Union/Intersect/Xor/Complement
// wrappers over the root bitwire package's generics (spec.md §6.2).
func GenerateFlagEnumMethods(typeName, underlying string, variants []ResolvedVariant) string {
	var w strings.Builder
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.Value != 0 {
			names = append(names, v.Name)
		}
	}

	fmt.Fprintf(&w, "var %sFlagSet = bitwire.FlagSet[%s]{All: []%s{%s}}\n\n", typeName, underlying, underlying, joinNames(names))

	fmt.Fprintf(&w, "// Contains reports whether bit is set in v.\n")
	fmt.Fprintf(&w, "func (v %s) Contains(bit %s) bool { return bitwire.Contains(%s(v), %s(bit)) }\n\n", typeName, typeName, underlying, underlying)

	fmt.Fprintf(&w, "// Decompose returns the declared flags set in v, in ascending order.\n")
	fmt.Fprintf(&w, "func (v %s) Decompose() []%s {\n\traw := bitwire.Decompose(%sFlagSet, %s(v))\n\tout := make([]%s, len(raw))\n\tfor i, r := range raw {\n\t\tout[i] = %s(r)\n\t}\n\treturn out\n}\n\n", typeName, typeName, typeName, underlying, typeName, typeName)

	fmt.Fprintf(&w, "// FromBits returns bits reinterpreted as %s, and ok=false if any set bit has no declared flag.\n", typeName)
	fmt.Fprintf(&w, "func %sFromBits(bits %s) (%s, bool) {\n\tu, ok := bitwire.FromBits(%sFlagSet, bits)\n\treturn %s(u), ok\n}\n\n", typeName, underlying, typeName, typeName, typeName)

	fmt.Fprintf(&w, "// Union, Intersect, Xor, and Complement are v's flag operators.\n")
	fmt.Fprintf(&w, "func (v %s) Union(o %s) %s      { return %s(bitwire.Union(%s(v), %s(o))) }\n", typeName, typeName, typeName, typeName, underlying, underlying)
	fmt.Fprintf(&w, "func (v %s) Intersect(o %s) %s  { return %s(bitwire.Intersect(%s(v), %s(o))) }\n", typeName, typeName, typeName, typeName, underlying, underlying)
	fmt.Fprintf(&w, "func (v %s) Xor(o %s) %s        { return %s(bitwire.Xor(%s(v), %s(o))) }\n", typeName, typeName, typeName, typeName, underlying, underlying)
	fmt.Fprintf(&w, "func (v %s) Complement() %s     { return %s(bitwire.Complement(%sFlagSet, %s(v))) }\n\n", typeName, typeName, typeName, typeName, underlying)

	fmt.Fprintf(&w, "// IterFlags walks the declared flags set in v, in ascending order.\n")
	fmt.Fprintf(&w, "func (v %s) IterFlags() *bitwire.FlagIterator[%s] { return bitwire.IterFlags(%sFlagSet, %s(v)) }\n", typeName, underlying, typeName, underlying)
	return w.String()
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
