// Package classify is the Type Classifier (spec.md §4.1): given a field's
// Go type string and a Registry of the aggregates/enumerations discovered
// elsewhere in the package, it decides which wire variant a field's type
// realizes — primitive, boolean, Unicode scalar, fixed array, dynamic
// slice, nested aggregate, enumeration, or flag enumeration — and, where
// the type has one, its static byte size. Grounded on the teacher's
// internal/analyzer/size.go (SizeOf, TypeRegistry), generalized from "byte
// size of a region" to "wire variant of a field", since the bit-cursor
// model downstream needs more than a size to decide how to emit a field.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the wire variant a Go type realizes.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindBool
	KindChar // a Unicode scalar value, stored as a validated uint32
	KindArray
	KindSlice
	KindText // a Go string, UTF-8 validated at decode (spec.md §3.2/S4/S7)
	KindAggregate
	KindEnum
	KindFlagEnum
	KindOptional // *T: a 1-byte presence tag followed by T's storage, spec.md §3.2/S3
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindText:
		return "text"
	case KindAggregate:
		return "aggregate"
	case KindEnum:
		return "enum"
	case KindFlagEnum:
		return "flag-enum"
	case KindOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying one Go type string.
type Classification struct {
	Kind Kind

	// StaticSize is the type's fixed size in bytes, or -1 if the type is
	// dynamically sized (a slice, or an aggregate/array containing one).
	StaticSize int

	// ElemType is the element type string for KindArray/KindSlice.
	ElemType string
	ArrayLen int // for KindArray

	// Underlying is the storage primitive for KindEnum/KindFlagEnum
	// (e.g. "uint8"), and the resolved primitive for a type alias.
	Underlying string
}

// Registry tracks the aggregates and enumerations discovered while
// walking a package, so a field referencing another declared type can be
// classified without re-parsing it. Grounded on the teacher's
// TypeRegistry, generalized from "name -> size" to "name -> Classification".
type Registry struct {
	types   map[string]Classification
	aliases map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]Classification),
		aliases: make(map[string]string),
	}
}

// RegisterAggregate records a nested aggregate's static size (-1 if it
// contains a dynamic field) under its type name.
func (r *Registry) RegisterAggregate(name string, staticSize int) {
	r.types[name] = Classification{Kind: KindAggregate, StaticSize: staticSize}
}

// RegisterEnum records an (ordinary or flag) enumeration's storage width
// under its type name.
func (r *Registry) RegisterEnum(name, underlying string, isFlag bool) {
	size, _ := primitiveSize(underlying)
	kind := KindEnum
	if isFlag {
		kind = KindFlagEnum
	}
	r.types[name] = Classification{Kind: kind, StaticSize: size, Underlying: underlying}
}

// RegisterAlias records a `type Alias Underlying` declaration that is
// neither an aggregate nor an annotated enumeration (e.g. `type PageID
// uint64` with no @bitwire annotation of its own, used only as a field
// type elsewhere).
func (r *Registry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// Lookup returns a previously registered type's classification.
func (r *Registry) Lookup(name string) (Classification, bool) {
	c, ok := r.types[name]
	return c, ok
}

var arrayRe = regexp.MustCompile(`^\[(\d+)\](.+)$`)

// Classify determines the wire variant of a Go type string.
func Classify(goType string, reg *Registry) (Classification, error) {
	if size, ok := primitiveSize(goType); ok {
		if goType == "bool" {
			return Classification{Kind: KindBool, StaticSize: 1}, nil
		}
		return Classification{Kind: KindPrimitive, StaticSize: size}, nil
	}
	if goType == "rune" {
		return Classification{Kind: KindChar, StaticSize: 4}, nil
	}
	if goType == "string" {
		return Classification{Kind: KindText, StaticSize: -1}, nil
	}

	if strings.HasPrefix(goType, "[]") {
		elem := goType[2:]
		if _, err := Classify(elem, reg); err != nil {
			return Classification{}, fmt.Errorf("slice element %s: %w", elem, err)
		}
		return Classification{Kind: KindSlice, StaticSize: -1, ElemType: elem}, nil
	}

	if matches := arrayRe.FindStringSubmatch(goType); matches != nil {
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			return Classification{}, fmt.Errorf("invalid array length in %s", goType)
		}
		elem := matches[2]
		elemClass, err := Classify(elem, reg)
		if err != nil {
			return Classification{}, fmt.Errorf("array element %s: %w", elem, err)
		}
		size := -1
		if elemClass.StaticSize >= 0 {
			size = n * elemClass.StaticSize
		}
		return Classification{Kind: KindArray, StaticSize: size, ElemType: elem, ArrayLen: n}, nil
	}

	if strings.HasPrefix(goType, "*") {
		elem := goType[1:]
		elemClass, err := Classify(elem, reg)
		if err != nil {
			return Classification{}, fmt.Errorf("optional element %s: %w", elem, err)
		}
		switch elemClass.Kind {
		case KindPrimitive, KindBool, KindChar:
		default:
			return Classification{}, fmt.Errorf("*%s is not a supported optional: only primitive, bool, or char element types may be optional (spec.md §3.2's optional-primitive)", elem)
		}
		return Classification{Kind: KindOptional, StaticSize: 1 + elemClass.StaticSize, ElemType: elem, Underlying: elem}, nil
	}

	resolved := reg.resolveAlias(goType)
	if c, ok := reg.Lookup(resolved); ok {
		return c, nil
	}
	if size, ok := primitiveSize(resolved); ok {
		return Classification{Kind: KindPrimitive, StaticSize: size}, nil
	}

	return Classification{}, fmt.Errorf("unknown type %s (not a primitive and not registered)", goType)
}

func (r *Registry) resolveAlias(goType string) string {
	for {
		underlying, ok := r.aliases[goType]
		if !ok {
			return goType
		}
		goType = underlying
	}
}

func primitiveSize(goType string) (int, bool) {
	switch goType {
	case "uint8", "int8", "byte", "bool":
		return 1, true
	case "uint16", "int16":
		return 2, true
	case "uint32", "int32", "float32":
		return 4, true
	case "uint64", "int64", "float64":
		return 8, true
	}
	return 0, false
}
