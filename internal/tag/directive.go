// Package tag is the Attribute Parser (spec.md §4.2): it turns a field's
// `bitwire:"..."` struct tag and an aggregate's `// @bitwire` doc comment
// into the normalized Directive / TypeAnnotation values the rest of the
// pipeline consumes. Grounded on the teacher's internal/parser/tag.go and
// internal/parser/annotation.go, generalized from the teacher's
// offset/region directive grammar to the full directive table of spec.md
// §3.3.
package tag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Directive holds the normalized, per-field annotation state described by
// spec.md §3.3.
type Directive struct {
	BitWidth     int  // 0 if not bit-packed
	BitWidthAuto bool // bits=auto; legal only on an enumeration reference

	HasFixedSize bool
	FixedSize    int

	SizeFromPath string // size-from=Header.Count
	SizeExprRaw  string // size-expr=Len-4
	SizeExpr     *Expr  // parsed form of SizeExprRaw, filled by ParseSizeExpr

	HasMarkerUntil bool
	MarkerUntil    byte
	HasMarkerAfter bool
	MarkerAfter    byte

	Segments string // segments=Count, for sequence-of-sequences

	ByteOrder string // "big", "little", or "" (unpinned)

	raw map[string]any // pre-normalization map, kept for diagnostics
}

// rawDirective is the mapstructure target for the directive terms that
// decode straight into scalar fields without further interpretation.
type rawDirective struct {
	Size     *int   `mapstructure:"size"`
	SizeFrom string `mapstructure:"size-from"`
	SizeExpr string `mapstructure:"size-expr"`
	Endian   string `mapstructure:"endian"`
	Segments string `mapstructure:"segments"`
}

// ParseTag parses a `bitwire:"..."` struct tag value into a Directive.
//
// Grammar: comma-separated terms, each either `key` (a boolean flag) or
// `key=value`. Recognized keys: bits, size, size-from, size-expr, until,
// after, segments, endian.
func ParseTag(value string) (*Directive, error) {
	d := &Directive{}
	if value == "" {
		return d, nil
	}

	raw, err := splitTerms(value)
	if err != nil {
		return nil, err
	}
	d.raw = raw

	// Every raw value is a string, so numeric targets such as Size need
	// weakly typed decoding ("16" -> 16).
	var rd rawDirective
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: &rd})
	if err != nil {
		return nil, fmt.Errorf("bitwire tag %q: %w", value, err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("bitwire tag %q: %w", value, err)
	}

	if bitsVal, ok := raw["bits"]; ok {
		if err := applyBits(d, bitsVal); err != nil {
			return nil, fmt.Errorf("bitwire tag %q: %w", value, err)
		}
	}

	if rd.Size != nil {
		if *rd.Size < 0 {
			return nil, fmt.Errorf("bitwire tag %q: size must be >= 0", value)
		}
		d.HasFixedSize = true
		d.FixedSize = *rd.Size
	}
	d.SizeFromPath = rd.SizeFrom
	d.SizeExprRaw = rd.SizeExpr
	d.Segments = rd.Segments

	if rd.Endian != "" {
		if rd.Endian != "big" && rd.Endian != "little" {
			return nil, fmt.Errorf("bitwire tag %q: endian must be big or little, got %q", value, rd.Endian)
		}
		d.ByteOrder = rd.Endian
	}

	if untilVal, ok := raw["until"]; ok {
		b, err := parseMarkerByte(untilVal)
		if err != nil {
			return nil, fmt.Errorf("bitwire tag %q: until: %w", value, err)
		}
		d.HasMarkerUntil = true
		d.MarkerUntil = b
	}
	if afterVal, ok := raw["after"]; ok {
		b, err := parseMarkerByte(afterVal)
		if err != nil {
			return nil, fmt.Errorf("bitwire tag %q: after: %w", value, err)
		}
		d.HasMarkerAfter = true
		d.MarkerAfter = b
	}
	if d.HasMarkerUntil && d.HasMarkerAfter {
		return nil, fmt.Errorf("bitwire tag %q: a field cannot combine until= and after=", value)
	}

	if d.SizeExprRaw != "" {
		expr, err := ParseSizeExpr(d.SizeExprRaw)
		if err != nil {
			return nil, fmt.Errorf("bitwire tag %q: size-expr: %w", value, err)
		}
		d.SizeExpr = expr
	}

	return d, nil
}

func applyBits(d *Directive, v any) error {
	s, _ := v.(string)
	// A bare `bits` term reaches here as "true" (see splitTerms).
	if s == "" || s == "auto" || s == "true" {
		d.BitWidthAuto = true
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid bits value: %v", v)
	}
	if n < 1 || n > 128 {
		return fmt.Errorf("bits must be 1..=128, got %d", n)
	}
	d.BitWidth = n
	return nil
}

// parseMarkerByte accepts either a byte literal (0..=255, decimal or
// 0x-prefixed hex) or a single ASCII character (value <= 127), per
// spec.md §4.2. A one-character value is always read as an ASCII
// character, so "5" yields '5' (0x35); single-digit byte values are
// written in hex ("0x05").
func parseMarkerByte(v any) (byte, error) {
	s, _ := v.(string)
	if s == "" {
		return 0, fmt.Errorf("missing marker value")
	}
	if len(s) == 1 {
		c := s[0]
		if c > 127 {
			return 0, fmt.Errorf("non-ASCII marker character %q", s)
		}
		return c, nil
	}
	n, err := strconv.ParseInt(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid marker byte %q", s)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("marker byte %d out of range 0..=255", n)
	}
	return byte(n), nil
}

// splitTerms splits a tag value on commas, then on '=' within each term,
// mapping bare keys (no '=') to the literal "true" flag marker so
// mapstructure.Decode can still target bool-shaped struct fields if ever
// needed, while keeping the raw string available for manual lookup.
func splitTerms(value string) (map[string]any, error) {
	out := make(map[string]any)
	for _, term := range strings.Split(value, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		kv := strings.SplitN(term, "=", 2)
		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, fmt.Errorf("empty directive key in %q", value)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("directive key %q given more than once in %q", key, value)
		}
		if len(kv) == 1 {
			out[key] = "true"
			continue
		}
		out[key] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

// Has reports whether the raw tag contained the given key at all, for
// directives (like a flag-enumeration marker) that have no typed field.
func (d *Directive) Has(key string) bool {
	_, ok := d.raw[key]
	return ok
}
