package tag

import (
	"fmt"
	"regexp"
	"strings"
)

// TypeAnnotation holds the parsed `// @bitwire ...` doc comment that
// precedes an aggregate, enumeration, or flag enumeration declaration.
// Grounded on the teacher's internal/parser/annotation.go TypeAnnotation,
// trimmed to the params spec.md actually names (endian, flags) and
// dropping the teacher's buffer-size/mode/align/allocator params, which
// belong to its zerocopy region model rather than this bit-cursor one.
type TypeAnnotation struct {
	Endian   string // "big" or "little"; "" means unpinned, inherit per-call
	FlagEnum bool   // marks an enumeration as a flag enumeration (spec.md §3.4)
}

var annotationRe = regexp.MustCompile(`@bitwire(?:\s+(.+))?`)
var pairRe = regexp.MustCompile(`([\w-]+)(?:=([\w-]+))?`)

// ParseAnnotation parses a single `@bitwire` comment line.
//
// Expected forms:
//
//	// @bitwire
//	// @bitwire endian=big
//	// @bitwire flags
//	// @bitwire endian=little flags
func ParseAnnotation(comment string) (*TypeAnnotation, error) {
	matches := annotationRe.FindStringSubmatch(comment)
	if matches == nil {
		return nil, fmt.Errorf("no @bitwire annotation found")
	}
	anno := &TypeAnnotation{}
	if len(matches) < 2 || strings.TrimSpace(matches[1]) == "" {
		return anno, nil
	}
	for _, pair := range pairRe.FindAllStringSubmatch(matches[1], -1) {
		key, value := pair[1], pair[2]
		switch key {
		case "endian":
			if value != "big" && value != "little" {
				return nil, fmt.Errorf("endian must be big or little, got %q", value)
			}
			anno.Endian = value
		case "flags":
			anno.FlagEnum = true
		default:
			return nil, fmt.Errorf("unknown @bitwire parameter %q", key)
		}
	}
	return anno, nil
}

// FindAnnotation scans a declaration's doc comment lines for an @bitwire
// annotation. Returns nil, false if none is present — annotation is
// optional; its absence means "unpinned byte order, not a flag
// enumeration".
func FindAnnotation(comments []string) (*TypeAnnotation, bool) {
	for _, comment := range comments {
		if anno, err := ParseAnnotation(comment); err == nil {
			return anno, true
		}
	}
	return nil, false
}

// CleanComment strips comment markers from a single comment line, e.g.
// "// @bitwire flags" -> "@bitwire flags".
func CleanComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "//") {
		return strings.TrimSpace(strings.TrimPrefix(line, "//"))
	}
	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimSuffix(strings.TrimPrefix(line, "/*"), "*/")
		return strings.TrimSpace(line)
	}
	return line
}
