// Package bitwire is the small, stable runtime surface that generated
// code imports. It is the Go analogue of bebytes' lib.rs: a thin,
// hand-written, user-facing declaration that the generator targets but
// does not itself generate. Everything that actually analyzes a layout or
// emits code lives under internal/.
package bitwire

import "fmt"

// EmptyBufferError is returned when a decode call is given zero bytes
// while at least one byte is required.
type EmptyBufferError struct {
	Type string
}

func (e *EmptyBufferError) Error() string {
	return fmt.Sprintf("bitwire: %s: empty buffer", e.Type)
}

// InsufficientDataError is returned when fewer bytes are available than a
// field requires at a specific point in the decode.
type InsufficientDataError struct {
	Type, Field      string
	Expected, Actual int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: need %d bytes, have %d", e.Type, e.Field, e.Expected, e.Actual)
}

// InvalidDiscriminantError is returned when an ordinary enumeration field
// decodes a value with no matching declared variant.
type InvalidDiscriminantError struct {
	Type  string
	Value uint64
}

func (e *InvalidDiscriminantError) Error() string {
	return fmt.Sprintf("bitwire: %s: no variant for discriminant %d", e.Type, e.Value)
}

// InvalidBitFieldError describes an encoded value that exceeds the
// declared bit width of its field. Generated encoders do not return it:
// they mask the value to the field's width.
type InvalidBitFieldError struct {
	Type, Field string
	Value, Max  uint64
}

func (e *InvalidBitFieldError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: value %d exceeds %d-bit range (max %d)", e.Type, e.Field, e.Value, bitsFor(e.Max), e.Max)
}

func bitsFor(max uint64) int {
	n := 0
	for max > 0 {
		n++
		max >>= 1
	}
	return n
}

// InvalidUTF8Error is returned when a text field's bytes fail UTF-8
// validation at decode.
type InvalidUTF8Error struct {
	Type, Field string
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: invalid UTF-8", e.Type, e.Field)
}

// InvalidBooleanError is returned when a boolean field's byte is neither
// 0x00 nor 0x01.
type InvalidBooleanError struct {
	Type, Field string
	Value       byte
}

func (e *InvalidBooleanError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: invalid boolean byte 0x%02x", e.Type, e.Field, e.Value)
}

// InvalidCharError is returned when a Unicode scalar field holds a value
// above 0x10FFFF or in the UTF-16 surrogate range.
type InvalidCharError struct {
	Type, Field string
	Value       uint32
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: invalid code point 0x%x", e.Type, e.Field, e.Value)
}

// MarkerNotFoundError is returned when a non-tail marker-delimited
// sequence does not find its sentinel byte.
type MarkerNotFoundError struct {
	Type, Field string
	Marker      byte
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: marker 0x%02x not found", e.Type, e.Field, e.Marker)
}

// SizeExprInvalidError is returned when a size-expr evaluates to a
// negative, non-representable, or divide-by-zero length.
type SizeExprInvalidError struct {
	Type, Field string
	Reason      string
}

func (e *SizeExprInvalidError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: invalid size expression: %s", e.Type, e.Field, e.Reason)
}

// ValueOutOfRangeError is returned when an encode call is given a value
// that cannot be represented in the field's wire width.
type ValueOutOfRangeError struct {
	Type, Field string
	Value, Max  uint64
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("bitwire: %s.%s: value %d exceeds wire limit %d", e.Type, e.Field, e.Value, e.Max)
}
