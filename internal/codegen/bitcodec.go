// bitcodec.go emits the decode/encode source fragments for bit-packed
// fields (spec.md §4.4). There is no teacher analogue for any of this —
// alexhholmes-layout never bit-packs anything — so the algorithm is
// ported from bebytes_derive/src/structs.rs's handle_u8_field: assemble
// the byte span a field's bits fall in in MSB-first order into a single
// accumulator, then shift-and-mask to isolate the field; on encode,
// compute the same shift, OR the shifted, masked value into the existing
// bytes so sibling fields already written to the same byte survive.
package codegen

import (
	"fmt"

	"github.com/waddleflap/bitwire/internal/analyze"
)

// bitSpan is the byte-span geometry of one bit-packed field.
type bitSpan struct {
	FirstByte  int
	NumBytes   int
	ShiftRight uint64
	Mask       uint64
}

func spanOf(f analyze.PlannedField) (bitSpan, error) {
	if f.BitWidth == 0 || f.BitWidth > 64 {
		return bitSpan{}, fmt.Errorf("%s: bit-packed field width %d is out of the 1..=64 range this generator supports", f.Name, f.BitWidth)
	}
	start := f.BitOffset.Bits()
	firstByte := int(start / 8)
	lastByte := int((start + f.BitWidth - 1) / 8)
	numBytes := lastByte - firstByte + 1
	bitSumInFirstByte := start % 8
	shiftRight := uint64(numBytes)*8 - (bitSumInFirstByte + f.BitWidth)
	var mask uint64
	if f.BitWidth == 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << f.BitWidth) - 1
	}
	return bitSpan{FirstByte: firstByte, NumBytes: numBytes, ShiftRight: shiftRight, Mask: mask}, nil
}

// decodeBitField emits Go statements that read f's bits out of byte slice
// buf starting at byte offset base, assigning the unsigned result to a
// new variable named dst. Returns the statements; the caller does its
// own cursor bookkeeping.
func decodeBitField(f analyze.PlannedField, buf, base, dst string) (string, error) {
	span, err := spanOf(f)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("\tvar %s uint64\n", dst)
	for i := 0; i < span.NumBytes; i++ {
		shift := (span.NumBytes - 1 - i) * 8
		if shift == 0 {
			out += fmt.Sprintf("\t%s |= uint64(%s[%s+%d])\n", dst, buf, base, span.FirstByte+i)
		} else {
			out += fmt.Sprintf("\t%s |= uint64(%s[%s+%d]) << %d\n", dst, buf, base, span.FirstByte+i, shift)
		}
	}
	out += fmt.Sprintf("\t%s = (%s >> %d) & 0x%x\n", dst, dst, span.ShiftRight, span.Mask)
	return out, nil
}

// encodeBitField emits Go statements that OR src's low BitWidth bits into
// byte slice buf starting at byte offset base, preserving whatever bits
// sibling fields in the same byte(s) have already written. tmp must be a
// variable name unique within the enclosing run: encodeBitField is called
// once per field in a bit-packed run, all in the same block, so a shared
// name would redeclare across calls.
func encodeBitField(f analyze.PlannedField, buf, base, src, tmp string) (string, error) {
	span, err := spanOf(f)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("\t%s := (uint64(%s) & 0x%x) << %d\n", tmp, src, span.Mask, span.ShiftRight)
	for i := 0; i < span.NumBytes; i++ {
		shift := (span.NumBytes - 1 - i) * 8
		out += fmt.Sprintf("\t%s[%s+%d] |= byte(%s >> %d)\n", buf, base, span.FirstByte+i, tmp, shift)
	}
	return out, nil
}

// lastBitPackedByte returns the last absolute byte index touched by a
// run of bit-packed fields, used by the aggregate assembler to know how
// many bytes to zero-initialize before OR-ing bit-packed fields into
// them.
func lastBitPackedByte(f analyze.PlannedField) (int, error) {
	span, err := spanOf(f)
	if err != nil {
		return 0, err
	}
	return span.FirstByte + span.NumBytes - 1, nil
}
