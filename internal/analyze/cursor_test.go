package analyze

import "testing"

func TestCursorAdvanceAndAlignment(t *testing.T) {
	var c Cursor
	if !c.Aligned() {
		t.Fatal("zero cursor must be aligned")
	}

	c = c.Advance(3)
	if c.Aligned() {
		t.Error("cursor at bit 3 must not be aligned")
	}
	if c.Bytes() != 0 {
		t.Errorf("Bytes() = %d, want 0", c.Bytes())
	}

	c = c.Advance(5)
	if !c.Aligned() {
		t.Error("cursor at bit 8 must be aligned")
	}
	if c.Bytes() != 1 {
		t.Errorf("Bytes() = %d, want 1", c.Bytes())
	}
}

func TestCursorAlignToByte(t *testing.T) {
	c := Cursor(20)
	aligned, pad := c.AlignToByte()
	if pad != 4 {
		t.Errorf("pad = %d, want 4", pad)
	}
	if aligned.Bits() != 24 {
		t.Errorf("aligned.Bits() = %d, want 24", aligned.Bits())
	}

	c2 := Cursor(16)
	aligned2, pad2 := c2.AlignToByte()
	if pad2 != 0 || aligned2.Bits() != 16 {
		t.Errorf("AlignToByte() on an already-aligned cursor changed it: %v, pad=%d", aligned2, pad2)
	}
}
