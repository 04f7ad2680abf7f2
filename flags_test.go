package bitwire

import "testing"

func permissionFlagSet() FlagSet[uint8] {
	return FlagSet[uint8]{All: []uint8{0x01, 0x02, 0x04, 0x08}} // Read, Write, Execute, Delete
}

func TestDecomposeOrdersAscending(t *testing.T) {
	fs := permissionFlagSet()
	got := Decompose(fs, 0x07)
	want := []uint8{0x01, 0x02, 0x04}
	if len(got) != len(want) {
		t.Fatalf("Decompose(0x07) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Decompose(0x07)[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestFromBitsRejectsUndeclaredBit(t *testing.T) {
	fs := permissionFlagSet()
	if _, ok := FromBits(fs, 0x10); ok {
		t.Error("FromBits(0x10) = ok, want rejected (0x10 is not a declared flag)")
	}
}

func TestFromBitsAcceptsDeclaredUnion(t *testing.T) {
	fs := permissionFlagSet()
	got, ok := FromBits(fs, 0x0B) // Read | Write | Delete
	if !ok {
		t.Fatal("FromBits(0x0B) = rejected, want accepted")
	}
	if got != 0x0B {
		t.Errorf("FromBits(0x0B) = %#x, want 0x0B", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains[uint8](0x07, 0x04) {
		t.Error("Contains(0x07, 0x04) = false, want true")
	}
	if Contains[uint8](0x03, 0x04) {
		t.Error("Contains(0x03, 0x04) = true, want false")
	}
	if Contains[uint8](0x07, 0x00) {
		t.Error("Contains(_, 0x00) = true, want false: zero is never a set bit")
	}
}

func TestComplementIsRelativeToDeclaredUnion(t *testing.T) {
	fs := permissionFlagSet()
	got := Complement(fs, 0x01) // Read set -> complement within {Read,Write,Execute,Delete}
	if got != 0x0E {
		t.Errorf("Complement(Read) = %#x, want 0x0E", got)
	}
}

func TestFlagIteratorMatchesDecompose(t *testing.T) {
	fs := permissionFlagSet()
	it := IterFlags(fs, 0x05) // Read | Execute
	var got []uint8
	for {
		f, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, f)
	}
	want := Decompose(fs, 0x05)
	if len(got) != len(want) {
		t.Fatalf("IterFlags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IterFlags()[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}
