package tag

import "testing"

func TestParseTagBits(t *testing.T) {
	tests := []struct {
		tag      string
		wantBits int
		wantAuto bool
		wantErr  bool
	}{
		{"bits=4", 4, false, false},
		{"bits=1", 1, false, false},
		{"bits=128", 128, false, false},
		{"bits=auto", 0, true, false},
		{"bits", 0, true, false},
		{"bits=0", 0, false, true},
		{"bits=129", 0, false, true},
		{"bits=xyz", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTag(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTag(%q) expected error, got nil", tt.tag)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.tag, err)
			}
			if got.BitWidth != tt.wantBits {
				t.Errorf("ParseTag(%q).BitWidth = %d, want %d", tt.tag, got.BitWidth, tt.wantBits)
			}
			if got.BitWidthAuto != tt.wantAuto {
				t.Errorf("ParseTag(%q).BitWidthAuto = %v, want %v", tt.tag, got.BitWidthAuto, tt.wantAuto)
			}
		})
	}
}

func TestParseTagSizeAndMarkers(t *testing.T) {
	d, err := ParseTag("size=16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasFixedSize || d.FixedSize != 16 {
		t.Errorf("got HasFixedSize=%v FixedSize=%d, want true 16", d.HasFixedSize, d.FixedSize)
	}

	d, err = ParseTag("until=0x00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasMarkerUntil || d.MarkerUntil != 0x00 {
		t.Errorf("got HasMarkerUntil=%v MarkerUntil=%d, want true 0", d.HasMarkerUntil, d.MarkerUntil)
	}

	d, err = ParseTag("after=A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasMarkerAfter || d.MarkerAfter != 'A' {
		t.Errorf("got HasMarkerAfter=%v MarkerAfter=%d, want true %d", d.HasMarkerAfter, d.MarkerAfter, 'A')
	}

	if _, err := ParseTag("until=0x00,after=0x01"); err == nil {
		t.Error("ParseTag with both until and after should error")
	}

	if _, err := ParseTag("until=\xff"); err == nil {
		t.Error("ParseTag with a non-ASCII marker character should error")
	}
}

func TestParseTagSizeFromAndExpr(t *testing.T) {
	d, err := ParseTag("size-from=Header.Count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SizeFromPath != "Header.Count" {
		t.Errorf("SizeFromPath = %q, want %q", d.SizeFromPath, "Header.Count")
	}

	d, err = ParseTag("size-expr=Len-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SizeExpr == nil {
		t.Fatal("SizeExpr not populated")
	}
	if got, want := d.SizeExpr.String(), "(Len - 4)"; got != want {
		t.Errorf("SizeExpr.String() = %q, want %q", got, want)
	}
}

func TestParseTagEndian(t *testing.T) {
	d, err := ParseTag("endian=big")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ByteOrder != "big" {
		t.Errorf("ByteOrder = %q, want big", d.ByteOrder)
	}

	if _, err := ParseTag("endian=middle"); err == nil {
		t.Error("ParseTag with an invalid endian should error")
	}
}

func TestParseTagEmpty(t *testing.T) {
	d, err := ParseTag("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.BitWidth != 0 || d.HasFixedSize || d.SizeFromPath != "" {
		t.Errorf("empty tag should produce a zero-value Directive, got %+v", d)
	}
}

func TestParseTagCombined(t *testing.T) {
	d, err := ParseTag("bits=6,endian=big")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.BitWidth != 6 || d.ByteOrder != "big" {
		t.Errorf("got BitWidth=%d ByteOrder=%q, want 6 big", d.BitWidth, d.ByteOrder)
	}
}
