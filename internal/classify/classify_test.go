package classify

import "testing"

func TestClassifyPrimitives(t *testing.T) {
	tests := []struct {
		goType string
		kind   Kind
		size   int
	}{
		{"byte", KindPrimitive, 1},
		{"uint8", KindPrimitive, 1},
		{"bool", KindBool, 1},
		{"uint16", KindPrimitive, 2},
		{"int32", KindPrimitive, 4},
		{"float32", KindPrimitive, 4},
		{"uint64", KindPrimitive, 8},
		{"rune", KindChar, 4},
	}
	reg := NewRegistry()
	for _, tt := range tests {
		c, err := Classify(tt.goType, reg)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tt.goType, err)
		}
		if c.Kind != tt.kind || c.StaticSize != tt.size {
			t.Errorf("Classify(%q) = {%v %d}, want {%v %d}", tt.goType, c.Kind, c.StaticSize, tt.kind, tt.size)
		}
	}
}

func TestClassifyArraysAndSlices(t *testing.T) {
	reg := NewRegistry()

	c, err := Classify("[16]byte", reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindArray || c.StaticSize != 16 || c.ArrayLen != 16 {
		t.Errorf("got %+v, want array of 16 bytes", c)
	}

	c, err = Classify("[]byte", reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindSlice || c.StaticSize != -1 {
		t.Errorf("got %+v, want dynamic slice", c)
	}
}

func TestClassifyAggregatesAndEnums(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAggregate("Header", 4)
	reg.RegisterEnum("Status", "uint8", false)
	reg.RegisterEnum("Permission", "uint8", true)
	reg.RegisterAlias("PageID", "uint64")

	c, err := Classify("Header", reg)
	if err != nil || c.Kind != KindAggregate || c.StaticSize != 4 {
		t.Errorf("Classify(Header) = %+v, err=%v", c, err)
	}

	c, err = Classify("Status", reg)
	if err != nil || c.Kind != KindEnum || c.StaticSize != 1 {
		t.Errorf("Classify(Status) = %+v, err=%v", c, err)
	}

	c, err = Classify("Permission", reg)
	if err != nil || c.Kind != KindFlagEnum {
		t.Errorf("Classify(Permission) = %+v, err=%v", c, err)
	}

	c, err = Classify("PageID", reg)
	if err != nil || c.Kind != KindPrimitive || c.StaticSize != 8 {
		t.Errorf("Classify(PageID) = %+v, err=%v", c, err)
	}
}

func TestClassifyArrayOfAggregate(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAggregate("Entry", 8)

	c, err := Classify("[4]Entry", reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindArray || c.StaticSize != 32 {
		t.Errorf("got %+v, want array of 4x8=32 bytes", c)
	}
}

func TestClassifyErrors(t *testing.T) {
	reg := NewRegistry()
	cases := []string{"*Header", "Nonexistent"}
	for _, c := range cases {
		if _, err := Classify(c, reg); err == nil {
			t.Errorf("Classify(%q) expected error, got nil", c)
		}
	}
}

func TestClassifyOptionalPrimitive(t *testing.T) {
	reg := NewRegistry()
	c, err := Classify("*uint16", reg)
	if err != nil {
		t.Fatalf("Classify(\"*uint16\") error: %v", err)
	}
	if c.Kind != KindOptional || c.StaticSize != 3 || c.ElemType != "uint16" {
		t.Errorf("Classify(\"*uint16\") = %+v, want {Kind:optional StaticSize:3 ElemType:uint16}", c)
	}
}

func TestClassifyOptionalRejectsAggregateElement(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAggregate("Coord", 4)
	if _, err := Classify("*Coord", reg); err == nil {
		t.Error("Classify(\"*Coord\") expected error: optional only wraps primitive/bool/char, got nil")
	}
}

func TestClassifyText(t *testing.T) {
	reg := NewRegistry()
	c, err := Classify("string", reg)
	if err != nil {
		t.Fatalf("Classify(\"string\") error: %v", err)
	}
	if c.Kind != KindText || c.StaticSize != -1 {
		t.Errorf("Classify(\"string\") = %+v, want {Kind:text StaticSize:-1}", c)
	}
}
