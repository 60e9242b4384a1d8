package flow

import "testing"

func TestTagValueAccessors(t *testing.T) {
	cases := []struct {
		name string
		v    TagValue
	}{
		{"bool", BoolTag(true)},
		{"int", IntTag(7)},
		{"float", FloatTag(3.5)},
		{"string", StringTag("hi")},
		{"bytes", BytesTag([]byte{1, 2, 3})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.v.GoString() == "" {
				t.Fatalf("GoString() returned empty string")
			}
		})
	}

	if b, ok := BoolTag(true).Bool(); !ok || !b {
		t.Fatalf("Bool() = (%v, %v), want (true, true)", b, ok)
	}
	if _, ok := BoolTag(true).Int(); ok {
		t.Fatalf("Int() on a bool TagValue reported ok=true")
	}
	if i, ok := IntTag(42).Int(); !ok || i != 42 {
		t.Fatalf("Int() = (%v, %v), want (42, true)", i, ok)
	}
	if f, ok := FloatTag(1.5).Float(); !ok || f != 1.5 {
		t.Fatalf("Float() = (%v, %v), want (1.5, true)", f, ok)
	}
	if s, ok := StringTag("x").String(); !ok || s != "x" {
		t.Fatalf("String() = (%v, %v), want (x, true)", s, ok)
	}
	if by, ok := BytesTag([]byte{9}).Bytes(); !ok || len(by) != 1 || by[0] != 9 {
		t.Fatalf("Bytes() = (%v, %v), want ([9], true)", by, ok)
	}
}
