package task

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		in       string
		wantBool bool
		isBool   bool
	}{
		{"True", true, true},
		{"False", false, true},
		{"true", false, false},
		{"", false, false},
		{"Finance", false, false},
	}
	for _, tt := range tests {
		v := ParseValue(tt.in)
		b, ok := v.AsBool()
		if ok != tt.isBool || b != tt.wantBool {
			t.Errorf("ParseValue(%q) = (%v, %v), want (%v, %v)", tt.in, b, ok, tt.wantBool, tt.isBool)
		}
		if v.String() != tt.in {
			t.Errorf("ParseValue(%q).String() = %q", tt.in, v.String())
		}
	}
}

func TestAttrs_OrderAndOverwrite(t *testing.T) {
	var a Attrs
	a.Set("b", Text("1"))
	a.Set("a", Text("2"))
	a.Set("b", Text("3"))

	keys := a.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if v, _ := a.Get("b"); v.String() != "3" {
		t.Errorf("expected overwritten value 3, got %q", v.String())
	}

	a.Delete("b")
	if a.Len() != 1 || a.Keys()[0] != "a" {
		t.Errorf("unexpected attrs after delete: %s", a.String())
	}
}

func TestAttrs_CloneIsIndependent(t *testing.T) {
	a := NewAttrs()
	a.Set("k", Bool(true))
	c := a.Clone()
	c.Set("k", Bool(false))
	c.Set("x", Text("y"))

	if v, _ := a.Get("k"); v != Bool(true) {
		t.Error("clone modified the original")
	}
	if a.Equal(c) {
		t.Error("expected clone to differ after modification")
	}
}
