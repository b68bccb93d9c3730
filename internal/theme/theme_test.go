package theme

import "testing"

func TestParse(t *testing.T) {
	for in, want := range map[string]Theme{"light": Light, "DARK": Dark, " Dark ": Dark} {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := Parse("sepia"); err == nil {
		t.Error("Parse(sepia) should fail")
	}
}

func TestToggleAndInk(t *testing.T) {
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Fatal("Toggle")
	}
	if ink := Dark.Ink(); ink.R != 1 || ink.G != 1 || ink.B != 1 {
		t.Errorf("dark ink = %v", ink)
	}
	if ink := Light.Ink(); ink.R != 0 || ink.G != 0 || ink.B != 0 {
		t.Errorf("light ink = %v", ink)
	}
}
