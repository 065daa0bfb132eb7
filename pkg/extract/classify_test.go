package extract

import "testing"

func TestLooksLikeValue(t *testing.T) {
	cases := map[string]bool{
		"95.0":           true,
		"10:15":          true,
		"-13.5":          true,
		"70%":            true,
		"2,405":          true,
		"RELEASE HEIGHT": false,
		"PITCH SPEED":    false,
		"MPH":            false,
		"":               false,
	}
	for in, want := range cases {
		if got := looksLikeValue(in); got != want {
			t.Fatalf("looksLikeValue(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsKnownLabel(t *testing.T) {
	cases := map[string]bool{
		"PITCH SPEED":       true,
		"pitch speed":       true,
		"TOTAL SPIN (RPM)":  true, // substring of a catalogue entry
		"MPH":               true,
		"RPM":               true,
		"SOMELONGWORD":      true, // long non-numeric text presumed label
		"95.3":              false,
		"10:15":             false,
		"FF":                false,
		"2400 RPM SESSION":  false, // digits present, not a bare label
	}
	for in, want := range cases {
		if got := isKnownLabel(in); got != want {
			t.Fatalf("isKnownLabel(%q) = %v, want %v", in, got, want)
		}
	}
}
