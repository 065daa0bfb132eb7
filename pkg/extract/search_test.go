package extract

import "testing"

func TestSearchBelowBoundEnforced(t *testing.T) {
	const maxDY = 0.12
	c := NewCorpus([]Fragment{
		frag("95.3", 0.5, 0.5-maxDY-0.001, 0.1, 0.04), // just past the bound
	})
	spec := FieldSpec{Name: FieldSpeed, Dir: SearchBelow, MaxDX: 0.2, MaxDY: maxDY}
	got := searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, newUsedValues())
	if got != "" {
		t.Fatalf("candidate beyond maxVerticalDistance selected: %q", got)
	}
	// move it inside the bound and it qualifies
	c = NewCorpus([]Fragment{
		frag("95.3", 0.5, 0.5-maxDY+0.01, 0.1, 0.04),
	})
	got = searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, newUsedValues())
	if got != "95.3" {
		t.Fatalf("in-bound candidate not selected, got %q", got)
	}
}

func TestSearchBelowScoring(t *testing.T) {
	// lateral offset is penalized twice as hard as vertical distance
	c := NewCorpus([]Fragment{
		frag("90.0", 0.62, 0.46, 0.1, 0.04), // dy 0.04, dx 0.12 -> 0.28
		frag("95.3", 0.50, 0.42, 0.1, 0.04), // dy 0.08, dx 0.00 -> 0.08
	})
	spec := FieldSpec{Name: FieldSpeed, Dir: SearchBelow, MaxDX: 0.2, MaxDY: 0.15}
	got := searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, newUsedValues())
	if got != "95.3" {
		t.Fatalf("scoring picked %q, want 95.3", got)
	}
}

func TestSearchRightBand(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("31", 0.62, 0.50, 0.05, 0.03),  // same line
		frag("88", 0.58, 0.42, 0.05, 0.03),  // outside the vertical band
	})
	spec := FieldSpec{Name: FieldGyro, Dir: SearchRight, MaxDX: 0.3}
	got := searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, newUsedValues())
	if got != "31" {
		t.Fatalf("right search picked %q, want 31", got)
	}
}

func TestSearchSkipsUsedAndLabels(t *testing.T) {
	used := newUsedValues()
	used.add("95.3")
	c := NewCorpus([]Fragment{
		frag("MPH", 0.5, 0.46, 0.05, 0.03),
		frag("95.3", 0.5, 0.44, 0.1, 0.04),
		frag("92.1", 0.5, 0.42, 0.1, 0.04),
	})
	spec := FieldSpec{Name: FieldSpeed, Dir: SearchBelow, MaxDX: 0.2, MaxDY: 0.15}
	got := searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, used)
	if got != "92.1" {
		t.Fatalf("got %q, want 92.1 (used token and unit label skipped)", got)
	}
}

func TestSearchPreferLargestFont(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("88.9", 0.5, 0.46, 0.08, 0.02), // history strip, closer but small
		frag("95.3", 0.5, 0.40, 0.12, 0.07), // live readout
	})
	spec := FieldSpec{Name: FieldSpeed, Dir: SearchBelow, MaxDX: 0.2, MaxDY: 0.15, PreferLargest: true}
	got := searchValue(c, anchor{x: 0.5, y: 0.5, index: -1}, spec, newUsedValues())
	if got != "95.3" {
		t.Fatalf("largest-font ranking picked %q, want 95.3", got)
	}
}

func TestFallbackWindowFiltersRegionAndRange(t *testing.T) {
	w := &fallbackWindow{minX: 0.35, maxX: 1.0, minY: 0.5, maxY: 1.0, preferLargest: true, plausible: Range{Min: 30, Max: 106}}
	c := NewCorpus([]Fragment{
		frag("2405", 0.6, 0.7, 0.1, 0.05),  // implausible as a speed
		frag("95.3", 0.6, 0.65, 0.1, 0.04), // plausible, in window
		frag("88.0", 0.2, 0.65, 0.1, 0.08), // left of the window
	})
	if got := searchFallback(c, w, newUsedValues()); got != "95.3" {
		t.Fatalf("fallback picked %q, want 95.3", got)
	}
}
