package extract

import (
	"math"
	"testing"
)

// frag builds a fragment whose box is centered at (cx, cy).
func frag(text string, cx, cy, w, h float64) Fragment {
	return Fragment{
		Text:       text,
		Confidence: 0.9,
		Box:        Rect{MinX: cx - w/2, MaxX: cx + w/2, MinY: cy - h/2, MaxY: cy + h/2},
	}
}

func TestFindLabelExclusionWins(t *testing.T) {
	// the label contains a valid variant but also an excluded substring,
	// so it must never anchor
	c := NewCorpus([]Fragment{
		frag("SESSION AVG SPEED", 0.5, 0.8, 0.2, 0.03),
	})
	if _, ok := findLabel(c, []string{"SPEED"}, []string{"AVG"}, false); ok {
		t.Fatalf("excluded label was selected as anchor")
	}
}

func TestFindLabelRightmost(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("RELEASE SIDE", 0.2, 0.4, 0.15, 0.03),
		frag("RELEASE SIDE", 0.7, 0.4, 0.15, 0.03),
	})
	a, ok := findLabel(c, []string{"RELEASE SIDE"}, nil, true)
	if !ok || a.index != 1 {
		t.Fatalf("expected rightmost occurrence, got index %d ok=%v", a.index, ok)
	}
	a, ok = findLabel(c, []string{"RELEASE SIDE"}, nil, false)
	if !ok || a.index != 0 {
		t.Fatalf("expected first occurrence, got index %d ok=%v", a.index, ok)
	}
}

func TestFindLabelFuzzyRejectsValue(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("5.9 HEIGHT", 0.3, 0.3, 0.1, 0.03), // value rendering containing a required word
		frag("RELEASE HEIGHT", 0.3, 0.35, 0.15, 0.03),
	})
	a, ok := findLabelFuzzy(c, []string{"RELEASE", "HEIGHT"})
	if !ok || a.index != 1 {
		t.Fatalf("fuzzy match picked index %d ok=%v, want the label fragment", a.index, ok)
	}
}

func TestFindSplitLabel(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("RELEASE", 0.3, 0.42, 0.08, 0.03),
		frag("HEIGHT", 0.4, 0.40, 0.08, 0.03),
	})
	a, ok := findSplitLabel(c, "RELEASE", "HEIGHT")
	if !ok {
		t.Fatalf("split label not reconstructed")
	}
	if math.Abs(a.x-0.35) > 1e-9 {
		t.Fatalf("anchor x = %v, want midpoint 0.35", a.x)
	}
	if math.Abs(a.y-0.40) > 1e-9 {
		t.Fatalf("anchor y = %v, want lower center 0.40", a.y)
	}
}

func TestFindSplitLabelTooFarApart(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("RELEASE", 0.1, 0.42, 0.08, 0.03),
		frag("HEIGHT", 0.5, 0.55, 0.08, 0.03), // vertical gap beyond tolerance
	})
	if _, ok := findSplitLabel(c, "RELEASE", "HEIGHT"); ok {
		t.Fatalf("distant fragments reconstructed as one label")
	}
}
