package recognize

import (
	"testing"

	"pitchlab/pkg/extract"
)

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  PITCH \n SPEED "); got != "PITCH SPEED" {
		t.Fatalf("normalizeText = %q", got)
	}
	if got := normalizeText("\n\t"); got != "" {
		t.Fatalf("normalizeText(whitespace) = %q", got)
	}
}

func TestFragKeyDedupes(t *testing.T) {
	a := extract.Fragment{Text: "95.3", Box: extract.Rect{MinX: 0.40, MaxX: 0.50, MinY: 0.60, MaxY: 0.66}}
	b := extract.Fragment{Text: "95.3", Box: extract.Rect{MinX: 0.401, MaxX: 0.501, MinY: 0.601, MaxY: 0.661}}
	if fragKey(a) != fragKey(b) {
		t.Fatalf("near-identical boxes did not collapse: %q vs %q", fragKey(a), fragKey(b))
	}
	c := extract.Fragment{Text: "95.3", Box: extract.Rect{MinX: 0.10, MaxX: 0.20, MinY: 0.60, MaxY: 0.66}}
	if fragKey(a) == fragKey(c) {
		t.Fatalf("distinct positions collapsed")
	}
}
