package extract

import (
	"math"
	"strings"
)

// anchor is a resolved label position to search from. For single-fragment
// matches index is the fragment's corpus index; for split-label matches the
// anchor is virtual and index is -1.
type anchor struct {
	x, y  float64
	index int
}

// findLabel scans the corpus for a fragment whose uppercased text contains
// any of the variants and none of the exclusions. With preferRightmost the
// whole corpus is scanned and the occurrence with the largest horizontal
// center wins; otherwise the first hit in corpus order is returned.
func findLabel(c *Corpus, variants, exclusions []string, preferRightmost bool) (anchor, bool) {
	best := anchor{index: -1}
	found := false
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if t == "" || !containsAny(t, variants) {
			continue
		}
		if containsAny(t, exclusions) {
			continue
		}
		box := c.Fragments[i].Box
		a := anchor{x: box.CenterX(), y: box.CenterY(), index: i}
		if !preferRightmost {
			return a, true
		}
		if !found || a.x > best.x {
			best = a
			found = true
		}
	}
	return best, found
}

// findLabelFuzzy matches a fragment containing all required substrings.
// The value guard keeps a number whose rendering happens to contain one of
// the substrings from being mistaken for the label itself.
func findLabelFuzzy(c *Corpus, required []string) (anchor, bool) {
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if t == "" || looksLikeValue(t) {
			continue
		}
		if containsAll(t, required) {
			box := c.Fragments[i].Box
			return anchor{x: box.CenterX(), y: box.CenterY(), index: i}, true
		}
	}
	return anchor{index: -1}, false
}

// Tolerances for reassembling a label that recognition split into two
// fragments; the pieces must be close enough to be visually one label.
const (
	splitMaxDX = 0.3
	splitMaxDY = 0.06
)

// findSplitLabel reconstructs a two-word label recognition broke apart.
// The virtual anchor sits at the horizontal midpoint of the two centers and
// at the lower of the two vertical centers, which keeps the "below" distance
// to the value small.
func findSplitLabel(c *Corpus, word1, word2 string) (anchor, bool) {
	for i := 0; i < c.Len(); i++ {
		if !containsAny(c.Upper(i), []string{word1}) {
			continue
		}
		b1 := c.Fragments[i].Box
		for j := 0; j < c.Len(); j++ {
			if j == i || !containsAny(c.Upper(j), []string{word2}) {
				continue
			}
			b2 := c.Fragments[j].Box
			if math.Abs(b1.CenterX()-b2.CenterX()) > splitMaxDX {
				continue
			}
			if math.Abs(b1.CenterY()-b2.CenterY()) > splitMaxDY {
				continue
			}
			return anchor{
				x:     (b1.CenterX() + b2.CenterX()) / 2,
				y:     math.Min(b1.CenterY(), b2.CenterY()),
				index: -1,
			}, true
		}
	}
	return anchor{index: -1}, false
}

func containsAny(t string, subs []string) bool {
	for _, s := range subs {
		if s != "" && strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func containsAll(t string, subs []string) bool {
	for _, s := range subs {
		if !strings.Contains(t, s) {
			return false
		}
	}
	return len(subs) > 0
}
