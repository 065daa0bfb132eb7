package extract

import "math"

// Vertical band for "right of label" searches: the value sits on the same
// text line as the label.
const rightBandDY = 0.05

// searchValue iterates the corpus for the best value fragment relative to
// the anchor per the FieldSpec. Fragments that classify as labels, sit in
// the used set, or fall outside the region bounds are skipped. Returns the
// matched text, or "" when nothing qualifies.
func searchValue(c *Corpus, a anchor, spec FieldSpec, used *usedValues) string {
	bestIdx := -1
	bestScore := math.Inf(1)
	bestHeight := -1.0

	for i := 0; i < c.Len(); i++ {
		if i == a.index {
			continue
		}
		f := c.Fragments[i]
		t := c.Upper(i)
		if t == "" || isKnownLabel(t) || !looksLikeValue(t) {
			continue
		}
		if used.has(f.Text) {
			continue
		}
		cx, cy := f.Box.CenterX(), f.Box.CenterY()
		if spec.MinValueX > 0 && cx < spec.MinValueX {
			continue
		}
		if spec.MaxValueY > 0 && cy > spec.MaxValueY {
			continue
		}

		var score float64
		switch spec.Dir {
		case SearchBelow:
			dy := a.y - cy
			dx := cx - a.x
			if dy <= 0 || dy > spec.MaxDY {
				continue
			}
			if math.Abs(dx) > spec.MaxDX {
				continue
			}
			score = dy + 2*math.Abs(dx)
		case SearchRight:
			dx := cx - a.x
			dy := cy - a.y
			if dx <= 0 || dx > spec.MaxDX {
				continue
			}
			if math.Abs(dy) > rightBandDY {
				continue
			}
			score = dx + 2*math.Abs(dy)
		case SearchNearest:
			d := math.Hypot(cx-a.x, cy-a.y)
			if d > spec.MaxDX {
				continue
			}
			score = d
		}

		if spec.PreferLargest && spec.Dir == SearchBelow {
			// Largest rendering is the live readout, not the history strip.
			if h := f.Box.Height(); h > bestHeight {
				bestHeight = h
				bestIdx = i
			}
			continue
		}
		if score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return ""
	}
	return c.Fragments[bestIdx].Text
}
