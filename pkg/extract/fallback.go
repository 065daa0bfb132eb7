package extract

// fallbackWindow is a hard-coded normalized screen region believed to hold
// a field's value on the known layout family. Label-free and strictly
// lower-confidence: consulted only after every label-anchored strategy has
// failed for the field.
type fallbackWindow struct {
	minX, maxX    float64
	minY, maxY    float64
	preferLargest bool
	clockOnly     bool
	plausible     Range
}

// searchFallback scans the whole corpus for numeric (or clock-format, when
// clockOnly) fragments inside the window, preferring the largest rendering
// when configured, otherwise the first plausible hit in corpus order.
func searchFallback(c *Corpus, w *fallbackWindow, used *usedValues) string {
	bestIdx := -1
	bestHeight := -1.0
	for i := 0; i < c.Len(); i++ {
		f := c.Fragments[i]
		t := c.Upper(i)
		if t == "" || isKnownLabel(t) || used.has(f.Text) {
			continue
		}
		if w.clockOnly {
			if !clockRE.MatchString(t) {
				continue
			}
		} else if !looksLikeValue(t) {
			continue
		}
		cx, cy := f.Box.CenterX(), f.Box.CenterY()
		if cx < w.minX || cx > w.maxX || cy < w.minY || cy > w.maxY {
			continue
		}
		if !w.clockOnly && (w.plausible.Min != 0 || w.plausible.Max != 0) {
			v, ok := ParseNumber(f.Text)
			if !ok || !w.plausible.contains(v) {
				continue
			}
		}
		if w.preferLargest {
			if h := f.Box.Height(); h > bestHeight {
				bestHeight = h
				bestIdx = i
			}
			continue
		}
		return f.Text
	}
	if bestIdx < 0 {
		return ""
	}
	return c.Fragments[bestIdx].Text
}
