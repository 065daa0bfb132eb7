package extract

import "strings"

// Rect is a normalized bounding box with coordinates in [0,1].
// The vertical axis increases upward (Vision-style), so MinY is the
// bottom edge of the box on screen.
type Rect struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }
func (r Rect) CenterY() float64 { return (r.MinY + r.MaxY) / 2 }
func (r Rect) Width() float64   { return r.MaxX - r.MinX }
func (r Rect) Height() float64  { return r.MaxY - r.MinY }

// Fragment is one recognized piece of text from the tracker screen,
// produced by the recognition adapter. Fragments are never mutated.
type Fragment struct {
	Text       string
	Confidence float64 // [0,1]
	Box        Rect
}

// Corpus holds the full fragment set for one extraction pass plus an
// uppercased-text index built once for matching. Read-only after NewCorpus.
type Corpus struct {
	Fragments []Fragment
	upper     []string
}

func NewCorpus(fragments []Fragment) *Corpus {
	c := &Corpus{Fragments: fragments, upper: make([]string, len(fragments))}
	for i, f := range fragments {
		c.upper[i] = strings.ToUpper(strings.TrimSpace(f.Text))
	}
	return c
}

// Upper returns the uppercased trimmed text of fragment i.
func (c *Corpus) Upper(i int) string { return c.upper[i] }

func (c *Corpus) Len() int { return len(c.Fragments) }
