package recognize

import (
	"fmt"
	"strings"

	"pitchlab/pkg/extract"
)

// normalizeText collapses whitespace inside a recognized line.
func normalizeText(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

// fragKey dedupes fragments the two OCR passes both produced. Position is
// bucketed coarsely so slightly shifted boxes of the same line collapse.
func fragKey(f extract.Fragment) string {
	return fmt.Sprintf("%s|%.2f|%.2f", strings.ToUpper(f.Text), f.Box.CenterX(), f.Box.CenterY())
}
