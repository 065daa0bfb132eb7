package extract

import (
	"regexp"
	"strings"
)

// pitchCodes are the tracker's two-letter pitch-variant codes, matching the
// set the scoring service accepts.
var pitchCodes = []string{"FF", "SI", "FC", "SL", "CU", "CH", "ST", "FS", "KC"}

// pitchKeywords maps descriptive on-screen pitch names to their codes.
// Longer names first so "KNUCKLE CURVE" wins over "CURVE".
var pitchKeywords = []struct {
	word string
	code string
}{
	{"KNUCKLE CURVE", "KC"},
	{"KNUCKLEBALL", "KC"},
	{"FOUR SEAM", "FF"},
	{"4-SEAM", "FF"},
	{"TWO SEAM", "SI"},
	{"2-SEAM", "SI"},
	{"FASTBALL", "FF"},
	{"SINKER", "SI"},
	{"CUTTER", "FC"},
	{"SLIDER", "SL"},
	{"SWEEPER", "ST"},
	{"CURVEBALL", "CU"},
	{"CURVE", "CU"},
	{"CHANGEUP", "CH"},
	{"CHANGE UP", "CH"},
	{"SPLITTER", "FS"},
	{"SPLIT", "FS"},
}

var taggedCodeRE = regexp.MustCompile(`\b(FF|SI|FC|SL|CU|CH|ST|FS|KC)\b`)

// Standalone two-letter codes are believed only near the top of the screen
// where the session header sits; anywhere else a bare pair of letters is
// more likely recognition noise.
const headerBandMinY = 0.75

// findPitchType resolves the pitch-variant code: explicit tagged code
// first, then descriptive keyword, then a standalone code filtered by
// screen region. First hit wins.
func findPitchType(c *Corpus) string {
	// tagged: the code appears inside a longer annotated fragment
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if len(t) <= 2 {
			continue
		}
		if !strings.Contains(t, "PITCH") && !strings.Contains(t, "TYPE") && !strings.Contains(t, "-") {
			continue
		}
		if m := taggedCodeRE.FindString(t); m != "" {
			return m
		}
	}
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		for _, kw := range pitchKeywords {
			if strings.Contains(t, kw.word) {
				return kw.code
			}
		}
	}
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if len(t) != 2 {
			continue
		}
		if c.Fragments[i].Box.CenterY() < headerBandMinY {
			continue
		}
		for _, code := range pitchCodes {
			if t == code {
				return code
			}
		}
	}
	return ""
}

// findHand resolves throwing orientation to "R" or "L": RHP/LHP tag, then
// a descriptive word, then a standalone RH/LH code in the header band.
func findHand(c *Corpus) string {
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if strings.Contains(t, "RHP") {
			return "R"
		}
		if strings.Contains(t, "LHP") {
			return "L"
		}
	}
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if strings.Contains(t, "RIGHT HANDED") || strings.Contains(t, "RIGHT-HANDED") {
			return "R"
		}
		if strings.Contains(t, "LEFT HANDED") || strings.Contains(t, "LEFT-HANDED") {
			return "L"
		}
	}
	for i := 0; i < c.Len(); i++ {
		t := c.Upper(i)
		if c.Fragments[i].Box.CenterY() < headerBandMinY {
			continue
		}
		if t == "RH" {
			return "R"
		}
		if t == "LH" {
			return "L"
		}
	}
	return ""
}
