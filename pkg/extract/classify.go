package extract

import (
	"regexp"
	"strings"
)

var clockRE = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// knownLabels is the catalogue of label text the tracker screen renders.
// Multi-word entries are also matched as substrings so partial recognitions
// like "TOTAL SPIN (RPM)" still count as labels.
var knownLabels = []string{
	"PITCH SPEED",
	"TOTAL SPIN",
	"TRUE SPIN",
	"SPIN EFFICIENCY",
	"ACTIVE SPIN",
	"SPIN DIRECTION",
	"SPIN AXIS",
	"RELEASE HEIGHT",
	"RELEASE SIDE",
	"RELEASE ANGLE",
	"RELEASE EXTENSION",
	"EXTENSION",
	"INDUCED VERTICAL BREAK",
	"VERTICAL BREAK",
	"HORIZONTAL BREAK",
	"GYRO DEGREE",
	"STRIKE ZONE ANALYSIS",
	"PITCH MOVEMENT",
	"RELEASE POINT",
	"SESSION AVG",
	"LAST PITCH",
	"TILT",
	"GYRO",
	"SPEED",
	"SPIN",
}

// unitTokens are bare unit strings that annotate values on the screen and
// must never be picked up as values themselves.
var unitTokens = map[string]struct{}{
	"MPH":    {},
	"KPH":    {},
	"RPM":    {},
	"FT":     {},
	"IN":     {},
	"INCHES": {},
	"DEG":    {},
	"DEGREES": {},
	"%":      {},
	"HH:MM":  {},
}

// looksLikeValue reports whether text plausibly holds a measurement: either
// a clock-format pair like "10:15" or anything containing a decimal digit.
func looksLikeValue(text string) bool {
	t := strings.TrimSpace(text)
	if clockRE.MatchString(t) {
		return true
	}
	return strings.ContainsAny(t, "0123456789")
}

// isKnownLabel reports whether text is a label or unit rather than a value.
// Long non-numeric text is presumed to be a label; that heuristic can
// misclassify long alphanumeric codes but downstream accuracy was tuned
// against it, so it stays.
func isKnownLabel(text string) bool {
	t := strings.ToUpper(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	for _, l := range knownLabels {
		if t == l {
			return true
		}
		if len(l) > 4 && strings.Contains(l, " ") && strings.Contains(t, l) {
			return true
		}
	}
	if _, ok := unitTokens[t]; ok {
		return true
	}
	if !strings.ContainsAny(t, "0123456789") && len(t) > 4 {
		return true
	}
	return false
}
