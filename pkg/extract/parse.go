package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	feetInchesRE = regexp.MustCompile(`^(-?)(\d+(?:\.\d+)?)'\s*(?:(\d+(?:\.\d+)?)"?)?$`)
	inchesOnlyRE = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)"$`)
)

// unitSuffixes are unit words the screen appends to values; stripped
// case-insensitively before numeric parsing.
var unitSuffixes = []string{"MPH", "KPH", "RPM", "DEGREES", "DEG", "INCHES", "IN", "FT"}

// ParseNumber converts a matched token into a float. Thousands separators,
// percent and degree signs, and trailing unit words are stripped first.
// Failure means the field stays unset, never an error.
func ParseNumber(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, ",", "")
	t = strings.ReplaceAll(t, "%", "")
	t = strings.ReplaceAll(t, "°", "")
	up := strings.ToUpper(t)
	for _, u := range unitSuffixes {
		if strings.HasSuffix(up, u) {
			t = strings.TrimSpace(t[:len(t)-len(u)])
			up = strings.ToUpper(t)
		}
	}
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFeetInches parses F'I", F' or a bare inches value ending in a quote
// and returns decimal feet. Smart-quote variants are normalized first. A
// negative feet component applies to the whole quantity. Plain numbers fall
// through to ParseNumber.
func ParseFeetInches(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	r := strings.NewReplacer("’", "'", "‘", "'", "”", `"`, "“", `"`, "″", `"`, "′", "'")
	t = r.Replace(t)
	if m := feetInchesRE.FindStringSubmatch(t); m != nil {
		feet, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		inches := 0.0
		if m[3] != "" {
			inches, err = strconv.ParseFloat(m[3], 64)
			if err != nil {
				return 0, false
			}
		}
		v := feet + inches/12
		if m[1] == "-" {
			v = -v
		}
		return v, true
	}
	if m := inchesOnlyRE.FindStringSubmatch(t); m != nil {
		inches, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return inches / 12, true
	}
	return ParseNumber(t)
}

// TiltToAngle converts a clock-face tilt like "10:15" into a 0-360 degree
// spin axis: 12:00 maps to 180 and 6:00 to 0.
func TiltToAngle(tilt string) (float64, bool) {
	t := strings.TrimSpace(tilt)
	if !clockRE.MatchString(t) {
		return 0, false
	}
	parts := strings.SplitN(t, ":", 2)
	h, err1 := strconv.ParseFloat(parts[0], 64)
	m, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || h > 12 || m >= 60 {
		return 0, false
	}
	angle := math.Mod((h+m/60)*30+180, 360)
	if angle < 0 {
		angle += 360
	}
	return angle, true
}

// AngleFromMovement derives a spin-axis angle from horizontal and vertical
// movement magnitudes when no tilt string was recognized.
func AngleFromMovement(horizontal, vertical float64) float64 {
	deg := math.Atan2(horizontal, vertical) * 180 / math.Pi
	angle := math.Mod(180+deg, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// formatNumber re-renders a parsed value the way the screen prints it, so
// the used-value set blocks both the raw token and its canonical form.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
