package extract

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"95.3", 95.3, true},
		{"2,405", 2405, true},
		{"70%", 70, true},
		{"12°", 12, true},
		{"88 MPH", 88, true},
		{"2400 rpm", 2400, true},
		{"-13.5", -13.5, true},
		{"PITCH SPEED", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || (ok && !almostEqual(got, c.want)) {
			t.Fatalf("ParseNumber(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseFeetInches(t *testing.T) {
	got, ok := ParseFeetInches(`5'4"`)
	if !ok || !almostEqual(got, 5.0+4.0/12.0) {
		t.Fatalf(`ParseFeetInches(5'4") = %v,%v`, got, ok)
	}
	got, ok = ParseFeetInches(`-2'8"`)
	if !ok || !almostEqual(got, -(2.0+8.0/12.0)) {
		t.Fatalf(`ParseFeetInches(-2'8") = %v,%v`, got, ok)
	}
	// smart quotes normalize
	got, ok = ParseFeetInches("6’1”")
	if !ok || !almostEqual(got, 6.0+1.0/12.0) {
		t.Fatalf("ParseFeetInches(smart quotes) = %v,%v", got, ok)
	}
	// feet only
	got, ok = ParseFeetInches("6'")
	if !ok || !almostEqual(got, 6.0) {
		t.Fatalf("ParseFeetInches(6') = %v,%v", got, ok)
	}
	// plain number falls back to numeric parse
	got, ok = ParseFeetInches("5.75")
	if !ok || !almostEqual(got, 5.75) {
		t.Fatalf("ParseFeetInches(5.75) = %v,%v", got, ok)
	}
	if _, ok := ParseFeetInches("HEIGHT"); ok {
		t.Fatalf("ParseFeetInches(HEIGHT) parsed unexpectedly")
	}
}

func TestTiltToAngle(t *testing.T) {
	got, ok := TiltToAngle("12:00")
	if !ok || !almostEqual(got, 180.0) {
		t.Fatalf("TiltToAngle(12:00) = %v,%v", got, ok)
	}
	got, ok = TiltToAngle("6:00")
	if !ok || !almostEqual(got, 0.0) {
		t.Fatalf("TiltToAngle(6:00) = %v,%v", got, ok)
	}
	got, ok = TiltToAngle("10:15")
	if !ok || !almostEqual(got, 127.5) {
		t.Fatalf("TiltToAngle(10:15) = %v,%v", got, ok)
	}
	if _, ok := TiltToAngle("95.3"); ok {
		t.Fatalf("TiltToAngle accepted a plain number")
	}
}

func TestAngleFromMovement(t *testing.T) {
	// pure vertical movement points straight up the clock face
	if got := AngleFromMovement(0, 17); !almostEqual(got, 180) {
		t.Fatalf("AngleFromMovement(0,17) = %v", got)
	}
	if got := AngleFromMovement(17, 0); !almostEqual(got, 270) {
		t.Fatalf("AngleFromMovement(17,0) = %v", got)
	}
}
