package extract

import "testing"

func fv(p *float64) float64 {
	if p == nil {
		return -9999
	}
	return *p
}

func TestExtractSpeedPrefersRegionBound(t *testing.T) {
	// the 92.0 reading sits left of the speed panel region and must lose
	// even though it is just as close to the anchor
	c := NewCorpus([]Fragment{
		frag("92.0", 0.34, 0.55, 0.1, 0.05),
		frag("PITCH SPEED", 0.45, 0.6, 0.15, 0.03),
		frag("95.3", 0.45, 0.55, 0.1, 0.05),
	})
	r := ExtractRecord(c)
	if r.Speed == nil || fv(r.Speed) != 95.3 {
		t.Fatalf("speed = %v, want 95.3", fv(r.Speed))
	}
}

func TestMutualExclusionAcrossFields(t *testing.T) {
	// one spin reading under two spin labels: the first field in priority
	// order claims it, the second must stay unset rather than reuse it
	c := NewCorpus([]Fragment{
		frag("TOTAL SPIN", 0.3, 0.52, 0.12, 0.03),
		frag("ACTIVE SPIN", 0.42, 0.52, 0.12, 0.03),
		frag("2405", 0.36, 0.45, 0.1, 0.04),
	})
	r := ExtractRecord(c)
	if r.TotalSpin == nil || fv(r.TotalSpin) != 2405 {
		t.Fatalf("total spin = %v, want 2405", fv(r.TotalSpin))
	}
	if r.ActiveSpin != nil {
		t.Fatalf("active spin reused the total-spin token: %v", fv(r.ActiveSpin))
	}
}

func TestFallbackNeverOverridesLabelMatch(t *testing.T) {
	// a bigger number lives inside the speed fallback window; with a valid
	// label anchor present it must be ignored
	c := NewCorpus([]Fragment{
		frag("PITCH SPEED", 0.5, 0.72, 0.15, 0.03),
		frag("95.3", 0.5, 0.66, 0.1, 0.05),
		frag("101.0", 0.9, 0.6, 0.12, 0.09),
	})
	r := ExtractRecord(c)
	if r.Speed == nil || fv(r.Speed) != 95.3 {
		t.Fatalf("speed = %v, want label-anchored 95.3", fv(r.Speed))
	}
}

func TestPlausibilityFailureCascades(t *testing.T) {
	// the label-anchored candidate is not a plausible speed, so the

	// cascade continues down to the positional fallback
	c := NewCorpus([]Fragment{
		frag("PITCH SPEED", 0.5, 0.72, 0.15, 0.03),
		frag("2405", 0.5, 0.66, 0.1, 0.05),
		frag("94.1", 0.6, 0.6, 0.1, 0.05),
	})
	r := ExtractRecord(c)
	if r.Speed == nil || fv(r.Speed) != 94.1 {
		t.Fatalf("speed = %v, want fallback 94.1", fv(r.Speed))
	}
}

func TestTiltAndDerivedAxis(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("SPIN DIRECTION", 0.3, 0.4, 0.15, 0.03),
		frag("10:15", 0.3, 0.34, 0.08, 0.04),
	})
	r := ExtractRecord(c)
	if r.Tilt == nil || *r.Tilt != "10:15" {
		t.Fatalf("tilt = %v, want 10:15", r.Tilt)
	}
	if r.SpinAxis == nil || !almostEqual(*r.SpinAxis, 127.5) {
		t.Fatalf("spin axis = %v, want 127.5", fv(r.SpinAxis))
	}
}

func TestAxisDerivedFromMovement(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("INDUCED VERTICAL BREAK", 0.3, 0.5, 0.2, 0.03),
		frag("17.0", 0.3, 0.44, 0.08, 0.04),
		frag("HORIZONTAL BREAK", 0.6, 0.5, 0.2, 0.03),
		frag("0.0", 0.6, 0.44, 0.08, 0.04),
	})
	r := ExtractRecord(c)
	if r.IVB == nil || r.HB == nil {
		t.Fatalf("movement fields missing: ivb=%v hb=%v", r.IVB, r.HB)
	}
	if r.SpinAxis == nil || !almostEqual(*r.SpinAxis, 180) {
		t.Fatalf("derived axis = %v, want 180", fv(r.SpinAxis))
	}
}

func TestReleaseGeometryFeetInches(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("RELEASE HEIGHT", 0.2, 0.3, 0.15, 0.03),
		frag("5'9\"", 0.2, 0.24, 0.08, 0.04),
	})
	r := ExtractRecord(c)
	if r.ReleaseHeight == nil || !almostEqual(*r.ReleaseHeight, 5.75) {
		t.Fatalf("release height = %v, want 5.75", fv(r.ReleaseHeight))
	}
}

func TestCategoricalChains(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("PITCH TYPE: SL", 0.5, 0.9, 0.2, 0.03),
		frag("RHP", 0.8, 0.92, 0.06, 0.03),
	})
	r := ExtractRecord(c)
	if r.PitchType == nil || *r.PitchType != "SL" {
		t.Fatalf("pitch type = %v, want SL", r.PitchType)
	}
	if r.Hand == nil || *r.Hand != "R" {
		t.Fatalf("hand = %v, want R", r.Hand)
	}
}

func TestCategoricalKeywordAndRegion(t *testing.T) {
	c := NewCorpus([]Fragment{
		frag("SWEEPER", 0.5, 0.9, 0.12, 0.03),
		frag("LH", 0.8, 0.92, 0.05, 0.03),
		frag("CH", 0.5, 0.3, 0.05, 0.03), // below the header band, ignored
	})
	r := ExtractRecord(c)
	if r.PitchType == nil || *r.PitchType != "ST" {
		t.Fatalf("pitch type = %v, want ST", r.PitchType)
	}
	if r.Hand == nil || *r.Hand != "L" {
		t.Fatalf("hand = %v, want L", r.Hand)
	}
}

func TestConfidenceTiering(t *testing.T) {
	r := &Record{}
	if got := r.Confidence(); got != ConfidenceNone {
		t.Fatalf("empty record tier = %s, want none", got)
	}
	v := 1.0
	r.Speed, r.TotalSpin = &v, &v
	if got := r.Confidence(); got != ConfidenceLow {
		t.Fatalf("2-field tier = %s, want low", got)
	}
	r.IVB, r.HB = &v, &v
	if got := r.Confidence(); got != ConfidenceMedium {
		t.Fatalf("4-field tier = %s, want medium", got)
	}
	r.ReleaseHeight, r.ReleaseSide, r.Extension = &v, &v, &v
	if got := r.Confidence(); got != ConfidenceHigh {
		t.Fatalf("7-field tier = %s, want high", got)
	}
}

func TestMissingFieldsListsUnset(t *testing.T) {
	c := NewCorpus(nil)
	r := ExtractRecord(c)
	missing := r.MissingFields()
	if len(missing) != len(fieldOrder)+2 {
		t.Fatalf("missing = %d fields, want %d", len(missing), len(fieldOrder)+2)
	}
	if r.Confidence() != ConfidenceNone {
		t.Fatalf("empty corpus tier = %s, want none", r.Confidence())
	}
}

func TestEndToEndScreen(t *testing.T) {
	// a plausible rendering of the full readout screen
	c := NewCorpus([]Fragment{
		frag("LAST PITCH", 0.5, 0.97, 0.2, 0.02),
		frag("FASTBALL", 0.2, 0.93, 0.12, 0.03),
		frag("RHP", 0.85, 0.93, 0.06, 0.03),
		frag("PITCH SPEED", 0.5, 0.85, 0.15, 0.03),
		frag("MPH", 0.6, 0.78, 0.05, 0.02),
		frag("95.3", 0.5, 0.78, 0.12, 0.06),
		frag("TOTAL SPIN", 0.2, 0.65, 0.12, 0.03),
		frag("2405", 0.2, 0.59, 0.1, 0.05),
		frag("SPIN EFFICIENCY", 0.5, 0.65, 0.15, 0.03),
		frag("92%", 0.5, 0.59, 0.08, 0.05),
		frag("INDUCED VERTICAL BREAK", 0.2, 0.45, 0.2, 0.03),
		frag("17.2", 0.2, 0.39, 0.08, 0.05),
		frag("HORIZONTAL BREAK", 0.5, 0.45, 0.18, 0.03),
		frag("8.4", 0.5, 0.39, 0.08, 0.05),
		frag("SPIN DIRECTION", 0.8, 0.45, 0.15, 0.03),
		frag("1:30", 0.8, 0.39, 0.08, 0.05),
		frag("RELEASE HEIGHT", 0.2, 0.25, 0.15, 0.03),
		frag("5.9", 0.2, 0.19, 0.08, 0.05),
		frag("RELEASE SIDE", 0.5, 0.25, 0.14, 0.03),
		frag("-1.8", 0.5, 0.19, 0.08, 0.05),
		frag("EXTENSION", 0.8, 0.25, 0.12, 0.03),
		frag("6.2", 0.8, 0.19, 0.08, 0.05),
	})
	r := ExtractRecord(c)
	if fv(r.Speed) != 95.3 || fv(r.TotalSpin) != 2405 || fv(r.Efficiency) != 92 {
		t.Fatalf("speed/spin/eff = %v/%v/%v", fv(r.Speed), fv(r.TotalSpin), fv(r.Efficiency))
	}
	if fv(r.IVB) != 17.2 || fv(r.HB) != 8.4 {
		t.Fatalf("movement = %v/%v", fv(r.IVB), fv(r.HB))
	}
	if fv(r.ReleaseHeight) != 5.9 || fv(r.ReleaseSide) != -1.8 || fv(r.Extension) != 6.2 {
		t.Fatalf("release = %v/%v/%v", fv(r.ReleaseHeight), fv(r.ReleaseSide), fv(r.Extension))
	}
	if r.Tilt == nil || *r.Tilt != "1:30" {
		t.Fatalf("tilt = %v", r.Tilt)
	}
	if r.PitchType == nil || *r.PitchType != "FF" || r.Hand == nil || *r.Hand != "R" {
		t.Fatalf("categoricals = %v/%v", r.PitchType, r.Hand)
	}
	if r.Confidence() != ConfidenceHigh {
		t.Fatalf("tier = %s, want high", r.Confidence())
	}
}
