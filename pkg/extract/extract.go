package extract

import "strings"

// usedValues accumulates raw matched tokens (and their canonical numeric
// renderings) across one extraction pass so no two fields ever claim the
// same source text. Scoped strictly to a single pass.
type usedValues struct {
	set map[string]struct{}
}

func newUsedValues() *usedValues {
	return &usedValues{set: map[string]struct{}{}}
}

func (u *usedValues) has(raw string) bool {
	_, ok := u.set[strings.TrimSpace(raw)]
	return ok
}

func (u *usedValues) add(raw string) {
	u.set[strings.TrimSpace(raw)] = struct{}{}
}

// ExtractRecord runs one full extraction pass: every measurement field in
// fixed priority order, then the derived spin axis, then the categorical
// pitch-type and handedness chains. The pass owns its corpus and used set;
// nothing persists between calls.
func ExtractRecord(c *Corpus) *Record {
	r := &Record{}
	used := newUsedValues()

	for _, name := range fieldOrder {
		plan := fieldPlans[name]
		raw := extractField(c, plan, used)
		if raw == "" {
			continue
		}
		assignField(r, name, raw, used)
	}

	if r.Tilt != nil {
		if a, ok := TiltToAngle(*r.Tilt); ok {
			r.SpinAxis = &a
		}
	} else if r.HB != nil && r.IVB != nil {
		a := AngleFromMovement(*r.HB, *r.IVB)
		r.SpinAxis = &a
	}

	if pt := findPitchType(c); pt != "" {
		r.PitchType = &pt
	}
	if h := findHand(c); h != "" {
		r.Hand = &h
	}
	return r
}

// extractField tries the field's strategies in order (primary label,
// widened tolerances, fuzzy label, split-label reconstruction, positional
// fallback) and stops at the first match that survives validation.
func extractField(c *Corpus, p fieldPlan, used *usedValues) string {
	attempt := func(spec FieldSpec, a anchor, ok bool) string {
		if !ok {
			return ""
		}
		raw := searchValue(c, a, spec, used)
		if raw == "" || !validateField(spec.Name, spec.Plausible, raw) {
			return ""
		}
		return raw
	}

	a, ok := findLabel(c, p.primary.Labels, p.primary.Exclude, p.primary.PreferRightmost)
	if raw := attempt(p.primary, a, ok); raw != "" {
		return raw
	}

	if p.widened != nil {
		a, ok = findLabel(c, p.widened.Labels, p.widened.Exclude, p.widened.PreferRightmost)
		if raw := attempt(*p.widened, a, ok); raw != "" {
			return raw
		}
	}

	loose := p.primary
	if p.widened != nil {
		loose = *p.widened
	}
	if len(p.fuzzyReq) > 0 {
		a, ok = findLabelFuzzy(c, p.fuzzyReq)
		if raw := attempt(loose, a, ok); raw != "" {
			return raw
		}
	}
	if p.split[0] != "" {
		a, ok = findSplitLabel(c, p.split[0], p.split[1])
		if raw := attempt(loose, a, ok); raw != "" {
			return raw
		}
	}

	if p.fallback != nil {
		if raw := searchFallback(c, p.fallback, used); raw != "" && validateField(p.primary.Name, p.primary.Plausible, raw) {
			return raw
		}
	}
	return ""
}

// validateField applies the field's parse and plausibility window; a value
// outside the window is treated as a non-match.
func validateField(name string, plausible *Range, raw string) bool {
	if name == FieldTilt {
		return clockRE.MatchString(strings.TrimSpace(raw))
	}
	v, ok := parseFieldValue(name, raw)
	if !ok {
		return false
	}
	if plausible != nil && !plausible.contains(v) {
		return false
	}
	return true
}

// parseFieldValue picks the parser per field: release geometry may arrive
// as feet-inches, everything else numeric.
func parseFieldValue(name, raw string) (float64, bool) {
	switch name {
	case FieldReleaseHeight, FieldReleaseSide, FieldExtension:
		return ParseFeetInches(raw)
	default:
		return ParseNumber(raw)
	}
}

// assignField stores the parsed value and enters the raw token plus its
// canonical rendering into the used set before the next field runs.
func assignField(r *Record, name, raw string, used *usedValues) {
	if name == FieldTilt {
		t := strings.TrimSpace(raw)
		r.Tilt = &t
		used.add(raw)
		return
	}
	v, ok := parseFieldValue(name, raw)
	if !ok {
		return
	}
	used.add(raw)
	used.add(formatNumber(v))
	switch name {
	case FieldSpeed:
		r.Speed = &v
	case FieldIVB:
		r.IVB = &v
	case FieldHB:
		r.HB = &v
	case FieldReleaseHeight:
		r.ReleaseHeight = &v
	case FieldReleaseSide:
		r.ReleaseSide = &v
	case FieldExtension:
		r.Extension = &v
	case FieldTotalSpin:
		r.TotalSpin = &v
	case FieldEfficiency:
		r.Efficiency = &v
	case FieldActiveSpin:
		r.ActiveSpin = &v
	case FieldGyro:
		r.Gyro = &v
	}
}
