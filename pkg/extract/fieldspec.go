package extract

// Direction selects how the value search moves from a label anchor.
type Direction int

const (
	SearchBelow Direction = iota
	SearchRight
	SearchNearest
)

// Range is an inclusive numeric plausibility window for a field.
type Range struct {
	Min, Max float64
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

// FieldSpec is the static per-field search configuration. The label
// variants, tolerances and windows are tuned against the Rapsodo-style
// pitching screen family and are meant to be revised as configuration, not
// logic, when the vendor changes the rendering.
type FieldSpec struct {
	Name            string
	Labels          []string // uppercased variants, any may match
	Exclude         []string // label must not contain any of these
	Dir             Direction
	MaxDX           float64 // horizontal offset bound
	MaxDY           float64 // vertical distance bound (below searches)
	MinValueX       float64 // absolute region bound, 0 = unset
	MaxValueY       float64 // absolute region bound, 0 = unset
	PreferRightmost bool    // keep the rightmost label occurrence
	PreferLargest   bool    // rank candidates by box height
	Plausible       *Range
}

// fuzzyReq lists the all-of substrings for the fuzzy label pass, and
// splitWords the two words tried for split-label reconstruction.
type fieldPlan struct {
	primary  FieldSpec
	widened  *FieldSpec
	fuzzyReq []string
	split    [2]string // both empty = no split pass
	fallback *fallbackWindow
}

func rangePtr(min, max float64) *Range { return &Range{Min: min, Max: max} }

// widen returns a copy of s with relaxed distance bounds for the second
// pass of the cascade.
func widen(s FieldSpec, dx, dy float64) *FieldSpec {
	w := s
	w.MaxDX = dx
	w.MaxDY = dy
	return &w
}

// Plausibility windows. Values outside these are treated as misreads of a
// neighboring field or the historical strip, never as the reading itself.
var (
	speedRange      = Range{Min: 30, Max: 106}
	spinRange       = Range{Min: 300, Max: 3800}
	breakRange      = Range{Min: -35, Max: 35}
	relHeightRange  = Range{Min: 1, Max: 8.5}
	relSideRange    = Range{Min: -5, Max: 5}
	extensionRange  = Range{Min: 2, Max: 8.5}
	efficiencyRange = Range{Min: 0, Max: 100}
	gyroRange       = Range{Min: 0, Max: 95}
)

// fieldOrder fixes the extraction priority. Fields whose values collide
// with the session-average strip go first so their tokens land in the used
// set before the looser searches run.
var fieldOrder = []string{
	FieldSpeed,
	FieldTotalSpin,
	FieldIVB,
	FieldHB,
	FieldEfficiency,
	FieldActiveSpin,
	FieldReleaseHeight,
	FieldReleaseSide,
	FieldExtension,
	FieldGyro,
	FieldTilt,
}

// Field names used as Record keys.
const (
	FieldSpeed         = "speed"
	FieldIVB           = "induced_vertical_break"
	FieldHB            = "horizontal_break"
	FieldReleaseHeight = "release_height"
	FieldReleaseSide   = "release_side"
	FieldExtension     = "extension"
	FieldTotalSpin     = "total_spin"
	FieldTilt          = "tilt"
	FieldEfficiency    = "spin_efficiency"
	FieldActiveSpin    = "active_spin"
	FieldGyro          = "gyro"
	FieldPitchType     = "pitch_type"
	FieldHand          = "hand"
)

// fieldPlans drives the orchestrator. Order of strategies inside one field
// is fixed: primary label search, widened search, fuzzy label, positional
// fallback.
var fieldPlans = map[string]fieldPlan{
	FieldSpeed: {
		primary: FieldSpec{
			Name:          FieldSpeed,
			Labels:        []string{"PITCH SPEED", "SPEED"},
			Exclude:       []string{"SPIN", "AVG"},
			Dir:           SearchBelow,
			MaxDX:         0.18,
			MaxDY:         0.14,
			MinValueX:     0.35,
			PreferLargest: true,
			Plausible:     rangePtr(speedRange.Min, speedRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldSpeed, Labels: []string{"PITCH SPEED", "SPEED"}, Exclude: []string{"SPIN", "AVG"}, Dir: SearchBelow, MinValueX: 0.35, PreferLargest: true, Plausible: rangePtr(speedRange.Min, speedRange.Max)}, 0.3, 0.25),
		fuzzyReq: []string{"PITCH", "SPEED"},
		split:    [2]string{"PITCH", "SPEED"},
		fallback: &fallbackWindow{minX: 0.35, maxX: 1.0, minY: 0.55, maxY: 1.0, preferLargest: true, plausible: speedRange},
	},
	FieldTotalSpin: {
		primary: FieldSpec{
			Name:      FieldTotalSpin,
			Labels:    []string{"TOTAL SPIN"},
			Exclude:   []string{"TRUE", "ACTIVE", "EFFICIENCY"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(spinRange.Min, spinRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldTotalSpin, Labels: []string{"TOTAL SPIN", "SPIN"}, Exclude: []string{"TRUE", "ACTIVE", "EFFICIENCY", "AXIS", "DIRECTION"}, Dir: SearchBelow, Plausible: rangePtr(spinRange.Min, spinRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"TOTAL", "SPIN"},
		split:    [2]string{"TOTAL", "SPIN"},
		fallback: &fallbackWindow{minX: 0.0, maxX: 0.6, minY: 0.45, maxY: 0.95, preferLargest: true, plausible: spinRange},
	},
	FieldIVB: {
		primary: FieldSpec{
			Name:      FieldIVB,
			Labels:    []string{"INDUCED VERTICAL BREAK", "VERTICAL BREAK"},
			Exclude:   []string{"HORIZONTAL"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(breakRange.Min, breakRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldIVB, Labels: []string{"INDUCED VERTICAL BREAK", "VERTICAL BREAK", "VERTICAL"}, Exclude: []string{"HORIZONTAL"}, Dir: SearchBelow, Plausible: rangePtr(breakRange.Min, breakRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"VERTICAL", "BREAK"},
		split:    [2]string{"VERTICAL", "BREAK"},
	},
	FieldHB: {
		primary: FieldSpec{
			Name:      FieldHB,
			Labels:    []string{"HORIZONTAL BREAK"},
			Exclude:   []string{"VERTICAL"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(breakRange.Min, breakRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldHB, Labels: []string{"HORIZONTAL BREAK", "HORIZONTAL"}, Exclude: []string{"VERTICAL"}, Dir: SearchBelow, Plausible: rangePtr(breakRange.Min, breakRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"HORIZONTAL", "BREAK"},
		split:    [2]string{"HORIZONTAL", "BREAK"},
	},
	FieldEfficiency: {
		primary: FieldSpec{
			Name:      FieldEfficiency,
			Labels:    []string{"SPIN EFFICIENCY", "EFFICIENCY"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(efficiencyRange.Min, efficiencyRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldEfficiency, Labels: []string{"SPIN EFFICIENCY", "EFFICIENCY"}, Dir: SearchBelow, Plausible: rangePtr(efficiencyRange.Min, efficiencyRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"SPIN", "EFFICIENCY"},
		split:    [2]string{"SPIN", "EFFICIENCY"},
	},
	FieldActiveSpin: {
		primary: FieldSpec{
			Name:      FieldActiveSpin,
			Labels:    []string{"ACTIVE SPIN", "TRUE SPIN"},
			Exclude:   []string{"TOTAL", "EFFICIENCY"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(spinRange.Min, spinRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldActiveSpin, Labels: []string{"ACTIVE SPIN", "TRUE SPIN"}, Exclude: []string{"TOTAL", "EFFICIENCY"}, Dir: SearchBelow, Plausible: rangePtr(spinRange.Min, spinRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"ACTIVE", "SPIN"},
		split:    [2]string{"ACTIVE", "SPIN"},
	},
	FieldReleaseHeight: {
		primary: FieldSpec{
			Name:      FieldReleaseHeight,
			Labels:    []string{"RELEASE HEIGHT"},
			Exclude:   []string{"SIDE", "ANGLE", "EXTENSION"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(relHeightRange.Min, relHeightRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldReleaseHeight, Labels: []string{"RELEASE HEIGHT", "HEIGHT"}, Exclude: []string{"SIDE", "ANGLE", "EXTENSION"}, Dir: SearchBelow, Plausible: rangePtr(relHeightRange.Min, relHeightRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"RELEASE", "HEIGHT"},
		split:    [2]string{"RELEASE", "HEIGHT"},
		fallback: &fallbackWindow{minX: 0.0, maxX: 0.45, minY: 0.0, maxY: 0.4, plausible: relHeightRange},
	},
	FieldReleaseSide: {
		primary: FieldSpec{
			Name:            FieldReleaseSide,
			Labels:          []string{"RELEASE SIDE"},
			Exclude:         []string{"HEIGHT", "ANGLE"},
			Dir:             SearchBelow,
			MaxDX:           0.18,
			MaxDY:           0.12,
			PreferRightmost: true,
			Plausible:       rangePtr(relSideRange.Min, relSideRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldReleaseSide, Labels: []string{"RELEASE SIDE", "SIDE"}, Exclude: []string{"HEIGHT", "ANGLE"}, Dir: SearchBelow, PreferRightmost: true, Plausible: rangePtr(relSideRange.Min, relSideRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"RELEASE", "SIDE"},
		split:    [2]string{"RELEASE", "SIDE"},
	},
	FieldExtension: {
		primary: FieldSpec{
			Name:      FieldExtension,
			Labels:    []string{"RELEASE EXTENSION", "EXTENSION"},
			Exclude:   []string{"HEIGHT", "SIDE"},
			Dir:       SearchBelow,
			MaxDX:     0.18,
			MaxDY:     0.12,
			Plausible: rangePtr(extensionRange.Min, extensionRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldExtension, Labels: []string{"RELEASE EXTENSION", "EXTENSION"}, Exclude: []string{"HEIGHT", "SIDE"}, Dir: SearchBelow, Plausible: rangePtr(extensionRange.Min, extensionRange.Max)}, 0.3, 0.2),
		fuzzyReq: []string{"RELEASE", "EXTENSION"},
	},
	FieldGyro: {
		primary: FieldSpec{
			Name:      FieldGyro,
			Labels:    []string{"GYRO DEGREE", "GYRO"},
			Dir:       SearchRight,
			MaxDX:     0.3,
			Plausible: rangePtr(gyroRange.Min, gyroRange.Max),
		},
		widened:  widen(FieldSpec{Name: FieldGyro, Labels: []string{"GYRO DEGREE", "GYRO"}, Dir: SearchBelow, Plausible: rangePtr(gyroRange.Min, gyroRange.Max)}, 0.25, 0.15),
		fuzzyReq: []string{"GYRO"},
	},
	FieldTilt: {
		primary: FieldSpec{
			Name:    FieldTilt,
			Labels:  []string{"SPIN DIRECTION", "TILT"},
			Exclude: []string{"EFFICIENCY", "AXIS GRAPH"},
			Dir:     SearchBelow,
			MaxDX:   0.18,
			MaxDY:   0.12,
		},
		widened:  widen(FieldSpec{Name: FieldTilt, Labels: []string{"SPIN DIRECTION", "TILT"}, Exclude: []string{"EFFICIENCY"}, Dir: SearchNearest, MaxDX: 0.35}, 0.35, 0.2),
		fuzzyReq: []string{"SPIN", "DIRECTION"},
		split:    [2]string{"SPIN", "DIRECTION"},
		fallback: &fallbackWindow{minX: 0.0, maxX: 1.0, minY: 0.0, maxY: 1.0, clockOnly: true},
	},
}
