package extract

// Confidence tiers summarize how many of the eight primary fields a pass
// populated.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Record is the structured result of one extraction pass. Nil pointers mark
// fields the pass could not populate.
type Record struct {
	Speed         *float64 `json:"speed,omitempty"`
	IVB           *float64 `json:"induced_vertical_break,omitempty"`
	HB            *float64 `json:"horizontal_break,omitempty"`
	ReleaseHeight *float64 `json:"release_height,omitempty"`
	ReleaseSide   *float64 `json:"release_side,omitempty"`
	Extension     *float64 `json:"extension,omitempty"`
	TotalSpin     *float64 `json:"total_spin,omitempty"`
	Tilt          *string  `json:"tilt,omitempty"`
	SpinAxis      *float64 `json:"spin_axis,omitempty"`
	Efficiency    *float64 `json:"spin_efficiency,omitempty"`
	ActiveSpin    *float64 `json:"active_spin,omitempty"`
	Gyro          *float64 `json:"gyro,omitempty"`
	PitchType     *string  `json:"pitch_type,omitempty"`
	Hand          *string  `json:"hand,omitempty"`
}

// primaryFields are the readings that decide the confidence tier.
var primaryFields = []string{
	FieldSpeed,
	FieldIVB,
	FieldHB,
	FieldReleaseHeight,
	FieldReleaseSide,
	FieldExtension,
	FieldTotalSpin,
	FieldTilt,
}

func (r *Record) get(field string) (set bool) {
	switch field {
	case FieldSpeed:
		return r.Speed != nil
	case FieldIVB:
		return r.IVB != nil
	case FieldHB:
		return r.HB != nil
	case FieldReleaseHeight:
		return r.ReleaseHeight != nil
	case FieldReleaseSide:
		return r.ReleaseSide != nil
	case FieldExtension:
		return r.Extension != nil
	case FieldTotalSpin:
		return r.TotalSpin != nil
	case FieldTilt:
		return r.Tilt != nil
	case FieldEfficiency:
		return r.Efficiency != nil
	case FieldActiveSpin:
		return r.ActiveSpin != nil
	case FieldGyro:
		return r.Gyro != nil
	case FieldPitchType:
		return r.PitchType != nil
	case FieldHand:
		return r.Hand != nil
	}
	return false
}

// MissingFields lists every field the pass left unset, primary or not.
func (r *Record) MissingFields() []string {
	all := append([]string{}, fieldOrder...)
	all = append(all, FieldPitchType, FieldHand)
	var missing []string
	for _, f := range all {
		if !r.get(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Confidence buckets the count of populated primary fields: 0 none, 1-2
// low, 3-5 medium, 6-8 high.
func (r *Record) Confidence() Confidence {
	n := 0
	for _, f := range primaryFields {
		if r.get(f) {
			n++
		}
	}
	switch {
	case n == 0:
		return ConfidenceNone
	case n <= 2:
		return ConfidenceLow
	case n <= 5:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
