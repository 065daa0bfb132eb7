package stuffplus

// Score bounds applied to every prediction.
const (
	MinScore = 60
	MaxScore = 140
)

// ValidPitchTypes are the pitch-variant codes the scoring model accepts.
var ValidPitchTypes = map[string]struct{}{
	"FF": {}, "SI": {}, "FC": {}, "SL": {}, "CU": {}, "CH": {}, "ST": {}, "FS": {}, "KC": {},
}

// mlbAvgVelo is the average velocity per pitch family the penalty is
// measured against.
var mlbAvgVelo = map[string]float64{
	"FF": 93, "SI": 93,
	"CU": 75, "KC": 75, "ST": 75,
	"SL": 82, "FC": 82,
	"CH": 78, "SP": 78, "FS": 78,
}

// VelocityPenalty docks a raw score for below-average velocity. A pitch
// with more than 17 inches of induced vertical break is scored on the
// fastball scale regardless of its tagged type, and soft fastballs are
// additionally capped at 105. The penalty never exceeds 30 points.
func VelocityPenalty(pitchType string, velo, ivbInches, raw float64) (adjusted, penalty float64) {
	if ivbInches > 17 {
		pitchType = "FF"
	}
	capped := raw
	avg, ok := mlbAvgVelo[pitchType]
	if ok && velo < avg {
		penalty = avg - velo
	}
	if (pitchType == "FF" || pitchType == "SI") && velo < 90 && capped > 105 {
		capped = 105
	}
	if penalty > 30 {
		penalty = 30
	}
	return capped - penalty, penalty
}

// Clip bounds a score to the published scale.
func Clip(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
