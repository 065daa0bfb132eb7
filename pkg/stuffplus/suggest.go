package stuffplus

import (
	"context"
	"fmt"
)

const inchToFt = 1.0 / 12.0

// variation is one tweak tried by the suggestion search.
type variation struct {
	speed float64
	pfxX  float64
	pfxZ  float64
	spin  float64
	label string
}

var variations = []variation{
	{speed: 1, label: "adding 1 mph"},
	{pfxZ: inchToFt, label: `adding 1" IVB`},
	{pfxZ: -inchToFt, label: `subtracting 1" IVB`},
	{pfxX: inchToFt, label: `adding 1" HB`},
	{pfxX: -inchToFt, label: `subtracting 1" HB`},
	{speed: -1, label: "subtracting 1 mph"},
	{spin: 100, label: "adding 100 rpm spin"},
	{spin: -100, label: "subtracting 100 rpm spin"},
}

// Suggest replays small variations of the pitch through the scoring
// service and phrases the one that improves the score the most.
func (c *Client) Suggest(ctx context.Context, base Request) (string, error) {
	baseline, err := c.Predict(ctx, base)
	if err != nil {
		return "", err
	}

	bestImprovement := 0.0
	bestLabel := ""
	for _, v := range variations {
		req := base
		req.ReleaseSpeed += v.speed
		req.PfxX += v.pfxX
		req.PfxZ += v.pfxZ
		req.ReleaseSpinRate += v.spin
		scored, err := c.Predict(ctx, req)
		if err != nil {
			return "", err
		}
		if imp := scored.StuffPlus - baseline.StuffPlus; imp > bestImprovement {
			bestImprovement = imp
			bestLabel = v.label
		}
	}

	switch {
	case bestLabel != "" && bestImprovement > 0:
		return fmt.Sprintf("To improve Stuff+: try %s (+%.1f)", bestLabel, bestImprovement), nil
	case bestLabel != "":
		return fmt.Sprintf("Current Stuff+ is near optimal. Small gains possible: try %s.", bestLabel), nil
	default:
		return "Current Stuff+ looks strong for this pitch.", nil
	}
}
