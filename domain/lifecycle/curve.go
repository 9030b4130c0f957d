// Package lifecycle provides the hand-authored market life-cycle overlay for
// the share trend chart. The curve is a fixed illustration and is never
// derived from the data.
package lifecycle

// controlPoint anchors the conceptual curve at a fraction of the day range
// with a value normalized to [0,1].
type controlPoint struct {
	At    float64
	Value float64
}

// The five control points of the conceptual curve. Fixed constants; changing
// them changes the reference overlay everywhere.
var controlPoints = [5]controlPoint{
	{At: 0.00, Value: 0.02},
	{At: 0.20, Value: 0.55},
	{At: 0.45, Value: 1.00},
	{At: 0.75, Value: 0.85},
	{At: 1.00, Value: 0.35},
}

// Stage is a labeled life-cycle phase boundary drawn as a vertical marker.
type Stage struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

// Stages returns the fixed stage boundary markers. The day thresholds are
// constants from the reference illustration, independent of the dataset.
func Stages() []Stage {
	return []Stage{
		{Day: 60, Label: "Launch"},
		{Day: 140, Label: "Growth"},
		{Day: 220, Label: "Shake-out"},
		{Day: 300, Label: "Maturity"},
		// Everything past the last threshold reads as Decline.
	}
}

// StageLabels lists the five phase names in order.
func StageLabels() []string {
	return []string{"Launch", "Growth", "Shake-out", "Maturity", "Decline"}
}

// Curve samples the control curve once per day over [0, maxDay], linearly
// interpolated between control points and scaled so its peak equals scale
// (typically the maximum observed aggregate share).
func Curve(maxDay int, scale float64) []float64 {
	if maxDay < 0 {
		return nil
	}
	out := make([]float64, maxDay+1)
	for d := 0; d <= maxDay; d++ {
		frac := 0.0
		if maxDay > 0 {
			frac = float64(d) / float64(maxDay)
		}
		out[d] = At(frac) * scale
	}
	return out
}

// At evaluates the normalized curve at a fraction of the day range. Inputs
// outside [0,1] clamp to the endpoints.
func At(frac float64) float64 {
	if frac <= controlPoints[0].At {
		return controlPoints[0].Value
	}
	last := controlPoints[len(controlPoints)-1]
	if frac >= last.At {
		return last.Value
	}
	for i := 1; i < len(controlPoints); i++ {
		lo, hi := controlPoints[i-1], controlPoints[i]
		if frac <= hi.At {
			span := hi.At - lo.At
			t := (frac - lo.At) / span
			return lo.Value + t*(hi.Value-lo.Value)
		}
	}
	return last.Value
}
