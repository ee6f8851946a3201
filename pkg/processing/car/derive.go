package car

import (
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/processing/stats"
)

const (
	shiftUpPercentile  = 0.95
	topSpeedPercentile = 0.99

	shiftUpMinRPM   = 8500.0
	shiftUpMaxRPM   = 13000.0
	shiftDownMinRPM = 4500.0
	shiftDownRatio  = 0.55

	maxGearCount = 8
)

// Observations holds the per-sample channels collected for the lead
// driver. Slices may be empty when the source rows carry no values for
// a channel.
type Observations struct {
	SpeedsMps []float64
	Rpms      []float64
	Gears     []int
}

// Derive adjusts the baseline car setup to the observed data. Shift
// points follow the high-percentile engine speed, the gear count
// follows the highest observed gear and the aero balance follows the
// observed top speed. Channels without observations keep the baseline
// values.
func Derive(obs Observations) *model.CarConfig {
	cfg := model.DefaultCarConfig()

	if len(obs.Rpms) > 0 {
		shiftUp := max(shiftUpMinRPM, min(shiftUpMaxRPM, stats.Percentile(obs.Rpms, shiftUpPercentile)))
		cfg.Powertrain.ShiftRPMUp = shiftUp
		cfg.Powertrain.ShiftRPMDown = max(shiftDownMinRPM, shiftUp*shiftDownRatio)
	}

	if len(obs.Gears) > 0 {
		highest := obs.Gears[0]
		for _, g := range obs.Gears[1:] {
			highest = max(highest, g)
		}
		cfg.Powertrain.GearCount = max(1, min(maxGearCount, highest))
	}

	if len(obs.SpeedsMps) > 0 {
		vmax := stats.Percentile(obs.SpeedsMps, topSpeedPercentile)
		cfg.ClA = max(2.2, min(4.8, 2.4+vmax/50.0))
		cfg.CdA = max(0.9, min(1.4, 1.5-min(vmax, 105.0)/300.0))
	}

	return cfg
}
