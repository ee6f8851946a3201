package model

// process-wide baselines, matching the constants of the consuming
// simulator. Exposed only through copying accessors.
var (
	baselineSim = SimConfig{
		FixedDt:             1.0 / 240.0,
		MaxCars:             20,
		ReplayCapacitySteps: 120000,
		ActiveCars:          8,
	}

	baselineCar = CarConfig{
		MassKg:            798,
		WheelbaseM:        3.6,
		CgToFrontM:        1.6,
		CgToRearM:         2.0,
		TireRadiusM:       0.34,
		MuLong:            1.85,
		MuLat:             2.1,
		CdA:               1.12,
		ClA:               3.2,
		RollingResistance: 180,
		BrakeForceMaxN:    18500,
		SteerGain:         0.22,
		Powertrain: Powertrain{
			GearRatios:          []float64{3.18, 2.31, 1.79, 1.45, 1.22, 1.05, 0.92, 0.82},
			GearCount:           8,
			FinalDrive:          3.05,
			DrivelineEfficiency: 0.92,
			ShiftRPMUp:          11800,
			ShiftRPMDown:        6200,
			TorqueCurve: []TorquePoint{
				{RPM: 4000, TorqueNm: 510},
				{RPM: 6000, TorqueNm: 640},
				{RPM: 8000, TorqueNm: 760},
				{RPM: 9500, TorqueNm: 810},
				{RPM: 11000, TorqueNm: 780},
				{RPM: 12000, TorqueNm: 730},
				{RPM: 13000, TorqueNm: 640},
			},
		},
	}
)

// DefaultSimConfig returns a copy of the baseline simulation constants.
func DefaultSimConfig() SimConfig {
	return baselineSim
}

// DefaultCarConfig returns a deep copy of the baseline single-seater.
func DefaultCarConfig() *CarConfig {
	return baselineCar.Clone()
}
