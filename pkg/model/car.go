package model

// TorquePoint is one entry of the ordered engine torque curve.
//
//nolint:tagliatelle // field names fixed by the simulator
type TorquePoint struct {
	RPM      float64 `json:"rpm"`
	TorqueNm float64 `json:"torque_nm"`
}

//nolint:tagliatelle // field names fixed by the simulator
type Powertrain struct {
	GearRatios          []float64     `json:"gear_ratios"`
	GearCount           int           `json:"gear_count"`
	FinalDrive          float64       `json:"final_drive"`
	DrivelineEfficiency float64       `json:"driveline_efficiency"`
	ShiftRPMUp          float64       `json:"shift_rpm_up"`
	ShiftRPMDown        float64       `json:"shift_rpm_down"`
	TorqueCurve         []TorquePoint `json:"torque_curve"`
}

// CarConfig carries the vehicle dynamics parameters consumed by the
// simulator. Derivations operate on copies of the baseline, never on
// the baseline itself.
//
//nolint:tagliatelle // field names fixed by the simulator
type CarConfig struct {
	MassKg            float64    `json:"mass_kg"`
	WheelbaseM        float64    `json:"wheelbase_m"`
	CgToFrontM        float64    `json:"cg_to_front_m"`
	CgToRearM         float64    `json:"cg_to_rear_m"`
	TireRadiusM       float64    `json:"tire_radius_m"`
	MuLong            float64    `json:"mu_long"`
	MuLat             float64    `json:"mu_lat"`
	CdA               float64    `json:"cdA"`
	ClA               float64    `json:"clA"`
	RollingResistance float64    `json:"rolling_resistance"`
	BrakeForceMaxN    float64    `json:"brake_force_max_n"`
	SteerGain         float64    `json:"steer_gain"`
	Powertrain        Powertrain `json:"powertrain"`
}

// Clone returns a deep copy including the powertrain slices.
func (c *CarConfig) Clone() *CarConfig {
	ret := *c
	ret.Powertrain.GearRatios = make([]float64, len(c.Powertrain.GearRatios))
	copy(ret.Powertrain.GearRatios, c.Powertrain.GearRatios)
	ret.Powertrain.TorqueCurve = make([]TorquePoint, len(c.Powertrain.TorqueCurve))
	copy(ret.Powertrain.TorqueCurve, c.Powertrain.TorqueCurve)
	return &ret
}
