package model

//nolint:tagliatelle // field names fixed by the simulator
type SimConfig struct {
	FixedDt             float64 `json:"fixed_dt"`
	MaxCars             int     `json:"max_cars"`
	ReplayCapacitySteps int     `json:"replay_capacity_steps"`
	ActiveCars          int     `json:"active_cars"`
}

//nolint:tagliatelle // field names fixed by the simulator
type BundleMeta struct {
	Year            int         `json:"year"`
	Round           int         `json:"round"`
	Session         string      `json:"session"`
	Driver          string      `json:"driver"`
	DriverNumber    string      `json:"driver_number"`
	EventName       string      `json:"event_name"`
	SelectedDrivers []DriverRef `json:"selected_drivers"`
	PointsUsed      int         `json:"points_used"`
	Scenario        Scenario    `json:"scenario"`
}

// SimulationBundle is the complete payload handed to the simulator.
// It is assembled fresh per request and immutable once returned.
type SimulationBundle struct {
	Sim   SimConfig    `json:"sim"`
	Car   CarConfig    `json:"car"`
	Track TrackPayload `json:"track"`
	Meta  BundleMeta   `json:"meta"`
}
