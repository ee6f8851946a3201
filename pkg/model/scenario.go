package model

// Scenario carries the environmental inputs perturbing a baseline
// configuration. Compound and weather names stay raw strings here;
// interpretation (including unknown values) happens when the scenario
// is applied.
//
//nolint:tagliatelle // field names fixed by the simulator
type Scenario struct {
	Weather          string    `json:"weather"`
	Tire             string    `json:"tire"`
	Aggression       float64   `json:"aggression"`
	SectorTires      []string  `json:"sector_tires"`
	SectorAggression []float64 `json:"sector_aggression"`
}

// DefaultScenario is dry weather on medium tires at neutral aggression.
func DefaultScenario() Scenario {
	return Scenario{
		Weather:          "dry",
		Tire:             "medium",
		Aggression:       1.0,
		SectorTires:      []string{},
		SectorAggression: []float64{},
	}
}
