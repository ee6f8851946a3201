package model

import "time"

// LapSummary describes a single recorded lap of a driver.
type LapSummary struct {
	StartDate      time.Time
	LapTimeSeconds float64
}

// DriverLap is one entry of the benchmark ranking.
type DriverLap struct {
	Driver       string  `json:"driver"`
	DriverNumber string  `json:"driver_number"`
	LapTimeS     float64 `json:"lap_time_s"`
}

// BenchmarkData ranks each driver's best accurate lap of a session.
// An empty session yields zero values and an empty ranking.
//
//nolint:tagliatelle // field names fixed by the simulator
type BenchmarkData struct {
	Year          int          `json:"year"`
	Round         int          `json:"round"`
	Session       string       `json:"session"`
	FastestLapS   float64      `json:"fastest_lap_s"`
	FastestDriver string       `json:"fastest_driver"`
	TopLaps       []*DriverLap `json:"top_laps"`
}
