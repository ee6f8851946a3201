package model

// ReplayTrace is one driver's channel data for ghost replay. T is
// seconds since the driver's first kept frame. All channel slices
// share the same length within a response.
//
//nolint:tagliatelle // field names fixed by the simulator
type ReplayTrace struct {
	Driver       string    `json:"driver"`
	DriverNumber string    `json:"driver_number"`
	Team         string    `json:"team"`
	T            []float64 `json:"t"`
	X            []float64 `json:"x"`
	Y            []float64 `json:"y"`
	Z            []float64 `json:"z"`
	Speed        []float64 `json:"speed"`
	RPM          []float64 `json:"rpm"`
	Gear         []int     `json:"gear"`
	Throttle     []float64 `json:"throttle"`
	Brake        []float64 `json:"brake"`
}

//nolint:tagliatelle // field names fixed by the simulator
type ReplayMeta struct {
	Year        int    `json:"year"`
	Round       int    `json:"round"`
	Session     string `json:"session"`
	EventName   string `json:"event_name"`
	DriverCount int    `json:"driver_count"`
	FrameCount  int    `json:"frame_count"`
	Stride      int    `json:"stride"`
}

type ReplayData struct {
	Meta   ReplayMeta     `json:"meta"`
	Traces []*ReplayTrace `json:"traces"`
}
