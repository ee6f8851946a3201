package model

import "time"

// TelemetrySample is one telemetry row as delivered by the store, in
// native units: position in decimeters, speed in km/h, throttle in
// percent. Consumers convert per use. Channels other than position
// may be absent.
type TelemetrySample struct {
	TS       time.Time
	Pos      SpatialPoint
	Speed    *float64 // km/h
	RPM      *float64
	Gear     *int
	Throttle *float64 // 0-100
	Brake    *float64
}

// DriverRef identifies one driver within a session roster. Driver
// numbers stay strings end to end, matching the source data.
type DriverRef struct {
	Driver       string `json:"driver"`
	DriverNumber string `json:"driver_number"`
	Team         string `json:"team"`
}
