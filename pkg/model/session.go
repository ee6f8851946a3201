package model

import "fmt"

// SessionKey identifies one recorded session of a race weekend.
type SessionKey struct {
	Year    int
	Round   int
	Session string
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d/%d/%s", k.Year, k.Round, k.Session)
}

// FallbackEventName is the display name used when no session metadata
// row exists for the key.
func (k SessionKey) FallbackEventName() string {
	return fmt.Sprintf("Y%d R%d %s", k.Year, k.Round, k.Session)
}

// SessionMeta is the stored metadata of a session.
type SessionMeta struct {
	SessionKey
	EventName string
}

// SessionInfo is one row of the session catalog.
type SessionInfo struct {
	Year          int    `json:"year"`
	Round         int    `json:"round"`
	Session       string `json:"session"`
	EventName     string `json:"event_name"`
	DriverCount   int    `json:"driver_count"`
	TelemetryRows int    `json:"telemetry_rows"`
}

// DriverSamples is one row of the driver catalog.
type DriverSamples struct {
	DriverRef
	Samples int `json:"samples"`
}

type SessionCatalog struct {
	Sessions []*SessionInfo `json:"sessions"`
}

type DriverCatalog struct {
	Year    int              `json:"year"`
	Round   int              `json:"round"`
	Session string           `json:"session"`
	Drivers []*DriverSamples `json:"drivers"`
}
