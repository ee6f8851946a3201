package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Ingest run states as stored in the database.
const (
	IngestRunning   = "running"
	IngestCompleted = "completed"
	IngestFailed    = "failed"
)

// IngestRun is the bookkeeping record of one archive import.
type IngestRun struct {
	ID            uuid.UUID
	Source        string
	ToolVersion   string
	Status        string
	Sessions      int
	TelemetryRows int64
	LapRows       int64
	StartedAt     time.Time
	FinishedAt    *time.Time
	Message       string
}

// TelemetryRow is one raw sample as delivered by the archive, in native
// units. Nil channel values mark gaps in the source data.
type TelemetryRow struct {
	SessionKey
	DriverNumber string
	Driver       string
	TeamName     string
	TS           time.Time
	X            *float64
	Y            *float64
	Z            *float64
	Speed        *float64
	RPM          *float64
	Gear         *int
	Throttle     *float64
	Brake        *float64
}

// LapRow is one lap summary as delivered by the archive.
type LapRow struct {
	SessionKey
	Driver         string
	DriverNumber   string
	LapStartDate   *time.Time
	LapTimeSeconds *float64
	IsAccurate     bool
}
