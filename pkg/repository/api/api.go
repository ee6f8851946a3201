package api

import (
	"context"
	"errors"

	"github.com/simseed/simseed/pkg/model"
)

var ErrNoRows = errors.New("no rows in result set")

type Repositories interface {
	Session() SessionRepository
	Telemetry() TelemetryRepository
	Lap() LapRepository
	Catalog() CatalogRepository
	Benchmark() BenchmarkRepository
	Ingest() IngestRepository
}

type SessionRepository interface {
	// Ensure creates the session row or refreshes its event name.
	Ensure(ctx context.Context, meta *model.SessionMeta) error
	// LoadEventName returns ErrNoRows when no metadata row exists.
	LoadEventName(ctx context.Context, key model.SessionKey) (string, error)
}

//nolint:lll // ok for interface
type TelemetryRepository interface {
	// MostRecentKey returns the newest session that has telemetry rows,
	// or ErrNoRows for an empty store.
	MostRecentKey(ctx context.Context) (*model.SessionKey, error)
	// Drivers lists the distinct drivers of a session ordered by name.
	Drivers(ctx context.Context, key model.SessionKey) ([]*model.DriverRef, error)
	// LoadSamples returns a driver's samples with usable coordinates in
	// native units, ordered by timestamp. A positive limit caps the
	// result, zero means unbounded.
	LoadSamples(ctx context.Context, key model.SessionKey, driverNumber string, limit int) ([]*model.TelemetrySample, error)
	BulkInsert(ctx context.Context, rows []*model.TelemetryRow) (int64, error)
}

//nolint:lll // ok for interface
type LapRepository interface {
	// FastestLap returns the driver's best accurate lap with a known
	// start time, or ErrNoRows when none qualifies.
	FastestLap(ctx context.Context, key model.SessionKey, driverNumber string) (*model.LapSummary, error)
	BulkInsert(ctx context.Context, rows []*model.LapRow) (int64, error)
}

type CatalogRepository interface {
	Sessions(ctx context.Context) ([]*model.SessionInfo, error)
	SessionDrivers(ctx context.Context, key model.SessionKey) ([]*model.DriverSamples, error)
}

type BenchmarkRepository interface {
	// AccurateLaps lists all accurate laps of a session ordered by lap
	// time ascending.
	AccurateLaps(ctx context.Context, key model.SessionKey) ([]*model.DriverLap, error)
}

type IngestRepository interface {
	Create(ctx context.Context, run *model.IngestRun) error
	Finish(ctx context.Context, run *model.IngestRun) error
	LoadLatest(ctx context.Context) (*model.IngestRun, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
