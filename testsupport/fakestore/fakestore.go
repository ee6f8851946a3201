// Package fakestore provides an in-memory api.Repositories for unit
// tests. Query semantics (filters, ordering, null handling) mirror the
// SQL implementations close enough for service-level tests.
package fakestore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
)

type Store struct {
	EventNames    map[model.SessionKey]string
	TelemetryRows []*model.TelemetryRow
	Laps          []*model.LapRow
	Runs          []*model.IngestRun
}

var (
	_ api.Repositories       = (*Store)(nil)
	_ api.TransactionManager = (*Store)(nil)
)

func New() *Store {
	return &Store{EventNames: map[model.SessionKey]string{}}
}

func (s *Store) Session() api.SessionRepository     { return (*sessionRepo)(s) }
func (s *Store) Telemetry() api.TelemetryRepository { return (*telemetryRepo)(s) }
func (s *Store) Lap() api.LapRepository             { return (*lapRepo)(s) }
func (s *Store) Catalog() api.CatalogRepository     { return (*catalogRepo)(s) }
func (s *Store) Benchmark() api.BenchmarkRepository { return (*benchmarkRepo)(s) }
func (s *Store) Ingest() api.IngestRepository       { return (*ingestRepo)(s) }

// RunInTx just invokes fn; the fake has no transactional isolation.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sessionRepo Store

func (r *sessionRepo) Ensure(_ context.Context, meta *model.SessionMeta) error {
	r.EventNames[meta.SessionKey] = meta.EventName
	return nil
}

func (r *sessionRepo) LoadEventName(_ context.Context, key model.SessionKey) (
	string, error,
) {
	name, ok := r.EventNames[key]
	if !ok {
		return "", api.ErrNoRows
	}
	return name, nil
}

type telemetryRepo Store

func (r *telemetryRepo) MostRecentKey(_ context.Context) (*model.SessionKey, error) {
	keys := distinctKeys(r.TelemetryRows)
	if len(keys) == 0 {
		return nil, api.ErrNoRows
	}
	slices.SortFunc(keys, func(a, b model.SessionKey) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Round, a.Round); c != 0 {
			return c
		}
		return strings.Compare(a.Session, b.Session)
	})
	return &keys[0], nil
}

func (r *telemetryRepo) Drivers(_ context.Context, key model.SessionKey) (
	[]*model.DriverRef, error,
) {
	seen := map[model.DriverRef]bool{}
	ret := make([]*model.DriverRef, 0)
	for _, row := range r.TelemetryRows {
		if row.SessionKey != key {
			continue
		}
		ref := model.DriverRef{
			Driver: row.Driver, DriverNumber: row.DriverNumber, Team: row.TeamName,
		}
		if !seen[ref] {
			seen[ref] = true
			ret = append(ret, &ref)
		}
	}
	slices.SortFunc(ret, func(a, b *model.DriverRef) int {
		return strings.Compare(a.Driver, b.Driver)
	})
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *telemetryRepo) LoadSamples(
	_ context.Context,
	key model.SessionKey,
	driverNumber string,
	limit int,
) ([]*model.TelemetrySample, error) {
	ret := make([]*model.TelemetrySample, 0)
	for _, row := range r.TelemetryRows {
		if row.SessionKey != key || row.DriverNumber != driverNumber {
			continue
		}
		if row.X == nil || row.Y == nil {
			continue
		}
		item := &model.TelemetrySample{
			TS:       row.TS,
			Pos:      model.SpatialPoint{X: *row.X, Y: *row.Y},
			Speed:    row.Speed,
			RPM:      row.RPM,
			Gear:     row.Gear,
			Throttle: row.Throttle,
			Brake:    row.Brake,
		}
		if row.Z != nil {
			item.Pos.Z = *row.Z
		}
		ret = append(ret, item)
	}
	slices.SortFunc(ret, func(a, b *model.TelemetrySample) int {
		return a.TS.Compare(b.TS)
	})
	if limit > 0 && len(ret) > limit {
		ret = ret[:limit]
	}
	return ret, nil
}

func (r *telemetryRepo) BulkInsert(_ context.Context, rows []*model.TelemetryRow) (
	int64, error,
) {
	r.TelemetryRows = append(r.TelemetryRows, rows...)
	return int64(len(rows)), nil
}

type lapRepo Store

//nolint:whitespace // can't make both editor and linter happy
func (r *lapRepo) FastestLap(
	_ context.Context,
	key model.SessionKey,
	driverNumber string,
) (*model.LapSummary, error) {
	var best *model.LapRow
	for _, row := range r.Laps {
		if row.SessionKey != key || row.DriverNumber != driverNumber {
			continue
		}
		if !row.IsAccurate || row.LapTimeSeconds == nil || row.LapStartDate == nil {
			continue
		}
		if best == nil || *row.LapTimeSeconds < *best.LapTimeSeconds {
			best = row
		}
	}
	if best == nil {
		return nil, api.ErrNoRows
	}
	return &model.LapSummary{
		StartDate:      *best.LapStartDate,
		LapTimeSeconds: *best.LapTimeSeconds,
	}, nil
}

func (r *lapRepo) BulkInsert(_ context.Context, rows []*model.LapRow) (int64, error) {
	r.Laps = append(r.Laps, rows...)
	return int64(len(rows)), nil
}

type catalogRepo Store

func (r *catalogRepo) Sessions(_ context.Context) ([]*model.SessionInfo, error) {
	keys := distinctKeys(r.TelemetryRows)
	slices.SortFunc(keys, func(a, b model.SessionKey) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Round, b.Round); c != 0 {
			return c
		}
		return strings.Compare(a.Session, b.Session)
	})
	ret := make([]*model.SessionInfo, 0, len(keys))
	for _, key := range keys {
		info := &model.SessionInfo{
			Year:      key.Year,
			Round:     key.Round,
			Session:   key.Session,
			EventName: r.EventNames[key],
		}
		drivers := map[string]bool{}
		for _, row := range r.TelemetryRows {
			if row.SessionKey != key {
				continue
			}
			drivers[row.DriverNumber] = true
			info.TelemetryRows++
		}
		info.DriverCount = len(drivers)
		ret = append(ret, info)
	}
	return ret, nil
}

func (r *catalogRepo) SessionDrivers(ctx context.Context, key model.SessionKey) (
	[]*model.DriverSamples, error,
) {
	refs, err := (*telemetryRepo)(r).Drivers(ctx, key)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.DriverSamples, 0, len(refs))
	for _, ref := range refs {
		item := &model.DriverSamples{DriverRef: *ref}
		for _, row := range r.TelemetryRows {
			if row.SessionKey == key && row.DriverNumber == ref.DriverNumber {
				item.Samples++
			}
		}
		ret = append(ret, item)
	}
	return ret, nil
}

type benchmarkRepo Store

func (r *benchmarkRepo) AccurateLaps(_ context.Context, key model.SessionKey) (
	[]*model.DriverLap, error,
) {
	ret := make([]*model.DriverLap, 0)
	for _, row := range r.Laps {
		if row.SessionKey != key || !row.IsAccurate || row.LapTimeSeconds == nil {
			continue
		}
		ret = append(ret, &model.DriverLap{
			Driver:       row.Driver,
			DriverNumber: row.DriverNumber,
			LapTimeS:     *row.LapTimeSeconds,
		})
	}
	slices.SortFunc(ret, func(a, b *model.DriverLap) int {
		return cmp.Compare(a.LapTimeS, b.LapTimeS)
	})
	return ret, nil
}

type ingestRepo Store

func (r *ingestRepo) Create(_ context.Context, run *model.IngestRun) error {
	r.Runs = append(r.Runs, run)
	return nil
}

func (r *ingestRepo) Finish(_ context.Context, run *model.IngestRun) error {
	for i, existing := range r.Runs {
		if existing.ID == run.ID {
			r.Runs[i] = run
			return nil
		}
	}
	return api.ErrNoRows
}

func (r *ingestRepo) LoadLatest(_ context.Context) (*model.IngestRun, error) {
	if len(r.Runs) == 0 {
		return nil, api.ErrNoRows
	}
	latest := r.Runs[0]
	for _, run := range r.Runs[1:] {
		if run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	return latest, nil
}

func distinctKeys(rows []*model.TelemetryRow) []model.SessionKey {
	seen := map[model.SessionKey]bool{}
	keys := make([]model.SessionKey, 0)
	for _, row := range rows {
		if !seen[row.SessionKey] {
			seen[row.SessionKey] = true
			keys = append(keys, row.SessionKey)
		}
	}
	return keys
}
