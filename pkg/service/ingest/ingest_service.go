// Package ingest loads provider export files into the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
	"github.com/simseed/simseed/pkg/repository/lap"
	"github.com/simseed/simseed/pkg/repository/session"
	"github.com/simseed/simseed/pkg/repository/telemetry"
)

// Result reports the outcome of a completed import.
type Result struct {
	RunID         uuid.UUID
	Sessions      int
	TelemetryRows int64
	LapRows       int64
	SkippedRows   int
}

func NewService(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("svc.ingest"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type Option func(*Service)

// WithRepositories provides the repositories used for the run
// bookkeeping.
func WithRepositories(r api.Repositories) Option {
	return func(srv *Service) {
		srv.repos = r
	}
}

// WithPool provides the pool carrying the bulk insert transaction.
func WithPool(pool *pgxpool.Pool) Option {
	return func(srv *Service) {
		srv.pool = pool
	}
}

type Service struct {
	repos api.Repositories
	pool  *pgxpool.Pool
	log   *log.Logger
}

// ImportFile reads a provider export file and loads its sessions,
// telemetry and lap summaries in one transaction. An ingest_run row
// tracks the attempt: it is created as running before the bulk phase
// and finished as completed or failed afterwards, so an aborted import
// stays visible.
//
//nolint:funlen // sequential import phases
func (s *Service) ImportFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read export file: %w", err)
	}
	export, err := ParseExport(data)
	if err != nil {
		return nil, err
	}
	if !SupportedExporter(export.SchemaVersion) {
		return nil, fmt.Errorf("unsupported exporter version %q (minimum %s)",
			export.SchemaVersion, MinExporterVersion)
	}
	if len(export.Sessions) == 0 {
		return nil, errors.New("export contains no sessions")
	}
	if export.Skipped > 0 {
		s.log.Warn("rows without parseable timestamp skipped",
			log.Int("rows", export.Skipped))
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	run := &model.IngestRun{
		ID:          runID,
		Source:      filepath.Base(path),
		ToolVersion: export.SchemaVersion,
		Status:      model.IngestRunning,
		StartedAt:   time.Now(),
	}
	if err = s.repos.Ingest().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("could not record ingest run: %w", err)
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return s.importSessions(ctx,
			session.NewSessionRepository(tx),
			telemetry.NewTelemetryRepository(tx),
			lap.NewLapRepository(tx),
			export, run)
	})
	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		run.Status = model.IngestFailed
		run.Message = err.Error()
		if finishErr := s.repos.Ingest().Finish(ctx, run); finishErr != nil {
			s.log.Warn("could not mark ingest run failed",
				log.ErrorField(finishErr))
		}
		return nil, err
	}
	run.Status = model.IngestCompleted
	if err = s.repos.Ingest().Finish(ctx, run); err != nil {
		return nil, fmt.Errorf("could not finish ingest run: %w", err)
	}
	return &Result{
		RunID:         run.ID,
		Sessions:      run.Sessions,
		TelemetryRows: run.TelemetryRows,
		LapRows:       run.LapRows,
		SkippedRows:   export.Skipped,
	}, nil
}

// importSessions writes the export content through the given
// repositories and accumulates the counts on run.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) importSessions(
	ctx context.Context,
	sessions api.SessionRepository,
	samples api.TelemetryRepository,
	laps api.LapRepository,
	export *Export,
	run *model.IngestRun,
) error {
	for _, se := range export.Sessions {
		if err := sessions.Ensure(ctx, &se.Meta); err != nil {
			return fmt.Errorf("session %s: %w", se.Meta.SessionKey, err)
		}
		telemetryRows, err := samples.BulkInsert(ctx, se.Telemetry)
		if err != nil {
			return fmt.Errorf("telemetry %s: %w", se.Meta.SessionKey, err)
		}
		lapRows, err := laps.BulkInsert(ctx, se.Laps)
		if err != nil {
			return fmt.Errorf("laps %s: %w", se.Meta.SessionKey, err)
		}
		run.Sessions++
		run.TelemetryRows += telemetryRows
		run.LapRows += lapRows
		s.log.Info("session imported",
			log.String("session", se.Meta.SessionKey.String()),
			log.Int64("telemetryRows", telemetryRows),
			log.Int64("lapRows", lapRows))
	}
	return nil
}
