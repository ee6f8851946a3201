//nolint:whitespace // can't make both editor and linter happy
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
	bobCtx "github.com/simseed/simseed/pkg/repository/bob/context"
)

type (
	repo struct {
		conn bob.Executor
	}
	runRow struct {
		ID            uuid.UUID
		Source        string
		ToolVersion   string
		Status        string
		Sessions      int
		TelemetryRows int64
		LapRows       int64
		StartedAt     time.Time
		FinishedAt    null.Val[time.Time]
		Message       null.Val[string]
	}
)

var _ api.IngestRepository = (*repo)(nil)

func NewIngestRepository(conn bob.Executor) api.IngestRepository {
	return &repo{conn: conn}
}

func (r *repo) Create(ctx context.Context, run *model.IngestRun) error {
	q := psql.RawQuery(`
INSERT INTO ingest_run (id, source, tool_version, status, sessions,
  telemetry_rows, lap_rows, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		psql.Arg(run.ID),
		psql.Arg(run.Source),
		psql.Arg(run.ToolVersion),
		psql.Arg(run.Status),
		psql.Arg(run.Sessions),
		psql.Arg(run.TelemetryRows),
		psql.Arg(run.LapRows),
		psql.Arg(run.StartedAt),
	)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	return err
}

func (r *repo) Finish(ctx context.Context, run *model.IngestRun) error {
	q := psql.RawQuery(`
UPDATE ingest_run
SET status = ?, sessions = ?, telemetry_rows = ?, lap_rows = ?,
  finished_at = ?, message = ?
WHERE id = ?
	`,
		psql.Arg(run.Status),
		psql.Arg(run.Sessions),
		psql.Arg(run.TelemetryRows),
		psql.Arg(run.LapRows),
		psql.Arg(run.FinishedAt),
		psql.Arg(run.Message),
		psql.Arg(run.ID),
	)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	return err
}

func (r *repo) LoadLatest(ctx context.Context) (*model.IngestRun, error) {
	q := psql.Select(
		sm.Columns(
			psql.Quote("id"),
			psql.Quote("source"),
			psql.Quote("tool_version"),
			psql.Quote("status"),
			psql.Quote("sessions"),
			psql.Quote("telemetry_rows"),
			psql.Quote("lap_rows"),
			psql.Quote("started_at"),
			psql.Quote("finished_at"),
			psql.Quote("message"),
		),
		sm.From("ingest_run"),
		sm.OrderBy(psql.Quote("started_at")).Desc(),
		sm.Limit(1),
	)
	res, err := bob.One(
		ctx, r.getExecutor(ctx),
		q, scan.StructMapper[runRow]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrNoRows
		}
		return nil, err
	}
	return r.toModel(res), nil
}

func (r *repo) toModel(row runRow) *model.IngestRun {
	item := &model.IngestRun{
		ID:            row.ID,
		Source:        row.Source,
		ToolVersion:   row.ToolVersion,
		Status:        row.Status,
		Sessions:      row.Sessions,
		TelemetryRows: row.TelemetryRows,
		LapRows:       row.LapRows,
		StartedAt:     row.StartedAt,
		FinishedAt:    row.FinishedAt.Ptr(),
		Message:       row.Message.GetOrZero(),
	}
	return item
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
