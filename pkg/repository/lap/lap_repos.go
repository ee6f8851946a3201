//nolint:whitespace // can't make both editor and linter happy
package lap

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository"
	"github.com/simseed/simseed/pkg/repository/api"
)

var copyColumns = []string{
	"year", "round_number", "session", "driver", "driver_number",
	"lap_start_date", "lap_time_seconds", "is_accurate",
}

type repo struct {
	conn repository.Querier
}

var _ api.LapRepository = (*repo)(nil)

func NewLapRepository(conn repository.Querier) api.LapRepository {
	return &repo{conn: conn}
}

func (r *repo) FastestLap(
	ctx context.Context,
	key model.SessionKey,
	driverNumber string,
) (*model.LapSummary, error) {
	row := r.conn.QueryRow(ctx, `
	select lap_start_date, lap_time_seconds
	from lap_summary
	where year=$1 and round_number=$2 and session=$3 and driver_number=$4
	and lap_time_seconds is not null
	and is_accurate
	and lap_start_date is not null
	order by lap_time_seconds asc
	limit 1
		`,
		key.Year, key.Round, key.Session, driverNumber,
	)
	var item model.LapSummary
	if err := row.Scan(&item.StartDate, &item.LapTimeSeconds); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNoRows
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) BulkInsert(ctx context.Context, rows []*model.LapRow) (
	int64, error,
) {
	return r.conn.CopyFrom(ctx,
		pgx.Identifier{"lap_summary"},
		copyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.Year, row.Round, row.Session,
				row.Driver, row.DriverNumber,
				row.LapStartDate, row.LapTimeSeconds, row.IsAccurate,
			}, nil
		}),
	)
}
