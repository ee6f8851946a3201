//nolint:whitespace // can't make both editor and linter happy
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository"
	"github.com/simseed/simseed/pkg/repository/api"
)

var sampleSelector = `select ts, x, y, coalesce(z, 0) as z,
	speed, rpm, gear, throttle, brake from telemetry`

var copyColumns = []string{
	"year", "round_number", "session", "driver_number", "driver", "team_name",
	"ts", "x", "y", "z", "speed", "rpm", "gear", "throttle", "brake",
}

type repo struct {
	conn repository.Querier
}

var _ api.TelemetryRepository = (*repo)(nil)

func NewTelemetryRepository(conn repository.Querier) api.TelemetryRepository {
	return &repo{conn: conn}
}

func (r *repo) MostRecentKey(ctx context.Context) (*model.SessionKey, error) {
	row := r.conn.QueryRow(ctx, `
	select year, round_number, session
	from telemetry
	group by year, round_number, session
	order by year desc, round_number desc, session asc
	limit 1
		`,
	)
	var key model.SessionKey
	if err := row.Scan(&key.Year, &key.Round, &key.Session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNoRows
		}
		return nil, err
	}
	return &key, nil
}

func (r *repo) Drivers(ctx context.Context, key model.SessionKey) (
	[]*model.DriverRef, error,
) {
	rows, err := r.conn.Query(ctx, `
	select driver_number, driver, coalesce(team_name, '') as team_name
	from telemetry
	where year=$1 and round_number=$2 and session=$3
	group by driver_number, driver, team_name
	order by driver asc
		`,
		key.Year, key.Round, key.Session,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.DriverRef, 0)
	for rows.Next() {
		var item model.DriverRef
		if err := rows.Scan(&item.DriverNumber, &item.Driver, &item.Team); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func (r *repo) LoadSamples(
	ctx context.Context,
	key model.SessionKey,
	driverNumber string,
	limit int,
) ([]*model.TelemetrySample, error) {
	query := fmt.Sprintf(`%s
	where year=$1 and round_number=$2 and session=$3 and driver_number=$4
	and x is not null and y is not null
	order by ts asc`, sampleSelector)
	if limit > 0 {
		query = fmt.Sprintf("%s limit %d", query, limit)
	}
	rows, err := r.conn.Query(ctx, query,
		key.Year, key.Round, key.Session, driverNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.TelemetrySample, 0)
	for rows.Next() {
		var item model.TelemetrySample
		if err := rows.Scan(
			&item.TS, &item.Pos.X, &item.Pos.Y, &item.Pos.Z,
			&item.Speed, &item.RPM, &item.Gear, &item.Throttle, &item.Brake,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func (r *repo) BulkInsert(ctx context.Context, rows []*model.TelemetryRow) (
	int64, error,
) {
	return r.conn.CopyFrom(ctx,
		pgx.Identifier{"telemetry"},
		copyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.Year, row.Round, row.Session,
				row.DriverNumber, row.Driver, row.TeamName,
				row.TS, row.X, row.Y, row.Z,
				row.Speed, row.RPM, row.Gear, row.Throttle, row.Brake,
			}, nil
		}),
	)
}
