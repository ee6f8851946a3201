//nolint:whitespace // can't make both editor and linter happy
package catalog

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/scan"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
	bobCtx "github.com/simseed/simseed/pkg/repository/bob/context"
)

type (
	repo struct {
		conn bob.Executor
	}
	sessionRow struct {
		Year          int
		RoundNumber   int
		Session       string
		EventName     string
		DriverCount   int
		TelemetryRows int64
	}
	driverRow struct {
		DriverNumber string
		Driver       string
		TeamName     string
		Samples      int64
	}
)

var _ api.CatalogRepository = (*repo)(nil)

func NewCatalogRepository(conn bob.Executor) api.CatalogRepository {
	return &repo{conn: conn}
}

//nolint:lll // readability: keep the sql in shape
func (r *repo) Sessions(ctx context.Context) ([]*model.SessionInfo, error) {
	q := psql.RawQuery(`
SELECT t.year, t.round_number, t.session,
       COALESCE(s.event_name, '') AS event_name,
       COUNT(DISTINCT t.driver_number) AS driver_count,
       COUNT(*) AS telemetry_rows
FROM telemetry t
  LEFT JOIN session s ON s.year = t.year AND s.round_number = t.round_number AND s.session = t.session
GROUP BY t.year, t.round_number, t.session, s.event_name
ORDER BY t.year DESC, t.round_number ASC, t.session ASC
	`)
	res, err := bob.All(
		ctx, r.getExecutor(ctx),
		q, scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.SessionInfo, 0, len(res))
	for i := range res {
		ret = append(ret, &model.SessionInfo{
			Year:          res[i].Year,
			Round:         res[i].RoundNumber,
			Session:       res[i].Session,
			EventName:     res[i].EventName,
			DriverCount:   res[i].DriverCount,
			TelemetryRows: int(res[i].TelemetryRows),
		})
	}
	return ret, nil
}

func (r *repo) SessionDrivers(ctx context.Context, key model.SessionKey) (
	[]*model.DriverSamples, error,
) {
	q := psql.RawQuery(`
SELECT driver_number, driver,
       COALESCE(team_name, '') AS team_name,
       COUNT(*) AS samples
FROM telemetry
WHERE year = ? AND round_number = ? AND session = ?
GROUP BY driver_number, driver, team_name
ORDER BY driver ASC
	`,
		psql.Arg(key.Year),
		psql.Arg(key.Round),
		psql.Arg(key.Session),
	)
	res, err := bob.All(
		ctx, r.getExecutor(ctx),
		q, scan.StructMapper[driverRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.DriverSamples, 0, len(res))
	for i := range res {
		ret = append(ret, &model.DriverSamples{
			DriverRef: model.DriverRef{
				Driver:       res[i].Driver,
				DriverNumber: res[i].DriverNumber,
				Team:         res[i].TeamName,
			},
			Samples: int(res[i].Samples),
		})
	}
	return ret, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
