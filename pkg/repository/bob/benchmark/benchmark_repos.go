//nolint:whitespace // can't make both editor and linter happy
package benchmark

import (
	"context"

	"github.com/shopspring/decimal"
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
	lapRow struct {
		Driver         string
		DriverNumber   string
		LapTimeSeconds decimal.Decimal
	}
)

var _ api.BenchmarkRepository = (*repo)(nil)

func NewBenchmarkRepository(conn bob.Executor) api.BenchmarkRepository {
	return &repo{conn: conn}
}

func (r *repo) AccurateLaps(ctx context.Context, key model.SessionKey) (
	[]*model.DriverLap, error,
) {
	q := psql.Select(
		sm.Columns(
			psql.Quote("driver"),
			psql.Quote("driver_number"),
			psql.Quote("lap_time_seconds"),
		),
		sm.From("lap_summary"),
		sm.Where(psql.Quote("year").EQ(psql.Arg(key.Year))),
		sm.Where(psql.Quote("round_number").EQ(psql.Arg(key.Round))),
		sm.Where(psql.Quote("session").EQ(psql.Arg(key.Session))),
		sm.Where(psql.Quote("lap_time_seconds").IsNotNull()),
		sm.Where(psql.Quote("is_accurate").EQ(psql.Arg(true))),
		sm.OrderBy(psql.Quote("lap_time_seconds")).Asc(),
	)
	res, err := bob.All(
		ctx, r.getExecutor(ctx),
		q, scan.StructMapper[lapRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.DriverLap, 0, len(res))
	for i := range res {
		ret = append(ret, &model.DriverLap{
			Driver:       res[i].Driver,
			DriverNumber: res[i].DriverNumber,
			LapTimeS:     res[i].LapTimeSeconds.InexactFloat64(),
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
