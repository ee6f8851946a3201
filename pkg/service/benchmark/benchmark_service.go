//nolint:whitespace // can't make both editor and linter happy
package benchmark

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
)

const topLapCount = 10

func NewService(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("svc.benchmark"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type Option func(*Service)

func WithRepositories(r api.Repositories) Option {
	return func(srv *Service) {
		srv.repos = r
	}
}

type Service struct {
	repos api.Repositories
	log   *log.Logger
}

// Load ranks each driver's best accurate lap, fastest first, capped
// at ten entries. An optional filter restricts the ranking by driver
// name or number. No qualifying laps yield a zeroed payload, not an
// error.
func (s *Service) Load(
	ctx context.Context,
	key model.SessionKey,
	drivers []string,
) (*model.BenchmarkData, error) {
	rows, err := s.repos.Benchmark().AccurateLaps(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(drivers) > 0 {
		wanted := lo.Map(drivers, func(v string, _ int) string {
			return strings.ToUpper(v)
		})
		rows = lo.Filter(rows, func(r *model.DriverLap, _ int) bool {
			return lo.Contains(wanted, strings.ToUpper(r.Driver)) ||
				lo.Contains(wanted, strings.ToUpper(r.DriverNumber))
		})
	}

	ret := &model.BenchmarkData{
		Year:    key.Year,
		Round:   key.Round,
		Session: key.Session,
		TopLaps: []*model.DriverLap{},
	}
	if len(rows) == 0 {
		return ret, nil
	}

	best := map[string]int{}
	top := make([]*model.DriverLap, 0)
	for _, r := range rows {
		if idx, ok := best[r.DriverNumber]; ok {
			if r.LapTimeS < top[idx].LapTimeS {
				top[idx] = r
			}
		} else {
			best[r.DriverNumber] = len(top)
			top = append(top, r)
		}
	}
	slices.SortStableFunc(top, func(a, b *model.DriverLap) int {
		return cmp.Compare(a.LapTimeS, b.LapTimeS)
	})
	if len(top) > topLapCount {
		top = top[:topLapCount]
	}

	ret.FastestLapS = top[0].LapTimeS
	ret.FastestDriver = top[0].Driver
	ret.TopLaps = top
	return ret, nil
}
