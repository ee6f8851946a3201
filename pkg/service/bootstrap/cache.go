package bootstrap

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/processing/scenario"
	"github.com/simseed/simseed/pkg/utils/cache"
	"github.com/simseed/simseed/pkg/utils/cache/loadercache"
)

// bundleKey is the canonicalized form of a Request. The driver
// selection is uppercased, deduplicated and sorted so equivalent
// selections share an entry. Scenario inputs stay raw because they
// are echoed verbatim in the bundle. The flat comparable shape
// doubles as the cache key.
type bundleKey struct {
	year             int
	round            int
	session          string
	drivers          string
	maxDrivers       int
	weather          string
	tire             string
	aggression       float64
	sectorTires      string
	sectorAggression string
}

// NewCachedLoader wraps svc with a bounded per-process memo. The
// store is append-only historical data, so entries cannot go stale;
// expiration only limits memory alongside maxEntries.
func NewCachedLoader(
	svc *Service, maxEntries int, expiration time.Duration,
) Loader {
	loader := func(ctx context.Context, key bundleKey) (
		*model.SimulationBundle, error,
	) {
		return svc.Load(ctx, key.request())
	}
	return &cachedLoader{
		cache: loadercache.New[bundleKey, model.SimulationBundle](
			loadercache.WithLoader(loader),
			loadercache.WithMaxEntries[bundleKey, model.SimulationBundle](maxEntries),
			loadercache.WithExpiration[bundleKey, model.SimulationBundle](expiration),
		),
	}
}

type cachedLoader struct {
	cache cache.Cache[bundleKey, model.SimulationBundle]
}

var _ Loader = (*cachedLoader)(nil)

func (c *cachedLoader) Load(ctx context.Context, req *Request) (
	*model.SimulationBundle, error,
) {
	return c.cache.Get(ctx, canonicalKey(req))
}

func canonicalKey(req *Request) bundleKey {
	sel := make([]string, 0, len(req.Drivers)+1)
	sel = append(sel, req.Drivers...)
	if req.Driver != "" {
		sel = append(sel, req.Driver)
	}
	sel = lo.Uniq(lo.Map(sel, func(v string, _ int) string {
		return strings.ToUpper(v)
	}))
	slices.Sort(sel)

	return bundleKey{
		year:             req.Year,
		round:            req.Round,
		session:          req.Session,
		drivers:          strings.Join(sel, ","),
		maxDrivers:       req.MaxDrivers,
		weather:          req.Scenario.Weather,
		tire:             req.Scenario.Tire,
		aggression:       req.Scenario.Aggression,
		sectorTires:      strings.Join(req.Scenario.SectorTires, ","),
		sectorAggression: joinFloats(req.Scenario.SectorAggression),
	}
}

func (k bundleKey) request() *Request {
	req := &Request{
		Year:       k.year,
		Round:      k.round,
		Session:    k.session,
		MaxDrivers: k.maxDrivers,
		Scenario: scenario.Request{
			Weather:          k.weather,
			Tire:             k.tire,
			Aggression:       k.aggression,
			SectorTires:      splitCSV(k.sectorTires),
			SectorAggression: splitFloats(k.sectorAggression),
		},
	}
	if k.drivers != "" {
		req.Drivers = strings.Split(k.drivers, ",")
	}
	return req
}

func splitCSV(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func joinFloats(values []float64) string {
	return strings.Join(lo.Map(values, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}), ",")
}

func splitFloats(joined string) []float64 {
	return lo.Map(splitCSV(joined), func(v string, _ int) float64 {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 1.0
		}
		return f
	})
}
