//nolint:whitespace // can't make both editor and linter happy
package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/processing/car"
	"github.com/simseed/simseed/pkg/processing/scenario"
	"github.com/simseed/simseed/pkg/processing/track"
	"github.com/simseed/simseed/pkg/repository/api"
	"github.com/simseed/simseed/pkg/service/util"
)

const (
	// points closer than this to their predecessor are dropped
	dedupMinDistance = 0.05
	// fewer usable points than this cannot yield a track model
	minUsablePoints = 80
	// scan margin beyond the fastest lap's duration
	lapWindowSlack = 2 * time.Second
	// provider positions arrive in decimeters
	positionScale = 0.1
	kphToMps      = 3.6
)

// Request selects the session scope, the driver roster and the
// scenario of one bundle derivation. Zero-value year/round/session
// select the most recent stored session. MaxDrivers caps the roster
// at [1,20]; the HTTP layer defaults it to 20 when absent.
type Request struct {
	Year       int
	Round      int
	Session    string
	Driver     string
	Drivers    []string
	MaxDrivers int
	Scenario   scenario.Request
}

// Loader yields simulation bundles for bootstrap requests. Implemented
// by Service and by the memoizing wrapper in this package.
type Loader interface {
	Load(ctx context.Context, req *Request) (*model.SimulationBundle, error)
}

func NewService(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("svc.bootstrap"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("simseed")
	}
	return ret
}

type Option func(*Service)

func WithRepositories(r api.Repositories) Option {
	return func(srv *Service) {
		srv.repos = r
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *Service) {
		srv.tracer = tracer
	}
}

// WithSampleLimit caps the telemetry rows fetched for the lead driver.
// Zero means unbounded.
func WithSampleLimit(limit int) Option {
	return func(srv *Service) {
		srv.sampleLimit = limit
	}
}

type Service struct {
	repos       api.Repositories
	log         *log.Logger
	tracer      trace.Tracer
	sampleLimit int
}

var _ Loader = (*Service)(nil)

// Load derives a complete simulation bundle for the request scope.
// All failures are terminal; numeric degeneracies inside the
// processing chain resolve to sentinels, never errors.
func (s *Service) Load(ctx context.Context, req *Request) (
	*model.SimulationBundle, error,
) {
	key, err := s.resolveKey(ctx, req)
	if err != nil {
		return nil, err
	}

	requested := make([]string, 0, len(req.Drivers)+1)
	requested = append(requested, req.Drivers...)
	if req.Driver != "" {
		requested = append(requested, req.Driver)
	}
	roster, err := util.SelectRoster(
		ctx, s.repos.Telemetry(), key, requested, req.MaxDrivers)
	if err != nil {
		return nil, err
	}
	lead := roster[0]
	s.log.Debug("bootstrap requested",
		log.String("key", key.String()),
		log.String("driver", lead.Driver),
		log.Int("roster", len(roster)))

	points, obs, err := s.collectLeadTrace(ctx, key, lead.DriverNumber)
	if err != nil {
		return nil, err
	}

	eventName, err := s.loadEventName(ctx, key)
	if err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "derive bundle")
	defer span.End()

	trackModel, err := track.NewBuilder(track.WithTrackName(eventName)).
		Build(points)
	if err != nil {
		if errors.Is(err, track.ErrInsufficientPoints) {
			return nil, util.WrapInsufficientSignal(err)
		}
		return nil, err
	}
	carCfg := car.Derive(obs)
	echo := scenario.Apply(carCfg, trackModel, req.Scenario)

	sim := model.DefaultSimConfig()
	sim.ActiveCars = max(1, min(len(roster), sim.MaxCars))

	return &model.SimulationBundle{
		Sim:   sim,
		Car:   *carCfg,
		Track: trackModel.Payload(),
		Meta: model.BundleMeta{
			Year:         key.Year,
			Round:        key.Round,
			Session:      key.Session,
			Driver:       lead.Driver,
			DriverNumber: lead.DriverNumber,
			EventName:    eventName,
			SelectedDrivers: lo.Map(roster,
				func(d *model.DriverRef, _ int) model.DriverRef { return *d }),
			PointsUsed: len(points),
			Scenario:   echo,
		},
	}, nil
}

// resolveKey fills missing selector parts from the most recent stored
// session. An empty store is an error even for a fully given selector.
func (s *Service) resolveKey(ctx context.Context, req *Request) (
	model.SessionKey, error,
) {
	recent, err := s.repos.Telemetry().MostRecentKey(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoRows) {
			return model.SessionKey{}, util.ErrEmptyStore
		}
		return model.SessionKey{}, err
	}
	key := *recent
	if req.Year != 0 {
		key.Year = req.Year
	}
	if req.Round != 0 {
		key.Round = req.Round
	}
	if req.Session != "" {
		key.Session = req.Session
	}
	return key, nil
}

// collectLeadTrace loads the lead driver's samples, restricts them to
// the fastest-lap window when one is known, converts units and drops
// near-duplicate positions. Channel observations are only taken from
// kept rows so the statistics describe the modeled trace.
func (s *Service) collectLeadTrace(
	ctx context.Context,
	key model.SessionKey,
	driverNumber string,
) ([]model.SpatialPoint, car.Observations, error) {
	var obs car.Observations

	window, err := s.lapWindow(ctx, key, driverNumber)
	if err != nil {
		return nil, obs, err
	}

	samples, err := s.repos.Telemetry().LoadSamples(
		ctx, key, driverNumber, s.sampleLimit)
	if err != nil {
		return nil, obs, err
	}
	if len(samples) == 0 {
		return nil, obs, util.ErrNoCoordinates
	}

	points := make([]model.SpatialPoint, 0, len(samples))
	for _, sample := range samples {
		if window != nil && !window.contains(sample.TS) {
			continue
		}
		p := model.SpatialPoint{
			X: sample.Pos.X * positionScale,
			Y: sample.Pos.Y * positionScale,
			Z: sample.Pos.Z * positionScale,
		}
		if len(points) > 0 && points[len(points)-1].DistanceTo(p) < dedupMinDistance {
			continue
		}
		points = append(points, p)

		if sample.Speed != nil {
			obs.SpeedsMps = append(obs.SpeedsMps, *sample.Speed/kphToMps)
		}
		if sample.RPM != nil {
			obs.Rpms = append(obs.Rpms, *sample.RPM)
		}
		if sample.Gear != nil {
			obs.Gears = append(obs.Gears, *sample.Gear)
		}
	}
	if len(points) < minUsablePoints {
		return nil, obs, util.ErrTooFewPoints
	}
	return points, obs, nil
}

type timeWindow struct {
	start time.Time
	end   time.Time
}

func (w *timeWindow) contains(ts time.Time) bool {
	return !ts.Before(w.start) && !ts.After(w.end)
}

// lapWindow bounds the scan to the lead driver's fastest accurate lap
// plus slack. Without a qualifying lap the full trace is used.
func (s *Service) lapWindow(
	ctx context.Context,
	key model.SessionKey,
	driverNumber string,
) (*timeWindow, error) {
	lap, err := s.repos.Lap().FastestLap(ctx, key, driverNumber)
	if err != nil {
		if errors.Is(err, api.ErrNoRows) {
			s.log.Warn("no accurate lap with start time, scanning full trace",
				log.String("key", key.String()),
				log.String("driverNumber", driverNumber))
			return nil, nil
		}
		return nil, err
	}
	end := lap.StartDate.
		Add(time.Duration(lap.LapTimeSeconds * float64(time.Second))).
		Add(lapWindowSlack)
	return &timeWindow{start: lap.StartDate, end: end}, nil
}

func (s *Service) loadEventName(ctx context.Context, key model.SessionKey) (
	string, error,
) {
	name, err := s.repos.Session().LoadEventName(ctx, key)
	if err != nil && !errors.Is(err, api.ErrNoRows) {
		return "", err
	}
	if name == "" {
		name = key.FallbackEventName()
	}
	return name, nil
}
