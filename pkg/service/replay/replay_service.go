//nolint:whitespace // can't make both editor and linter happy
package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
	"github.com/simseed/simseed/pkg/service/util"
)

const (
	positionScale = 0.1
	kphToMps      = 3.6
	throttleScale = 100.0
)

// Request selects the session, the driver subset and the subsampling
// stride of one replay extraction.
type Request struct {
	Key        model.SessionKey
	Drivers    []string
	MaxDrivers int
	Stride     int
}

func NewService(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("svc.replay"),
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

// WithSampleLimit caps the telemetry rows fetched per driver. Zero
// means unbounded.
func WithSampleLimit(limit int) Option {
	return func(srv *Service) {
		srv.sampleLimit = limit
	}
}

type Service struct {
	repos       api.Repositories
	log         *log.Logger
	sampleLimit int
}

// Load extracts stride-subsampled channel traces for the selected
// drivers. All traces are truncated to the smallest non-empty frame
// count so the consumer can animate them in lockstep.
func (s *Service) Load(ctx context.Context, req *Request) (*model.ReplayData, error) {
	stride := max(1, req.Stride)
	roster, err := util.SelectRoster(
		ctx, s.repos.Telemetry(), req.Key, req.Drivers, req.MaxDrivers)
	if err != nil {
		return nil, err
	}
	s.log.Debug("replay requested",
		log.String("key", req.Key.String()),
		log.Int("drivers", len(roster)),
		log.Int("stride", stride))

	traces := make([]*model.ReplayTrace, 0, len(roster))
	frameCount := 0
	for _, d := range roster {
		samples, err := s.repos.Telemetry().LoadSamples(
			ctx, req.Key, d.DriverNumber, s.sampleLimit)
		if err != nil {
			return nil, err
		}
		trace := buildTrace(d, samples, stride)
		if frameCount == 0 {
			frameCount = len(trace.X)
		} else {
			frameCount = min(frameCount, len(trace.X))
		}
		traces = append(traces, trace)
	}
	for _, t := range traces {
		truncate(t, frameCount)
	}

	eventName, err := s.eventName(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	return &model.ReplayData{
		Meta: model.ReplayMeta{
			Year:        req.Key.Year,
			Round:       req.Key.Round,
			Session:     req.Key.Session,
			EventName:   eventName,
			DriverCount: len(traces),
			FrameCount:  frameCount,
			Stride:      stride,
		},
		Traces: traces,
	}, nil
}

// eventName uses the stored name verbatim (even empty) and falls back
// only when no session row exists at all.
func (s *Service) eventName(ctx context.Context, key model.SessionKey) (
	string, error,
) {
	name, err := s.repos.Session().LoadEventName(ctx, key)
	if err != nil {
		if errors.Is(err, api.ErrNoRows) {
			return fmt.Sprintf("Y%d R%d", key.Year, key.Round), nil
		}
		return "", err
	}
	return name, nil
}

func buildTrace(
	d *model.DriverRef, samples []*model.TelemetrySample, stride int,
) *model.ReplayTrace {
	frames := len(samples)/stride + 1
	t := &model.ReplayTrace{
		Driver:       d.Driver,
		DriverNumber: d.DriverNumber,
		Team:         d.Team,
		T:            make([]float64, 0, frames),
		X:            make([]float64, 0, frames),
		Y:            make([]float64, 0, frames),
		Z:            make([]float64, 0, frames),
		Speed:        make([]float64, 0, frames),
		RPM:          make([]float64, 0, frames),
		Gear:         make([]int, 0, frames),
		Throttle:     make([]float64, 0, frames),
		Brake:        make([]float64, 0, frames),
	}
	for i := 0; i < len(samples); i += stride {
		sample := samples[i]
		t.T = append(t.T, sample.TS.Sub(samples[0].TS).Seconds())
		t.X = append(t.X, sample.Pos.X*positionScale)
		t.Y = append(t.Y, sample.Pos.Y*positionScale)
		t.Z = append(t.Z, sample.Pos.Z*positionScale)
		t.Speed = append(t.Speed, orZero(sample.Speed)/kphToMps)
		t.RPM = append(t.RPM, orZero(sample.RPM))
		t.Gear = append(t.Gear, orZeroInt(sample.Gear))
		t.Throttle = append(t.Throttle, orZero(sample.Throttle)/throttleScale)
		t.Brake = append(t.Brake, orZero(sample.Brake))
	}
	return t
}

func truncate(t *model.ReplayTrace, frameCount int) {
	t.T = capLen(t.T, frameCount)
	t.X = capLen(t.X, frameCount)
	t.Y = capLen(t.Y, frameCount)
	t.Z = capLen(t.Z, frameCount)
	t.Speed = capLen(t.Speed, frameCount)
	t.RPM = capLen(t.RPM, frameCount)
	t.Gear = capLen(t.Gear, frameCount)
	t.Throttle = capLen(t.Throttle, frameCount)
	t.Brake = capLen(t.Brake, frameCount)
}

func capLen[T any](values []T, limit int) []T {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func orZeroInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
