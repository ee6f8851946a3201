package track

import (
	"errors"

	"github.com/simseed/simseed/pkg/model"
)

// ErrInsufficientPoints is returned when a trace is too sparse to
// describe a drivable track.
var ErrInsufficientPoints = errors.New("not enough telemetry points to build track")

const (
	defaultNodeCount = 900
	defaultName      = "circuit"
	// gap between travelled and closed length that forces a closing node
	closingGap = 1.0
)

type (
	BuilderOption func(*Builder)
	// Builder converts ordered position traces into track models.
	Builder struct {
		name      string
		nodeCount int
	}
)

func WithTrackName(name string) BuilderOption {
	return func(b *Builder) {
		b.name = name
	}
}

func WithNodeCount(count int) BuilderOption {
	return func(b *Builder) {
		b.nodeCount = count
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	ret := &Builder{
		name:      defaultName,
		nodeCount: defaultNodeCount,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Build extracts a single lap from the trace, resamples it to the
// configured node count and derives arc length, curvature and relative
// elevation per node. The closing segment back to the start is appended
// as a final node when it adds more than closingGap of length.
func (b *Builder) Build(points []model.SpatialPoint) (*model.TrackModel, error) {
	lap := ExtractLap(points)
	resampled := Resample(lap, b.nodeCount)
	if len(resampled) < 3 {
		return nil, ErrInsufficientPoints
	}

	nodes := make([]model.TrackNode, 0, len(resampled)+1)
	nodes = append(nodes, model.TrackNode{})
	arcLength := 0.0
	baseElevation := resampled[0].Z
	for i := 1; i < len(resampled); i++ {
		arcLength += resampled[i-1].DistanceTo(resampled[i])
		next := min(i+1, len(resampled)-1)
		nodes = append(nodes, model.TrackNode{
			ArcLength: arcLength,
			Curvature: Curvature(resampled[i-1], resampled[i], resampled[next]),
			Elevation: resampled[i].Z - baseElevation,
		})
	}

	lengthM := arcLength + resampled[len(resampled)-1].DistanceTo(resampled[0])
	if lengthM > arcLength+closingGap {
		nodes = append(nodes, model.TrackNode{
			ArcLength: lengthM,
			Curvature: nodes[0].Curvature,
			Elevation: nodes[0].Elevation,
		})
	}

	return &model.TrackModel{
		Name:        b.name,
		TotalLength: lengthM,
		Nodes:       nodes,
	}, nil
}
