package track

import (
	"github.com/simseed/simseed/pkg/model"
)

const (
	// paths shorter than this are treated as a single point cluster
	minPathLength = 1e-6
	// segments shorter than this are not interpolated into
	minSegmentLength = 1e-9
)

// Resample distributes targetCount points uniformly in arc length along
// the ordered path. Paths already at or below targetCount are returned
// unchanged, there is no upsampling.
func Resample(points []model.SpatialPoint, targetCount int) []model.SpatialPoint {
	if len(points) <= targetCount {
		return points
	}

	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + points[i-1].DistanceTo(points[i])
	}
	total := cumulative[len(cumulative)-1]
	if total <= minPathLength {
		return points[:targetCount]
	}

	out := make([]model.SpatialPoint, 0, targetCount)
	srcIdx := 0
	for i := 0; i < targetCount; i++ {
		t := total * float64(i) / float64(max(1, targetCount-1))
		for srcIdx+1 < len(cumulative) && cumulative[srcIdx+1] < t {
			srcIdx++
		}
		if srcIdx+1 >= len(points) {
			out = append(out, points[len(points)-1])
			continue
		}
		segLen := cumulative[srcIdx+1] - cumulative[srcIdx]
		if segLen <= minSegmentLength {
			out = append(out, points[srcIdx])
			continue
		}
		alpha := (t - cumulative[srcIdx]) / segLen
		p0 := points[srcIdx]
		p1 := points[srcIdx+1]
		out = append(out, model.SpatialPoint{
			X: p0.X + (p1.X-p0.X)*alpha,
			Y: p0.Y + (p1.Y-p0.Y)*alpha,
			Z: p0.Z + (p1.Z-p0.Z)*alpha,
		})
	}
	return out
}
