package track

import (
	"github.com/simseed/simseed/pkg/model"
)

const (
	// traces below this size are assumed to hold at most one lap
	minTracePoints = 200
	// distance that must be travelled before lap closure is considered
	minLapDistance = 3000.0
	// radius around the starting point that closes the lap
	closeRadius = 45.0
	// candidate laps below this size fall back to the full trace
	minLapPoints = 100
)

// ExtractLap cuts the first complete lap out of an ordered position
// trace. Closure is detected by returning within closeRadius of the
// starting point after at least minLapDistance of travel. When no
// closure is found the full trace is returned.
func ExtractLap(points []model.SpatialPoint) []model.SpatialPoint {
	if len(points) < minTracePoints {
		return points
	}
	start := points[0]
	endIdx := len(points) - 1
	travelled := 0.0
	for i := 1; i < len(points); i++ {
		travelled += points[i-1].DistanceTo(points[i])
		if travelled < minLapDistance {
			continue
		}
		if points[i].DistanceTo(start) < closeRadius {
			endIdx = i
			break
		}
	}
	lap := points[:endIdx+1]
	if len(lap) >= minLapPoints {
		return lap
	}
	return points
}
