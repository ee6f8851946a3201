package track

import (
	"math"

	"github.com/simseed/simseed/pkg/model"
)

// side lengths below this count as degenerate triangles
const minTriangleSide = 1e-6

// Curvature returns the signed curvature of the circumcircle through
// three consecutive points, projected onto the ground plane. Left turns
// are positive. Degenerate triangles yield zero.
func Curvature(p0, p1, p2 model.SpatialPoint) float64 {
	a := math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
	b := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	c := math.Hypot(p2.X-p0.X, p2.Y-p0.Y)
	if a <= minTriangleSide || b <= minTriangleSide || c <= minTriangleSide {
		return 0
	}
	cross := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	return 2 * cross / (a * b * c)
}
