package model

import "math"

// SpatialPoint is a position in meters. Values are immutable once created.
type SpatialPoint struct {
	X float64
	Y float64
	Z float64
}

func (p SpatialPoint) DistanceTo(o SpatialPoint) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
