package model

// TrackNode is one sampled node of the closed track path.
// ArcLength is the accumulated path distance from the first node,
// Curvature is signed (positive = left turn), Elevation is relative
// to the first node.
type TrackNode struct {
	ArcLength float64
	Curvature float64
	Elevation float64
}

// TrackModel is the closed-loop geometry handed to the simulator.
// Arc lengths are non-decreasing; the first node is (0,0,0).
type TrackModel struct {
	Name        string
	TotalLength float64
	Nodes       []TrackNode
}

// TrackPayload is the wire form of a TrackModel. Nodes are emitted as
// [arcLength, curvature, elevation] triples.
//
//nolint:tagliatelle // field names fixed by the simulator
type TrackPayload struct {
	Name    string       `json:"name"`
	LengthM float64      `json:"length_m"`
	Nodes   [][3]float64 `json:"nodes"`
}

func (t *TrackModel) Payload() TrackPayload {
	nodes := make([][3]float64, 0, len(t.Nodes))
	for i := range t.Nodes {
		n := t.Nodes[i]
		nodes = append(nodes, [3]float64{n.ArcLength, n.Curvature, n.Elevation})
	}
	return TrackPayload{Name: t.Name, LengthM: t.TotalLength, Nodes: nodes}
}
