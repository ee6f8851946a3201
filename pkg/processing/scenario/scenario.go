package scenario

import (
	"strings"

	"github.com/simseed/simseed/pkg/model"
)

const (
	numSectors = 3

	minAggression = 0.7
	maxAggression = 1.5
)

type conditions struct {
	gripMul float64
	dragMul float64
}

var weatherPresets = map[string]conditions{
	"dry":  {gripMul: 1.0, dragMul: 1.0},
	"damp": {gripMul: 0.93, dragMul: 1.03},
	"wet":  {gripMul: 0.83, dragMul: 1.08},
}

var tireCompounds = map[string]float64{
	"hard":   0.95,
	"medium": 1.0,
	"soft":   1.06,
}

// Request describes the requested race conditions. Empty weather and
// tire names select the dry medium baseline. Sector settings beyond the
// third sector are ignored, missing ones fall back to the session-wide
// setting.
type Request struct {
	Weather          string
	Tire             string
	Aggression       float64
	SectorTires      []string
	SectorAggression []float64
}

func parseWeather(name string) conditions {
	if preset, ok := weatherPresets[strings.ToLower(name)]; ok {
		return preset
	}
	return conditions{gripMul: 1.0, dragMul: 1.0}
}

func tireCompound(name string) float64 {
	if name == "" {
		name = "medium"
	}
	if mul, ok := tireCompounds[strings.ToLower(name)]; ok {
		return mul
	}
	return 1.0
}

func clampAggression(v float64) float64 {
	return max(minAggression, min(maxAggression, v))
}

// Apply scales the car setup and the per-node track curvature to the
// requested conditions, in place. Grip and drag multipliers are bounded
// so extreme inputs stay drivable. The returned scenario echoes the
// request with sector aggression normalized to three clamped entries.
func Apply(car *model.CarConfig, track *model.TrackModel, req Request) model.Scenario {
	weather := parseWeather(req.Weather)
	tireMul := tireCompound(req.Tire)
	aggression := clampAggression(req.Aggression)

	sectorTireMul := make([]float64, 0, numSectors)
	for _, t := range req.SectorTires[:min(numSectors, len(req.SectorTires))] {
		sectorTireMul = append(sectorTireMul, tireCompound(t))
	}
	for len(sectorTireMul) < numSectors {
		sectorTireMul = append(sectorTireMul, tireMul)
	}

	sectorAggr := make([]float64, 0, numSectors)
	for _, v := range req.SectorAggression[:min(numSectors, len(req.SectorAggression))] {
		sectorAggr = append(sectorAggr, clampAggression(v))
	}
	for len(sectorAggr) < numSectors {
		sectorAggr = append(sectorAggr, 1.0)
	}

	avgSectorTire := (sectorTireMul[0] + sectorTireMul[1] + sectorTireMul[2]) / 3.0
	avgSectorAggr := (sectorAggr[0] + sectorAggr[1] + sectorAggr[2]) / 3.0

	car.MuLat = max(1.1, min(3.2, car.MuLat*weather.gripMul*tireMul*avgSectorTire))
	car.MuLong = max(0.9, min(3.0, car.MuLong*weather.gripMul*tireMul))
	car.CdA = max(0.8, min(1.8, car.CdA*weather.dragMul))
	car.BrakeForceMaxN = max(10000.0, min(26000.0, car.BrakeForceMaxN*(0.92+0.12*aggression)))
	car.SteerGain = max(0.08, min(0.45, car.SteerGain*(0.9+0.18*avgSectorAggr)))

	totalLen := max(1.0, track.TotalLength)
	sectorLen := totalLen / numSectors
	for i := range track.Nodes {
		sector := min(numSectors-1, int(track.Nodes[i].ArcLength/sectorLen))
		aggr := sectorAggr[sector]
		tireGrip := sectorTireMul[sector]
		track.Nodes[i].Curvature *= (1.0 + (aggr-1.0)*0.12) / max(0.8, tireGrip)
	}

	echoWeather := req.Weather
	if echoWeather == "" {
		echoWeather = "dry"
	}
	echoTire := req.Tire
	if echoTire == "" {
		echoTire = "medium"
	}
	echoTires := make([]string, 0, numSectors)
	echoTires = append(echoTires, req.SectorTires[:min(numSectors, len(req.SectorTires))]...)

	return model.Scenario{
		Weather:          echoWeather,
		Tire:             echoTire,
		Aggression:       aggression,
		SectorTires:      echoTires,
		SectorAggression: sectorAggr,
	}
}
