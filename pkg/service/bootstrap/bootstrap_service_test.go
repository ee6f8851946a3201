//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package bootstrap

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/processing/scenario"
	"github.com/simseed/simseed/pkg/service/util"
	"github.com/simseed/simseed/testsupport/fakestore"
)

var testKey = model.SessionKey{Year: 2024, Round: 3, Session: "R"}

// circleRows produces n telemetry rows on a 100 m radius circle, one
// second apart, positions in decimeters as the provider delivers them.
func circleRows(
	key model.SessionKey, driver, number, team string, n int, start time.Time,
) []*model.TelemetryRow {
	rows := make([]*model.TelemetryRow, 0, n)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		x := 1000 * math.Cos(angle)
		y := 1000 * math.Sin(angle)
		speed := 180.0
		rpm := 9000.0
		gear := 6
		rows = append(rows, &model.TelemetryRow{
			SessionKey:   key,
			DriverNumber: number,
			Driver:       driver,
			TeamName:     team,
			TS:           start.Add(time.Duration(i) * time.Second),
			X:            &x,
			Y:            &y,
			Speed:        &speed,
			RPM:          &rpm,
			Gear:         &gear,
		})
	}
	return rows
}

func seededStore(t0 time.Time) *fakestore.Store {
	store := fakestore.New()
	store.EventNames[testKey] = "Testville GP"
	store.TelemetryRows = append(store.TelemetryRows,
		circleRows(testKey, "ALO", "14", "Aston Martin", 300, t0)...)
	store.TelemetryRows = append(store.TelemetryRows,
		circleRows(testKey, "VER", "1", "Red Bull", 100, t0)...)

	lapStart := t0.Add(10 * time.Second)
	lapTime := 97.0
	store.Laps = append(store.Laps, &model.LapRow{
		SessionKey:     testKey,
		Driver:         "ALO",
		DriverNumber:   "14",
		LapStartDate:   &lapStart,
		LapTimeSeconds: &lapTime,
		IsAccurate:     true,
	})
	return store
}

func TestService_Load_DerivesBundle(t *testing.T) {
	t0 := time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC)
	store := seededStore(t0)
	svc := NewService(WithRepositories(store))

	bundle, err := svc.Load(context.Background(),
		&Request{Scenario: scenario.Request{Aggression: 1.0}})
	require.NoError(t, err)

	// selector defaults resolve to the only stored session, the
	// alphabetically first driver leads
	assert.Equal(t, 2024, bundle.Meta.Year)
	assert.Equal(t, 3, bundle.Meta.Round)
	assert.Equal(t, "R", bundle.Meta.Session)
	assert.Equal(t, "ALO", bundle.Meta.Driver)
	assert.Equal(t, "14", bundle.Meta.DriverNumber)
	assert.Equal(t, "Testville GP", bundle.Meta.EventName)
	require.Len(t, bundle.Meta.SelectedDrivers, 2)
	assert.Equal(t, "ALO", bundle.Meta.SelectedDrivers[0].Driver)
	assert.Equal(t, "VER", bundle.Meta.SelectedDrivers[1].Driver)

	// the fastest-lap window keeps samples 10..109 inclusive
	assert.Equal(t, 100, bundle.Meta.PointsUsed)

	assert.Equal(t, 2, bundle.Sim.ActiveCars)
	assert.Equal(t, model.DefaultSimConfig().MaxCars, bundle.Sim.MaxCars)

	assert.Equal(t, "Testville GP", bundle.Track.Name)
	assert.NotEmpty(t, bundle.Track.Nodes)
	assert.Positive(t, bundle.Track.LengthM)

	// constant channels make the derived parameters exact
	assert.InDelta(t, 9000.0, bundle.Car.Powertrain.ShiftRPMUp, 1e-9)
	assert.InDelta(t, 4950.0, bundle.Car.Powertrain.ShiftRPMDown, 1e-9)
	assert.Equal(t, 6, bundle.Car.Powertrain.GearCount)
	assert.InDelta(t, 3.4, bundle.Car.ClA, 1e-9)
	assert.InDelta(t, 1.5-50.0/300.0, bundle.Car.CdA, 1e-9)

	// neutral scenario at aggression 1.0
	assert.InDelta(t, 18500.0*1.04, bundle.Car.BrakeForceMaxN, 1e-9)
	assert.InDelta(t, 2.1, bundle.Car.MuLat, 1e-9)
	assert.Equal(t, "dry", bundle.Meta.Scenario.Weather)
	assert.Equal(t, "medium", bundle.Meta.Scenario.Tire)
	assert.InDelta(t, 1.0, bundle.Meta.Scenario.Aggression, 1e-9)
}

func TestService_Load_DriverFilterSelectsLead(t *testing.T) {
	t0 := time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC)
	store := seededStore(t0)
	svc := NewService(WithRepositories(store))

	// case-insensitive name match; VER has no lap row, so the full
	// trace is scanned
	bundle, err := svc.Load(context.Background(), &Request{
		Drivers:  []string{"ver"},
		Scenario: scenario.Request{Aggression: 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "VER", bundle.Meta.Driver)
	assert.Equal(t, "1", bundle.Meta.DriverNumber)
	assert.Equal(t, 100, bundle.Meta.PointsUsed)
	assert.Equal(t, 1, bundle.Sim.ActiveCars)

	// number match through the single-driver field
	bundle, err = svc.Load(context.Background(), &Request{
		Driver:   "1",
		Scenario: scenario.Request{Aggression: 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "VER", bundle.Meta.Driver)
}

func TestService_Load_ExplicitSelectorAndFallbackName(t *testing.T) {
	t0 := time.Date(2023, 7, 2, 15, 0, 0, 0, time.UTC)
	store := seededStore(time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC))
	oldKey := model.SessionKey{Year: 2023, Round: 5, Session: "Q"}
	store.TelemetryRows = append(store.TelemetryRows,
		circleRows(oldKey, "HAM", "44", "Mercedes", 120, t0)...)
	svc := NewService(WithRepositories(store))

	bundle, err := svc.Load(context.Background(), &Request{
		Year:     2023,
		Round:    5,
		Session:  "Q",
		Scenario: scenario.Request{Aggression: 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2023, bundle.Meta.Year)
	assert.Equal(t, "HAM", bundle.Meta.Driver)
	// no session row stored, the display name is synthesized
	assert.Equal(t, "Y2023 R5 Q", bundle.Meta.EventName)
	assert.Equal(t, "Y2023 R5 Q", bundle.Track.Name)
	assert.Equal(t, 120, bundle.Meta.PointsUsed)
}

func TestService_Load_Errors(t *testing.T) {
	t0 := time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		setup   func(store *fakestore.Store)
		req     *Request
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty store",
			setup:   func(store *fakestore.Store) {},
			req:     &Request{},
			wantErr: util.ErrEmptyStore,
			wantMsg: "telemetry table has no usable data",
		},
		{
			name: "empty store with full selector",
			setup: func(store *fakestore.Store) {
			},
			req:     &Request{Year: 2024, Round: 3, Session: "R"},
			wantErr: util.ErrEmptyStore,
			wantMsg: "telemetry table has no usable data",
		},
		{
			name: "driver filter matches nobody",
			setup: func(store *fakestore.Store) {
				store.TelemetryRows = circleRows(testKey, "ALO", "14", "", 100, t0)
			},
			req:     &Request{Drivers: []string{"99"}},
			wantErr: util.ErrNoDriverMatch,
			wantMsg: "requested drivers not found in selected session",
		},
		{
			name: "too few points after dedup",
			setup: func(store *fakestore.Store) {
				store.TelemetryRows = circleRows(testKey, "ALO", "14", "", 50, t0)
			},
			req:     &Request{},
			wantErr: util.ErrTooFewPoints,
			wantMsg: "not enough usable telemetry points after dedup",
		},
		{
			name: "no coordinate rows",
			setup: func(store *fakestore.Store) {
				rows := circleRows(testKey, "ALO", "14", "", 100, t0)
				for _, row := range rows {
					row.X = nil
				}
				store.TelemetryRows = rows
			},
			req:     &Request{},
			wantErr: util.ErrNoCoordinates,
			wantMsg: "telemetry table has no coordinate rows for selected driver/session",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakestore.New()
			tt.setup(store)
			svc := NewService(WithRepositories(store))
			bundle, err := svc.Load(context.Background(), tt.req)
			assert.Nil(t, bundle)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestService_Load_ScenarioShiftsBundle(t *testing.T) {
	t0 := time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC)
	store := seededStore(t0)
	svc := NewService(WithRepositories(store))

	base, err := svc.Load(context.Background(),
		&Request{Scenario: scenario.Request{Aggression: 1.0}})
	require.NoError(t, err)

	shifted, err := svc.Load(context.Background(), &Request{
		Scenario: scenario.Request{
			Weather:    "wet",
			Tire:       "soft",
			Aggression: 1.5,
		},
	})
	require.NoError(t, err)

	// wet lowers grip and raises drag relative to the dry baseline
	assert.Less(t, shifted.Car.MuLat, base.Car.MuLat)
	assert.Less(t, shifted.Car.MuLong, base.Car.MuLong)
	assert.Greater(t, shifted.Car.CdA, base.Car.CdA)
	assert.InDelta(t, 18500.0*1.1, shifted.Car.BrakeForceMaxN, 1e-9)

	assert.Equal(t, "wet", shifted.Meta.Scenario.Weather)
	assert.Equal(t, "soft", shifted.Meta.Scenario.Tire)
	assert.InDelta(t, 1.5, shifted.Meta.Scenario.Aggression, 1e-9)

	// baseline car parameters stay untouched between derivations
	assert.InDelta(t, 18500.0*1.04, base.Car.BrakeForceMaxN, 1e-9)
}
