//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package replay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/service/util"
	"github.com/simseed/simseed/testsupport/fakestore"
)

var (
	testKey = model.SessionKey{Year: 2024, Round: 3, Session: "R"}
	t0      = time.Date(2024, 4, 7, 14, 0, 0, 0, time.UTC)
)

func f(v float64) *float64 { return &v }

// aloRows moves along x in 1 dm steps with full channel data.
func aloRows(n int) []*model.TelemetryRow {
	rows := make([]*model.TelemetryRow, 0, n)
	for i := range n {
		gear := 3
		rows = append(rows, &model.TelemetryRow{
			SessionKey:   testKey,
			DriverNumber: "14",
			Driver:       "ALO",
			TeamName:     "Aston Martin",
			TS:           t0.Add(time.Duration(i) * time.Second),
			X:            f(100 + 10*float64(i)),
			Y:            f(50),
			Speed:        f(180),
			Gear:         &gear,
			Throttle:     f(50),
			Brake:        f(1),
		})
	}
	return rows
}

// verRows carries coordinates only, every other channel stays null.
func verRows(n int) []*model.TelemetryRow {
	rows := make([]*model.TelemetryRow, 0, n)
	for i := range n {
		rows = append(rows, &model.TelemetryRow{
			SessionKey:   testKey,
			DriverNumber: "1",
			Driver:       "VER",
			TeamName:     "Red Bull",
			TS:           t0.Add(time.Duration(i) * time.Second),
			X:            f(1000 - 10*float64(i)),
			Y:            f(30),
		})
	}
	return rows
}

func TestService_Load_StridesAndAligns(t *testing.T) {
	store := fakestore.New()
	store.EventNames[testKey] = "Testville GP"
	store.TelemetryRows = append(store.TelemetryRows, aloRows(10)...)
	store.TelemetryRows = append(store.TelemetryRows, verRows(7)...)
	svc := NewService(WithRepositories(store))

	data, err := svc.Load(context.Background(), &Request{
		Key:        testKey,
		MaxDrivers: 20,
		Stride:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2024, data.Meta.Year)
	assert.Equal(t, 3, data.Meta.Round)
	assert.Equal(t, "R", data.Meta.Session)
	assert.Equal(t, "Testville GP", data.Meta.EventName)
	assert.Equal(t, 2, data.Meta.DriverCount)
	assert.Equal(t, 2, data.Meta.Stride)

	// ALO yields 5 strided frames, VER 4, everything aligns on 4
	assert.Equal(t, 4, data.Meta.FrameCount)
	require.Len(t, data.Traces, 2)

	alo := data.Traces[0]
	assert.Equal(t, "ALO", alo.Driver)
	assert.Equal(t, "14", alo.DriverNumber)
	assert.Equal(t, "Aston Martin", alo.Team)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6}, alo.T, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 12, 14, 16}, alo.X, 1e-9)
	assert.InDeltaSlice(t, []float64{5, 5, 5, 5}, alo.Y, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, alo.Z, 1e-9)
	assert.InDeltaSlice(t, []float64{50, 50, 50, 50}, alo.Speed, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, alo.RPM, 1e-9)
	assert.Equal(t, []int{3, 3, 3, 3}, alo.Gear)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5}, alo.Throttle, 1e-9)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, alo.Brake, 1e-9)

	ver := data.Traces[1]
	assert.Equal(t, "VER", ver.Driver)
	assert.InDeltaSlice(t, []float64{100, 98, 96, 94}, ver.X, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, ver.Speed, 1e-9)
	assert.Equal(t, []int{0, 0, 0, 0}, ver.Gear)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, ver.Throttle, 1e-9)
}

func TestService_Load_StrideClampAndCap(t *testing.T) {
	store := fakestore.New()
	store.TelemetryRows = append(store.TelemetryRows, aloRows(10)...)
	store.TelemetryRows = append(store.TelemetryRows, verRows(7)...)
	svc := NewService(WithRepositories(store))

	// stride 0 falls back to every sample
	data, err := svc.Load(context.Background(), &Request{
		Key:        testKey,
		MaxDrivers: 20,
		Stride:     0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, data.Meta.Stride)
	assert.Equal(t, 7, data.Meta.FrameCount)

	// the roster cap keeps only the alphabetically first driver
	data, err = svc.Load(context.Background(), &Request{
		Key:        testKey,
		MaxDrivers: 1,
		Stride:     1,
	})
	require.NoError(t, err)
	require.Len(t, data.Traces, 1)
	assert.Equal(t, "ALO", data.Traces[0].Driver)
	assert.Equal(t, 10, data.Meta.FrameCount)
}

func TestService_Load_EventNameFallback(t *testing.T) {
	store := fakestore.New()
	store.TelemetryRows = append(store.TelemetryRows, aloRows(4)...)
	svc := NewService(WithRepositories(store))

	// no session row at all synthesizes a short label
	data, err := svc.Load(context.Background(), &Request{
		Key: testKey, MaxDrivers: 20, Stride: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Y2024 R3", data.Meta.EventName)

	// a stored empty name is passed through verbatim
	store.EventNames[testKey] = ""
	data, err = svc.Load(context.Background(), &Request{
		Key: testKey, MaxDrivers: 20, Stride: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, data.Meta.EventName)
}

func TestService_Load_Errors(t *testing.T) {
	store := fakestore.New()
	store.TelemetryRows = append(store.TelemetryRows, aloRows(4)...)
	svc := NewService(WithRepositories(store))

	_, err := svc.Load(context.Background(), &Request{
		Key:        model.SessionKey{Year: 2031, Round: 1, Session: "R"},
		MaxDrivers: 20,
		Stride:     1,
	})
	assert.ErrorIs(t, err, util.ErrNoSessionRows)

	_, err = svc.Load(context.Background(), &Request{
		Key:        testKey,
		Drivers:    []string{"XX"},
		MaxDrivers: 20,
		Stride:     1,
	})
	assert.ErrorIs(t, err, util.ErrNoDriverMatch)
}
