//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/testsupport/fakestore"
)

func seedSession(
	store *fakestore.Store, key model.SessionKey, driver, number string, rows int,
) {
	base := time.Date(key.Year, 5, 1, 14, 0, 0, 0, time.UTC)
	for i := range rows {
		x := float64(i)
		y := float64(i)
		store.TelemetryRows = append(store.TelemetryRows, &model.TelemetryRow{
			SessionKey:   key,
			DriverNumber: number,
			Driver:       driver,
			TeamName:     driver + " Racing",
			TS:           base.Add(time.Duration(i) * time.Second),
			X:            &x,
			Y:            &y,
		})
	}
}

func TestService_Sessions(t *testing.T) {
	store := fakestore.New()
	race24 := model.SessionKey{Year: 2024, Round: 3, Session: "R"}
	quali24 := model.SessionKey{Year: 2024, Round: 1, Session: "Q"}
	race23 := model.SessionKey{Year: 2023, Round: 5, Session: "R"}
	seedSession(store, race24, "ALO", "14", 4)
	seedSession(store, race24, "VER", "1", 6)
	seedSession(store, quali24, "VER", "1", 3)
	seedSession(store, race23, "HAM", "44", 2)
	store.EventNames[race24] = "Testville GP"

	svc := NewService(WithRepositories(store))
	cat, err := svc.Sessions(context.Background())
	require.NoError(t, err)

	// newest year first, rounds ascending within a year
	expected := []*model.SessionInfo{
		{Year: 2024, Round: 1, Session: "Q", EventName: "",
			DriverCount: 1, TelemetryRows: 3},
		{Year: 2024, Round: 3, Session: "R", EventName: "Testville GP",
			DriverCount: 2, TelemetryRows: 10},
		{Year: 2023, Round: 5, Session: "R", EventName: "",
			DriverCount: 1, TelemetryRows: 2},
	}
	assert.Equal(t, expected, cat.Sessions)
}

func TestService_Sessions_Empty(t *testing.T) {
	svc := NewService(WithRepositories(fakestore.New()))
	cat, err := svc.Sessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cat.Sessions)
	assert.Empty(t, cat.Sessions)
}

func TestService_Drivers(t *testing.T) {
	store := fakestore.New()
	key := model.SessionKey{Year: 2024, Round: 3, Session: "R"}
	seedSession(store, key, "VER", "1", 6)
	seedSession(store, key, "ALO", "14", 4)

	svc := NewService(WithRepositories(store))
	cat, err := svc.Drivers(context.Background(), key)
	require.NoError(t, err)

	assert.Equal(t, 2024, cat.Year)
	assert.Equal(t, 3, cat.Round)
	assert.Equal(t, "R", cat.Session)
	require.Len(t, cat.Drivers, 2)
	assert.Equal(t, "ALO", cat.Drivers[0].Driver)
	assert.Equal(t, 4, cat.Drivers[0].Samples)
	assert.Equal(t, "VER", cat.Drivers[1].Driver)
	assert.Equal(t, 6, cat.Drivers[1].Samples)
}

func TestService_Drivers_UnknownSession(t *testing.T) {
	svc := NewService(WithRepositories(fakestore.New()))
	cat, err := svc.Drivers(context.Background(),
		model.SessionKey{Year: 2031, Round: 1, Session: "R"})
	require.NoError(t, err)
	assert.NotNil(t, cat.Drivers)
	assert.Empty(t, cat.Drivers)
}
