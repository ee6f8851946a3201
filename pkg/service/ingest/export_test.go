//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedExporter(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"0.4.0", true},
		{"v0.4.0", true},
		{"0.4", true},
		{"0.5.1", true},
		{"1.0.0", true},
		{"0.3.9", false},
		{"", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportedExporter(tt.version))
		})
	}
}

func TestParseExport_FullDocument(t *testing.T) {
	doc := `{
		"schema_version": "0.5.1",
		"source": "fastf1",
		"sessions": [
			{
				"year": 2024, "round": 3, "session": "R", "event_name": "Testville GP",
				"telemetry": [
					{"driver": "ALO", "driver_number": "14", "team": "Aston Martin",
					 "date": "2024-04-07T14:03:21.12Z",
					 "x": 1023.0, "y": -221.5, "z": 12.0,
					 "speed": 280.0, "rpm": 11000, "gear": 7,
					 "throttle": 100.0, "brake": false},
					{"driver": "ALO", "driver_number": "14", "team": "Aston Martin",
					 "date": "2024-04-07T14:03:21.32Z",
					 "x": 1040.0, "y": -219.0, "z": 12.0,
					 "speed": 279.0, "rpm": 10950, "gear": 7,
					 "throttle": 98.5, "brake": true}
				],
				"laps": [
					{"driver": "ALO", "driver_number": "14",
					 "lap_start_date": "2024-04-07T14:02:05Z",
					 "lap_time_seconds": 97.123, "is_accurate": true}
				]
			}
		]
	}`

	export, err := ParseExport([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "0.5.1", export.SchemaVersion)
	assert.Equal(t, "fastf1", export.Source)
	assert.Zero(t, export.Skipped)
	require.Len(t, export.Sessions, 1)

	se := export.Sessions[0]
	assert.Equal(t, 2024, se.Meta.Year)
	assert.Equal(t, 3, se.Meta.Round)
	assert.Equal(t, "R", se.Meta.Session)
	assert.Equal(t, "Testville GP", se.Meta.EventName)

	require.Len(t, se.Telemetry, 2)
	first := se.Telemetry[0]
	assert.Equal(t, se.Meta.SessionKey, first.SessionKey)
	assert.Equal(t, "ALO", first.Driver)
	assert.Equal(t, "14", first.DriverNumber)
	assert.Equal(t, "Aston Martin", first.TeamName)
	assert.Equal(t,
		time.Date(2024, 4, 7, 14, 3, 21, 120_000_000, time.UTC),
		first.TS.UTC())
	require.NotNil(t, first.X)
	assert.InDelta(t, 1023.0, *first.X, 1e-9)
	require.NotNil(t, first.Gear)
	assert.Equal(t, 7, *first.Gear)
	require.NotNil(t, first.Brake)
	assert.Zero(t, *first.Brake)
	second := se.Telemetry[1]
	require.NotNil(t, second.Brake)
	assert.InDelta(t, 1.0, *second.Brake, 1e-9)

	require.Len(t, se.Laps, 1)
	lapRow := se.Laps[0]
	assert.Equal(t, se.Meta.SessionKey, lapRow.SessionKey)
	assert.Equal(t, "ALO", lapRow.Driver)
	assert.Equal(t, "14", lapRow.DriverNumber)
	require.NotNil(t, lapRow.LapStartDate)
	assert.Equal(t,
		time.Date(2024, 4, 7, 14, 2, 5, 0, time.UTC),
		lapRow.LapStartDate.UTC())
	require.NotNil(t, lapRow.LapTimeSeconds)
	assert.InDelta(t, 97.123, *lapRow.LapTimeSeconds, 1e-9)
	assert.True(t, lapRow.IsAccurate)
}

func TestParseExport_LooseInput(t *testing.T) {
	doc := `{
		"schema_version": "0.4.0",
		"exporter_host": "ignored",
		"sessions": [
			"junk",
			{
				"year": 2023.0, "round": "5", "session": "Q",
				"telemetry": [
					{"driver": "HAM", "driver_number": "44", "team_name": "Mercedes",
					 "ts": "2023-05-27 15:01:02.500000+00:00", "x": 10, "gear": 3.0,
					 "tyre_compound": "SOFT"},
					{"driver": "HAM", "driver_number": "44", "date": "not a date", "x": 11},
					{"driver": "HAM", "driver_number": "44", "x": 12},
					42
				],
				"laps": [
					{"driver": "HAM", "driver_number": "44",
					 "lap_time_seconds": null, "is_accurate": 0}
				]
			}
		]
	}`

	export, err := ParseExport([]byte(doc))
	require.NoError(t, err)
	require.Len(t, export.Sessions, 1)

	se := export.Sessions[0]
	assert.Equal(t, 2023, se.Meta.Year)
	assert.Equal(t, 5, se.Meta.Round)
	assert.Equal(t, "Q", se.Meta.Session)
	assert.Empty(t, se.Meta.EventName)

	// two rows without a usable timestamp are dropped, junk is ignored
	assert.Equal(t, 2, export.Skipped)
	require.Len(t, se.Telemetry, 1)
	row := se.Telemetry[0]
	assert.Equal(t, "Mercedes", row.TeamName)
	assert.Equal(t,
		time.Date(2023, 5, 27, 15, 1, 2, 500_000_000, time.UTC),
		row.TS.UTC())
	require.NotNil(t, row.X)
	assert.InDelta(t, 10.0, *row.X, 1e-9)
	require.NotNil(t, row.Gear)
	assert.Equal(t, 3, *row.Gear)
	assert.Nil(t, row.Speed)
	assert.Nil(t, row.Brake)

	require.Len(t, se.Laps, 1)
	assert.Nil(t, se.Laps[0].LapTimeSeconds)
	assert.Nil(t, se.Laps[0].LapStartDate)
	assert.False(t, se.Laps[0].IsAccurate)
}

func TestParseExport_Errors(t *testing.T) {
	_, err := ParseExport([]byte(`{"sessions": [`))
	assert.Error(t, err)

	_, err = ParseExport([]byte(`[1, 2, 3]`))
	assert.EqualError(t, err, "export root is not an object")
}
