//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/testsupport/fakestore"
)

func writeExport(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestService_ImportFile_RejectsUnusableExports(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "outdated exporter",
			content: `{"schema_version": "0.3.0", "sessions": [{"year": 2024}]}`,
			wantMsg: `unsupported exporter version "0.3.0" (minimum v0.4.0)`,
		},
		{
			name:    "missing version",
			content: `{"sessions": [{"year": 2024}]}`,
			wantMsg: `unsupported exporter version "" (minimum v0.4.0)`,
		},
		{
			name:    "no sessions",
			content: `{"schema_version": "0.5.0", "sessions": []}`,
			wantMsg: "export contains no sessions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakestore.New()
			svc := NewService(WithRepositories(store))

			res, err := svc.ImportFile(context.Background(), writeExport(t, tt.content))

			assert.Nil(t, res)
			assert.EqualError(t, err, tt.wantMsg)
			// rejected files never produce a run row
			assert.Empty(t, store.Runs)
		})
	}
}

func TestService_ImportFile_MissingFile(t *testing.T) {
	store := fakestore.New()
	svc := NewService(WithRepositories(store))

	res, err := svc.ImportFile(context.Background(),
		filepath.Join(t.TempDir(), "nope.json"))

	assert.Nil(t, res)
	assert.ErrorContains(t, err, "could not read export file")
	assert.Empty(t, store.Runs)
}

func TestService_ImportSessions(t *testing.T) {
	doc := `{
		"schema_version": "0.5.0",
		"sessions": [
			{
				"year": 2024, "round": 3, "session": "R", "event_name": "Testville GP",
				"telemetry": [
					{"driver": "ALO", "driver_number": "14", "team": "Aston Martin",
					 "date": "2024-04-07T14:03:21Z", "x": 1023.0, "y": -221.5},
					{"driver": "VER", "driver_number": "1", "team": "Red Bull",
					 "date": "2024-04-07T14:03:21Z", "x": 55.0, "y": 10.0}
				],
				"laps": [
					{"driver": "ALO", "driver_number": "14",
					 "lap_time_seconds": 97.1, "is_accurate": true}
				]
			},
			{
				"year": 2023, "round": 5, "session": "Q", "event_name": "Old Town",
				"telemetry": [
					{"driver": "HAM", "driver_number": "44", "team": "Mercedes",
					 "date": "2023-05-27T15:00:00Z", "x": 1.0, "y": 2.0}
				],
				"laps": []
			}
		]
	}`
	export, err := ParseExport([]byte(doc))
	require.NoError(t, err)

	store := fakestore.New()
	svc := NewService(WithRepositories(store))
	run := &model.IngestRun{}

	err = svc.importSessions(context.Background(),
		store.Session(), store.Telemetry(), store.Lap(), export, run)
	require.NoError(t, err)

	assert.Equal(t, 2, run.Sessions)
	assert.Equal(t, int64(3), run.TelemetryRows)
	assert.Equal(t, int64(1), run.LapRows)

	assert.Equal(t, "Testville GP",
		store.EventNames[model.SessionKey{Year: 2024, Round: 3, Session: "R"}])
	assert.Equal(t, "Old Town",
		store.EventNames[model.SessionKey{Year: 2023, Round: 5, Session: "Q"}])
	assert.Len(t, store.TelemetryRows, 3)
	assert.Len(t, store.Laps, 1)
	assert.Equal(t, "44", store.TelemetryRows[2].DriverNumber)
}
