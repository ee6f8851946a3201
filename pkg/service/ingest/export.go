package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"
	"golang.org/x/mod/semver"

	"github.com/simseed/simseed/pkg/model"
)

// MinExporterVersion is the oldest export schema this importer accepts.
const MinExporterVersion = "v0.4.0"

// SupportedExporter reports whether the export schema version is recent
// enough to be imported. A missing or unparseable version is rejected.
func SupportedExporter(version string) bool {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return semver.Compare(version, MinExporterVersion) >= 0
}

// Export is the parsed content of a provider export file.
type Export struct {
	SchemaVersion string
	Source        string
	Sessions      []*SessionExport
	// Skipped counts rows dropped because their timestamp could not be
	// parsed.
	Skipped int
}

// SessionExport holds the rows of one session in store model shape.
type SessionExport struct {
	Meta      model.SessionMeta
	Telemetry []*model.TelemetryRow
	Laps      []*model.LapRow
}

// ParseExport reads a provider export document. Parsing is deliberately
// loose: unknown fields are ignored, numeric fields accept both int and
// float encodings and rows without a parseable timestamp are skipped so
// that exporter schema drift does not block an import.
func ParseExport(data []byte) (*Export, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse export: %w", err)
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, errors.New("export root is not an object")
	}
	export := &Export{
		SchemaVersion: str(doc["schema_version"]),
		Source:        str(doc["source"]),
	}
	for _, raw := range list(doc["sessions"]) {
		sessionDoc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		export.Sessions = append(export.Sessions, export.parseSession(sessionDoc))
	}
	return export, nil
}

//nolint:funlen // row conversion
func (e *Export) parseSession(doc map[string]any) *SessionExport {
	key := model.SessionKey{
		Year:    intVal(doc["year"]),
		Round:   intVal(doc["round"]),
		Session: str(doc["session"]),
	}
	out := &SessionExport{
		Meta: model.SessionMeta{
			SessionKey: key,
			EventName:  str(doc["event_name"]),
		},
	}
	for _, raw := range list(doc["telemetry"]) {
		rowDoc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := timeVal(pick(rowDoc, "date", "ts"))
		if !ok {
			e.Skipped++
			continue
		}
		out.Telemetry = append(out.Telemetry, &model.TelemetryRow{
			SessionKey:   key,
			DriverNumber: str(rowDoc["driver_number"]),
			Driver:       str(rowDoc["driver"]),
			TeamName:     str(pick(rowDoc, "team", "team_name")),
			TS:           ts,
			X:            floatPtr(rowDoc["x"]),
			Y:            floatPtr(rowDoc["y"]),
			Z:            floatPtr(rowDoc["z"]),
			Speed:        floatPtr(rowDoc["speed"]),
			RPM:          floatPtr(rowDoc["rpm"]),
			Gear:         intPtr(rowDoc["gear"]),
			Throttle:     floatPtr(rowDoc["throttle"]),
			Brake:        floatPtr(rowDoc["brake"]),
		})
	}
	for _, raw := range list(doc["laps"]) {
		rowDoc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		lapRow := &model.LapRow{
			SessionKey:     key,
			Driver:         str(rowDoc["driver"]),
			DriverNumber:   str(rowDoc["driver_number"]),
			LapTimeSeconds: floatPtr(rowDoc["lap_time_seconds"]),
			IsAccurate:     boolVal(rowDoc["is_accurate"]),
		}
		if start, ok := timeVal(rowDoc["lap_start_date"]); ok {
			lapRow.LapStartDate = &start
		}
		out.Laps = append(out.Laps, lapRow)
	}
	return out
}

// pick returns the first present key.
func pick(doc map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := doc[key]; ok {
			return v
		}
	}
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

func intVal(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func boolVal(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}

func floatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		f := n
		return &f
	case int64:
		f := float64(n)
		return &f
	case bool:
		// early exporters delivered brake as a flag
		f := 0.0
		if n {
			f = 1.0
		}
		return &f
	}
	return nil
}

func intPtr(v any) *int {
	switch n := v.(type) {
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

// exporter timestamp layouts, newest first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func timeVal(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
