// Package basedata seeds the test database with a small but complete
// session: one event row, telemetry for two drivers and a handful of
// lap summaries.
package basedata

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simseed/simseed/pkg/model"
	laprepos "github.com/simseed/simseed/pkg/repository/lap"
	sessionrepos "github.com/simseed/simseed/pkg/repository/session"
	telemetryrepos "github.com/simseed/simseed/pkg/repository/telemetry"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-07T14:00:00Z")
	return t
}

func SampleKey() model.SessionKey {
	return model.SessionKey{Year: 2024, Round: 3, Session: "R"}
}

func SampleMeta() *model.SessionMeta {
	return &model.SessionMeta{SessionKey: SampleKey(), EventName: "Testville GP"}
}

// SampleTelemetryRows returns n rows for one driver on a circular path
// of radius 100 m, one second apart, positions in provider decimeters.
//
//nolint:whitespace // can't make both editor and linter happy
func SampleTelemetryRows(
	key model.SessionKey, driver, number, team string, n int,
) []*model.TelemetryRow {
	rows := make([]*model.TelemetryRow, 0, n)
	start := TestTime()
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		x := 1000 * math.Cos(angle)
		y := 1000 * math.Sin(angle)
		z := 30.0
		speed := 180.0
		rpm := 9000.0
		gear := 6
		throttle := 75.0
		brake := 0.0
		rows = append(rows, &model.TelemetryRow{
			SessionKey:   key,
			DriverNumber: number,
			Driver:       driver,
			TeamName:     team,
			TS:           start.Add(time.Duration(i) * time.Second),
			X:            &x,
			Y:            &y,
			Z:            &z,
			Speed:        &speed,
			RPM:          &rpm,
			Gear:         &gear,
			Throttle:     &throttle,
			Brake:        &brake,
		})
	}
	return rows
}

// SampleLapRows returns accurate laps for the two seeded drivers plus
// one inaccurate and one timeless lap that queries must ignore.
func SampleLapRows(key model.SessionKey) []*model.LapRow {
	lapStart := TestTime().Add(10 * time.Second)
	aloBest := 97.0
	aloSecond := 97.5
	verBest := 98.2
	inaccurate := 90.0
	return []*model.LapRow{
		{
			SessionKey: key, Driver: "ALO", DriverNumber: "14",
			LapStartDate: &lapStart, LapTimeSeconds: &aloBest, IsAccurate: true,
		},
		{
			SessionKey: key, Driver: "ALO", DriverNumber: "14",
			LapStartDate: &lapStart, LapTimeSeconds: &aloSecond, IsAccurate: true,
		},
		{
			SessionKey: key, Driver: "VER", DriverNumber: "1",
			LapStartDate: &lapStart, LapTimeSeconds: &verBest, IsAccurate: true,
		},
		{
			SessionKey: key, Driver: "VER", DriverNumber: "1",
			LapStartDate: &lapStart, LapTimeSeconds: &inaccurate, IsAccurate: false,
		},
		{
			SessionKey: key, Driver: "ALO", DriverNumber: "14",
			LapStartDate: &lapStart, LapTimeSeconds: nil, IsAccurate: true,
		},
	}
}

// CreateSampleSession seeds the sample session with telemetry for two
// drivers and the sample laps in one transaction.
func CreateSampleSession(db *pgxpool.Pool) *model.SessionMeta {
	ctx := context.Background()
	meta := SampleMeta()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := sessionrepos.NewSessionRepository(tx).Ensure(ctx, meta); err != nil {
			return err
		}
		samples := telemetryrepos.NewTelemetryRepository(tx)
		rows := SampleTelemetryRows(meta.SessionKey, "ALO", "14", "Aston Martin", 120)
		rows = append(rows,
			SampleTelemetryRows(meta.SessionKey, "VER", "1", "Red Bull", 100)...)
		if _, err := samples.BulkInsert(ctx, rows); err != nil {
			return err
		}
		_, err := laprepos.NewLapRepository(tx).BulkInsert(ctx,
			SampleLapRows(meta.SessionKey))
		return err
	})
	if err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}

	return meta
}
