//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package catalog

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"
	"gotest.tools/v3/assert"

	"github.com/simseed/simseed/pkg/model"
	telemetryrepos "github.com/simseed/simseed/pkg/repository/telemetry"
	"github.com/simseed/simseed/testsupport/basedata"
	"github.com/simseed/simseed/testsupport/testdb"
)

func TestSessions(t *testing.T) {
	pool := testdb.InitTestDb()
	r := NewCatalogRepository(bob.NewDB(stdlib.OpenDBFromPool(pool)))
	ctx := context.Background()

	basedata.CreateSampleSession(pool)
	// a second session without session metadata
	older := model.SessionKey{Year: 2023, Round: 5, Session: "Q"}
	_, err := telemetryrepos.NewTelemetryRepository(pool).BulkInsert(ctx,
		basedata.SampleTelemetryRows(older, "HAM", "44", "Mercedes", 1))
	assert.NilError(t, err)

	sessions, err := r.Sessions(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(sessions), 2)
	// newest season first
	assert.DeepEqual(t, *sessions[0], model.SessionInfo{
		Year: 2024, Round: 3, Session: "R",
		EventName: "Testville GP", DriverCount: 2, TelemetryRows: 220,
	})
	assert.DeepEqual(t, *sessions[1], model.SessionInfo{
		Year: 2023, Round: 5, Session: "Q",
		EventName: "", DriverCount: 1, TelemetryRows: 1,
	})
}

func TestSessionDrivers(t *testing.T) {
	pool := testdb.InitTestDb()
	r := NewCatalogRepository(bob.NewDB(stdlib.OpenDBFromPool(pool)))
	ctx := context.Background()

	meta := basedata.CreateSampleSession(pool)

	drivers, err := r.SessionDrivers(ctx, meta.SessionKey)
	assert.NilError(t, err)
	assert.Equal(t, len(drivers), 2)
	assert.DeepEqual(t, *drivers[0], model.DriverSamples{
		DriverRef: model.DriverRef{
			Driver: "ALO", DriverNumber: "14", Team: "Aston Martin",
		},
		Samples: 120,
	})
	assert.DeepEqual(t, *drivers[1], model.DriverSamples{
		DriverRef: model.DriverRef{
			Driver: "VER", DriverNumber: "1", Team: "Red Bull",
		},
		Samples: 100,
	})

	empty, err := r.SessionDrivers(ctx,
		model.SessionKey{Year: 1999, Round: 1, Session: "R"})
	assert.NilError(t, err)
	assert.Equal(t, len(empty), 0)
}
