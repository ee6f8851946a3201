//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package benchmark

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"
	"gotest.tools/v3/assert"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/testsupport/basedata"
	"github.com/simseed/simseed/testsupport/testdb"
)

func TestAccurateLaps(t *testing.T) {
	pool := testdb.InitTestDb()
	r := NewBenchmarkRepository(bob.NewDB(stdlib.OpenDBFromPool(pool)))
	ctx := context.Background()

	meta := basedata.CreateSampleSession(pool)

	laps, err := r.AccurateLaps(ctx, meta.SessionKey)
	assert.NilError(t, err)
	// inaccurate and timeless laps are filtered, rest sorted by lap time
	assert.Equal(t, len(laps), 3)
	assert.DeepEqual(t, *laps[0],
		model.DriverLap{Driver: "ALO", DriverNumber: "14", LapTimeS: 97.0})
	assert.DeepEqual(t, *laps[1],
		model.DriverLap{Driver: "ALO", DriverNumber: "14", LapTimeS: 97.5})
	assert.DeepEqual(t, *laps[2],
		model.DriverLap{Driver: "VER", DriverNumber: "1", LapTimeS: 98.2})

	empty, err := r.AccurateLaps(ctx,
		model.SessionKey{Year: 1999, Round: 1, Session: "R"})
	assert.NilError(t, err)
	assert.Equal(t, len(empty), 0)
}
