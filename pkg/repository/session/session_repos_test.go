//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package session_test

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
	"github.com/simseed/simseed/pkg/repository/session"
	"github.com/simseed/simseed/testsupport/basedata"
	"github.com/simseed/simseed/testsupport/testdb"
)

func TestEnsure(t *testing.T) {
	pool := testdb.InitTestDb()
	r := session.NewSessionRepository(pool)
	ctx := context.Background()

	meta := basedata.SampleMeta()
	assert.NilError(t, r.Ensure(ctx, meta))
	name, err := r.LoadEventName(ctx, meta.SessionKey)
	assert.NilError(t, err)
	assert.Equal(t, name, "Testville GP")

	// a second Ensure refreshes the event name
	meta.EventName = "Renamed GP"
	assert.NilError(t, r.Ensure(ctx, meta))
	name, err = r.LoadEventName(ctx, meta.SessionKey)
	assert.NilError(t, err)
	assert.Equal(t, name, "Renamed GP")
}

func TestLoadEventNameMissing(t *testing.T) {
	pool := testdb.InitTestDb()
	r := session.NewSessionRepository(pool)

	_, err := r.LoadEventName(context.Background(),
		model.SessionKey{Year: 1999, Round: 1, Session: "R"})
	assert.Assert(t, errors.Is(err, api.ErrNoRows))
}
