package testdb

import (
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/simseed/simseed/testsupport/tcpostgres"
)

// InitTestDb returns a pool on a migrated, empty test database. By
// default a postgres testcontainer is used; TESTDB_URL points the tests
// at an external database instead.
func InitTestDb() *pgxpool.Pool {
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	tcpg.ClearAllTables(pool)
	return pool
}
