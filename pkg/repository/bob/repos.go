package bob

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/simseed/simseed/pkg/repository/api"
	"github.com/simseed/simseed/pkg/repository/bob/benchmark"
	"github.com/simseed/simseed/pkg/repository/bob/catalog"
	"github.com/simseed/simseed/pkg/repository/bob/ingest"
	"github.com/simseed/simseed/pkg/repository/lap"
	"github.com/simseed/simseed/pkg/repository/session"
	"github.com/simseed/simseed/pkg/repository/telemetry"
)

// repositories combines the pgx based row repositories with the bob
// based aggregate repositories behind one facade.
type repositories struct {
	sessionRepository   api.SessionRepository
	telemetryRepository api.TelemetryRepository
	lapRepository       api.LapRepository
	catalogRepository   api.CatalogRepository
	benchmarkRepository api.BenchmarkRepository
	ingestRepository    api.IngestRepository
}

var _ api.Repositories = (*repositories)(nil)

func NewRepositoriesFromPool(pool *pgxpool.Pool) api.Repositories {
	db := bob.NewDB(stdlib.OpenDBFromPool(pool))
	return &repositories{
		sessionRepository:   session.NewSessionRepository(pool),
		telemetryRepository: telemetry.NewTelemetryRepository(pool),
		lapRepository:       lap.NewLapRepository(pool),
		catalogRepository:   catalog.NewCatalogRepository(db),
		benchmarkRepository: benchmark.NewBenchmarkRepository(db),
		ingestRepository:    ingest.NewIngestRepository(db),
	}
}

func (r *repositories) Session() api.SessionRepository {
	return r.sessionRepository
}

func (r *repositories) Telemetry() api.TelemetryRepository {
	return r.telemetryRepository
}

func (r *repositories) Lap() api.LapRepository {
	return r.lapRepository
}

func (r *repositories) Catalog() api.CatalogRepository {
	return r.catalogRepository
}

func (r *repositories) Benchmark() api.BenchmarkRepository {
	return r.benchmarkRepository
}

func (r *repositories) Ingest() api.IngestRepository {
	return r.ingestRepository
}
