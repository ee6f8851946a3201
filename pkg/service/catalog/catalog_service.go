package catalog

import (
	"context"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
)

func NewService(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("svc.catalog"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type Option func(*Service)

func WithRepositories(r api.Repositories) Option {
	return func(srv *Service) {
		srv.repos = r
	}
}

type Service struct {
	repos api.Repositories
	log   *log.Logger
}

// Sessions lists every stored session with aggregate counts, newest
// year first.
func (s *Service) Sessions(ctx context.Context) (*model.SessionCatalog, error) {
	rows, err := s.repos.Catalog().Sessions(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*model.SessionInfo{}
	}
	return &model.SessionCatalog{Sessions: rows}, nil
}

// Drivers lists the drivers of one session with their sample counts.
// An unknown session yields an empty list, not an error.
func (s *Service) Drivers(ctx context.Context, key model.SessionKey) (
	*model.DriverCatalog, error,
) {
	rows, err := s.repos.Catalog().SessionDrivers(ctx, key)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*model.DriverSamples{}
	}
	return &model.DriverCatalog{
		Year:    key.Year,
		Round:   key.Round,
		Session: key.Session,
		Drivers: rows,
	}, nil
}
