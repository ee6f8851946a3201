package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository"
	"github.com/simseed/simseed/pkg/repository/api"
)

type repo struct {
	conn repository.Querier
}

var _ api.SessionRepository = (*repo)(nil)

func NewSessionRepository(conn repository.Querier) api.SessionRepository {
	return &repo{conn: conn}
}

func (r *repo) Ensure(ctx context.Context, meta *model.SessionMeta) error {
	_, err := r.conn.Exec(ctx, `
	insert into session (year, round_number, session, event_name)
	values ($1,$2,$3,$4)
	on conflict (year, round_number, session)
	do update set event_name = excluded.event_name
		`,
		meta.Year, meta.Round, meta.Session, meta.EventName,
	)
	return err
}

//nolint:whitespace // can't make both editor and linter happy
func (r *repo) LoadEventName(ctx context.Context, key model.SessionKey) (
	string, error,
) {
	row := r.conn.QueryRow(ctx, `
	select event_name from session
	where year=$1 and round_number=$2 and session=$3
	limit 1
		`,
		key.Year, key.Round, key.Session,
	)
	var name string
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", api.ErrNoRows
		}
		return "", err
	}
	return name, nil
}
