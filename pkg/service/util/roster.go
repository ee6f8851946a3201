package util

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/simseed/simseed/pkg/model"
	"github.com/simseed/simseed/pkg/repository/api"
)

const maxRosterSize = 20

// SelectRoster loads the distinct drivers of a session ordered by
// name, applies the optional filter (case-insensitive match on driver
// name or number) and caps the roster at [1,20] entries.
//
//nolint:whitespace // can't make both editor and linter happy
func SelectRoster(
	ctx context.Context,
	r api.TelemetryRepository,
	key model.SessionKey,
	filter []string,
	maxDrivers int,
) ([]*model.DriverRef, error) {
	rows, err := r.Drivers(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoSessionRows
	}

	if len(filter) > 0 {
		wanted := lo.Map(filter, func(v string, _ int) string {
			return strings.ToUpper(v)
		})
		rows = lo.Filter(rows, func(d *model.DriverRef, _ int) bool {
			return lo.Contains(wanted, strings.ToUpper(d.Driver)) ||
				lo.Contains(wanted, strings.ToUpper(d.DriverNumber))
		})
		if len(rows) == 0 {
			return nil, ErrNoDriverMatch
		}
	}

	limit := max(1, min(maxDrivers, maxRosterSize))
	return rows[:min(limit, len(rows))], nil
}
