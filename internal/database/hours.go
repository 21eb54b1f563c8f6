package database

import "context"

const openingHourColumns = `id, day_of_week, open_time, close_time, is_closed, created_at`

func scanOpeningHour(row interface{ Scan(...any) error }) (OpeningHour, error) {
	var h OpeningHour
	err := row.Scan(&h.ID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsClosed, &h.CreatedAt)
	return h, err
}

const listOpeningHours = `
SELECT ` + openingHourColumns + ` FROM opening_hours ORDER BY day_of_week
`

func (q *Queries) ListOpeningHours(ctx context.Context) ([]OpeningHour, error) {
	rows, err := q.db.Query(ctx, listOpeningHours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var hours []OpeningHour
	for rows.Next() {
		h, err := scanOpeningHour(rows)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

const upsertOpeningHours = `
INSERT INTO opening_hours (day_of_week, open_time, close_time, is_closed)
VALUES ($1, $2, $3, $4)
ON CONFLICT (day_of_week)
DO UPDATE SET open_time = $2, close_time = $3, is_closed = $4
RETURNING ` + openingHourColumns + `
`

type UpsertOpeningHoursParams struct {
	DayOfWeek int32
	OpenTime  string
	CloseTime string
	IsClosed  bool
}

// UpsertOpeningHours writes the window for one weekday; at most one row
// per day is kept by the unique constraint.
func (q *Queries) UpsertOpeningHours(ctx context.Context, arg UpsertOpeningHoursParams) (OpeningHour, error) {
	return scanOpeningHour(q.db.QueryRow(ctx, upsertOpeningHours,
		arg.DayOfWeek, arg.OpenTime, arg.CloseTime, arg.IsClosed,
	))
}
