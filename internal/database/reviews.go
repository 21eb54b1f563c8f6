package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const reviewColumns = `id, author_name, rating, text, time_description, is_visible, created_at`

func scanReview(row interface{ Scan(...any) error }) (GoogleReview, error) {
	var r GoogleReview
	err := row.Scan(&r.ID, &r.AuthorName, &r.Rating, &r.Text, &r.TimeDescription, &r.IsVisible, &r.CreatedAt)
	return r, err
}

func (q *Queries) queryReviews(ctx context.Context, sql string, args ...any) ([]GoogleReview, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reviews []GoogleReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

const listReviews = `
SELECT ` + reviewColumns + ` FROM google_reviews ORDER BY created_at DESC
`

func (q *Queries) ListReviews(ctx context.Context) ([]GoogleReview, error) {
	return q.queryReviews(ctx, listReviews)
}

const listVisibleReviews = `
SELECT ` + reviewColumns + ` FROM google_reviews WHERE is_visible ORDER BY created_at DESC
`

func (q *Queries) ListVisibleReviews(ctx context.Context) ([]GoogleReview, error) {
	return q.queryReviews(ctx, listVisibleReviews)
}

const createReview = `
INSERT INTO google_reviews (author_name, rating, text, time_description, is_visible)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + reviewColumns + `
`

type CreateReviewParams struct {
	AuthorName      string
	Rating          int32
	Text            pgtype.Text
	TimeDescription pgtype.Text
	IsVisible       bool
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (GoogleReview, error) {
	return scanReview(q.db.QueryRow(ctx, createReview,
		arg.AuthorName, arg.Rating, arg.Text, arg.TimeDescription, arg.IsVisible,
	))
}

const updateReview = `
UPDATE google_reviews
SET author_name = $2, rating = $3, text = $4, time_description = $5, is_visible = $6
WHERE id = $1
RETURNING ` + reviewColumns + `
`

type UpdateReviewParams struct {
	ID              uuid.UUID
	AuthorName      string
	Rating          int32
	Text            pgtype.Text
	TimeDescription pgtype.Text
	IsVisible       bool
}

func (q *Queries) UpdateReview(ctx context.Context, arg UpdateReviewParams) (GoogleReview, error) {
	return scanReview(q.db.QueryRow(ctx, updateReview,
		arg.ID, arg.AuthorName, arg.Rating, arg.Text, arg.TimeDescription, arg.IsVisible,
	))
}

const setReviewVisibility = `
UPDATE google_reviews SET is_visible = $2 WHERE id = $1
RETURNING ` + reviewColumns + `
`

type SetReviewVisibilityParams struct {
	ID        uuid.UUID
	IsVisible bool
}

func (q *Queries) SetReviewVisibility(ctx context.Context, arg SetReviewVisibilityParams) (GoogleReview, error) {
	return scanReview(q.db.QueryRow(ctx, setReviewVisibility, arg.ID, arg.IsVisible))
}

const deleteReview = `
DELETE FROM google_reviews WHERE id = $1 RETURNING id
`

func (q *Queries) DeleteReview(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteReview, id).Scan(&deleted)
	return deleted, err
}
