package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const settingsColumns = `id, name, phone, email, address, tagline, description,
google_reviews_url, google_rating, google_review_count, created_at, updated_at`

func scanSettings(row interface{ Scan(...any) error }) (BusinessSetting, error) {
	var s BusinessSetting
	err := row.Scan(
		&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.Tagline, &s.Description,
		&s.GoogleReviewsUrl, &s.GoogleRating, &s.GoogleReviewCount, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

const getBusinessSettings = `
SELECT ` + settingsColumns + ` FROM business_settings LIMIT 1
`

// GetBusinessSettings returns the single settings row.
func (q *Queries) GetBusinessSettings(ctx context.Context) (BusinessSetting, error) {
	return scanSettings(q.db.QueryRow(ctx, getBusinessSettings))
}

const createBusinessSettings = `
INSERT INTO business_settings (name, phone, email, address, tagline, description,
google_reviews_url, google_rating, google_review_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + settingsColumns + `
`

type CreateBusinessSettingsParams struct {
	Name              string
	Phone             pgtype.Text
	Email             pgtype.Text
	Address           pgtype.Text
	Tagline           pgtype.Text
	Description       pgtype.Text
	GoogleReviewsUrl  pgtype.Text
	GoogleRating      pgtype.Numeric
	GoogleReviewCount pgtype.Int4
}

func (q *Queries) CreateBusinessSettings(ctx context.Context, arg CreateBusinessSettingsParams) (BusinessSetting, error) {
	return scanSettings(q.db.QueryRow(ctx, createBusinessSettings,
		arg.Name, arg.Phone, arg.Email, arg.Address, arg.Tagline, arg.Description,
		arg.GoogleReviewsUrl, arg.GoogleRating, arg.GoogleReviewCount,
	))
}

const updateBusinessSettings = `
UPDATE business_settings
SET name = $1, phone = $2, email = $3, address = $4, tagline = $5, description = $6,
    google_reviews_url = $7, google_rating = $8, google_review_count = $9, updated_at = now()
WHERE id = (SELECT id FROM business_settings LIMIT 1)
RETURNING ` + settingsColumns + `
`

type UpdateBusinessSettingsParams struct {
	Name              string
	Phone             pgtype.Text
	Email             pgtype.Text
	Address           pgtype.Text
	Tagline           pgtype.Text
	Description       pgtype.Text
	GoogleReviewsUrl  pgtype.Text
	GoogleRating      pgtype.Numeric
	GoogleReviewCount pgtype.Int4
}

func (q *Queries) UpdateBusinessSettings(ctx context.Context, arg UpdateBusinessSettingsParams) (BusinessSetting, error) {
	return scanSettings(q.db.QueryRow(ctx, updateBusinessSettings,
		arg.Name, arg.Phone, arg.Email, arg.Address, arg.Tagline, arg.Description,
		arg.GoogleReviewsUrl, arg.GoogleRating, arg.GoogleReviewCount,
	))
}
