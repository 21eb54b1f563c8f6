package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const dealColumns = `id, title, title_en, description, description_en, discount_percentage,
discount_amount, menu_item_id, is_active, valid_from, valid_until, created_at, updated_at`

func scanDeal(row interface{ Scan(...any) error }) (DailyDeal, error) {
	var d DailyDeal
	err := row.Scan(
		&d.ID, &d.Title, &d.TitleEn, &d.Description, &d.DescriptionEn, &d.DiscountPercentage,
		&d.DiscountAmount, &d.MenuItemID, &d.IsActive, &d.ValidFrom, &d.ValidUntil,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (q *Queries) queryDeals(ctx context.Context, sql string, args ...any) ([]DailyDeal, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var deals []DailyDeal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

const listDeals = `
SELECT ` + dealColumns + ` FROM daily_deals ORDER BY created_at DESC
`

func (q *Queries) ListDeals(ctx context.Context) ([]DailyDeal, error) {
	return q.queryDeals(ctx, listDeals)
}

const listActiveDeals = `
SELECT ` + dealColumns + ` FROM daily_deals
WHERE is_active AND valid_from <= now() AND (valid_until IS NULL OR valid_until >= now())
ORDER BY created_at DESC
`

func (q *Queries) ListActiveDeals(ctx context.Context) ([]DailyDeal, error) {
	return q.queryDeals(ctx, listActiveDeals)
}

const createDeal = `
INSERT INTO daily_deals (title, title_en, description, description_en, discount_percentage,
discount_amount, menu_item_id, is_active, valid_from, valid_until)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + dealColumns + `
`

type CreateDealParams struct {
	Title              string
	TitleEn            pgtype.Text
	Description        pgtype.Text
	DescriptionEn      pgtype.Text
	DiscountPercentage pgtype.Numeric
	DiscountAmount     pgtype.Numeric
	MenuItemID         pgtype.UUID
	IsActive           bool
	ValidFrom          time.Time
	ValidUntil         pgtype.Timestamptz
}

func (q *Queries) CreateDeal(ctx context.Context, arg CreateDealParams) (DailyDeal, error) {
	return scanDeal(q.db.QueryRow(ctx, createDeal,
		arg.Title, arg.TitleEn, arg.Description, arg.DescriptionEn, arg.DiscountPercentage,
		arg.DiscountAmount, arg.MenuItemID, arg.IsActive, arg.ValidFrom, arg.ValidUntil,
	))
}

const updateDeal = `
UPDATE daily_deals
SET title = $2, title_en = $3, description = $4, description_en = $5,
    discount_percentage = $6, discount_amount = $7, menu_item_id = $8,
    is_active = $9, valid_from = $10, valid_until = $11, updated_at = now()
WHERE id = $1
RETURNING ` + dealColumns + `
`

type UpdateDealParams struct {
	ID                 uuid.UUID
	Title              string
	TitleEn            pgtype.Text
	Description        pgtype.Text
	DescriptionEn      pgtype.Text
	DiscountPercentage pgtype.Numeric
	DiscountAmount     pgtype.Numeric
	MenuItemID         pgtype.UUID
	IsActive           bool
	ValidFrom          time.Time
	ValidUntil         pgtype.Timestamptz
}

func (q *Queries) UpdateDeal(ctx context.Context, arg UpdateDealParams) (DailyDeal, error) {
	return scanDeal(q.db.QueryRow(ctx, updateDeal,
		arg.ID, arg.Title, arg.TitleEn, arg.Description, arg.DescriptionEn,
		arg.DiscountPercentage, arg.DiscountAmount, arg.MenuItemID,
		arg.IsActive, arg.ValidFrom, arg.ValidUntil,
	))
}

const setDealActive = `
UPDATE daily_deals SET is_active = $2, updated_at = now() WHERE id = $1
RETURNING ` + dealColumns + `
`

type SetDealActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetDealActive(ctx context.Context, arg SetDealActiveParams) (DailyDeal, error) {
	return scanDeal(q.db.QueryRow(ctx, setDealActive, arg.ID, arg.IsActive))
}

const deleteDeal = `
DELETE FROM daily_deals WHERE id = $1 RETURNING id
`

func (q *Queries) DeleteDeal(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteDeal, id).Scan(&deleted)
	return deleted, err
}
