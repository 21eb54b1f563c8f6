package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, category_id, name, name_en, description, description_en,
price, image_url, is_available, is_popular, display_order, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID, &m.CategoryID, &m.Name, &m.NameEn, &m.Description, &m.DescriptionEn,
		&m.Price, &m.ImageUrl, &m.IsAvailable, &m.IsPopular, &m.DisplayOrder,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (q *Queries) queryMenuItems(ctx context.Context, sql string, args ...any) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const listMenuItems = `
SELECT ` + menuItemColumns + ` FROM menu_items ORDER BY display_order, name
`

// ListMenuItems returns every item regardless of availability (admin view).
func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	return q.queryMenuItems(ctx, listMenuItems)
}

const listAvailableMenuItems = `
SELECT ` + menuItemColumns + ` FROM menu_items WHERE is_available ORDER BY display_order, name
`

func (q *Queries) ListAvailableMenuItems(ctx context.Context) ([]MenuItem, error) {
	return q.queryMenuItems(ctx, listAvailableMenuItems)
}

const listAvailableMenuItemsByCategory = `
SELECT ` + menuItemColumns + ` FROM menu_items
WHERE is_available AND category_id = $1
ORDER BY display_order, name
`

func (q *Queries) ListAvailableMenuItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error) {
	return q.queryMenuItems(ctx, listAvailableMenuItemsByCategory, categoryID)
}

const getMenuItem = `
SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItem, id))
}

const createMenuItem = `
INSERT INTO menu_items (category_id, name, name_en, description, description_en,
price, image_url, is_available, is_popular, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + menuItemColumns + `
`

type CreateMenuItemParams struct {
	CategoryID    pgtype.UUID
	Name          string
	NameEn        pgtype.Text
	Description   pgtype.Text
	DescriptionEn pgtype.Text
	Price         pgtype.Numeric
	ImageUrl      pgtype.Text
	IsAvailable   bool
	IsPopular     bool
	DisplayOrder  int32
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, createMenuItem,
		arg.CategoryID, arg.Name, arg.NameEn, arg.Description, arg.DescriptionEn,
		arg.Price, arg.ImageUrl, arg.IsAvailable, arg.IsPopular, arg.DisplayOrder,
	))
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $2, name = $3, name_en = $4, description = $5, description_en = $6,
    price = $7, image_url = $8, is_available = $9, is_popular = $10, display_order = $11,
    updated_at = now()
WHERE id = $1
RETURNING ` + menuItemColumns + `
`

type UpdateMenuItemParams struct {
	ID            uuid.UUID
	CategoryID    pgtype.UUID
	Name          string
	NameEn        pgtype.Text
	Description   pgtype.Text
	DescriptionEn pgtype.Text
	Price         pgtype.Numeric
	ImageUrl      pgtype.Text
	IsAvailable   bool
	IsPopular     bool
	DisplayOrder  int32
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, updateMenuItem,
		arg.ID, arg.CategoryID, arg.Name, arg.NameEn, arg.Description, arg.DescriptionEn,
		arg.Price, arg.ImageUrl, arg.IsAvailable, arg.IsPopular, arg.DisplayOrder,
	))
}

const setMenuItemAvailability = `
UPDATE menu_items SET is_available = $2, updated_at = now() WHERE id = $1
RETURNING ` + menuItemColumns + `
`

type SetMenuItemAvailabilityParams struct {
	ID          uuid.UUID
	IsAvailable bool
}

func (q *Queries) SetMenuItemAvailability(ctx context.Context, arg SetMenuItemAvailabilityParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, setMenuItemAvailability, arg.ID, arg.IsAvailable))
}

const setMenuItemPopularity = `
UPDATE menu_items SET is_popular = $2, updated_at = now() WHERE id = $1
RETURNING ` + menuItemColumns + `
`

type SetMenuItemPopularityParams struct {
	ID        uuid.UUID
	IsPopular bool
}

func (q *Queries) SetMenuItemPopularity(ctx context.Context, arg SetMenuItemPopularityParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, setMenuItemPopularity, arg.ID, arg.IsPopular))
}

const deleteMenuItem = `
DELETE FROM menu_items WHERE id = $1 RETURNING id
`

// DeleteMenuItem hard-deletes an item. Order history is preserved because
// order_items.menu_item_id is ON DELETE SET NULL and snapshots name/price.
func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteMenuItem, id).Scan(&deleted)
	return deleted, err
}
