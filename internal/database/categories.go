package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const categoryColumns = `id, name, name_en, display_order, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (MenuCategory, error) {
	var c MenuCategory
	err := row.Scan(&c.ID, &c.Name, &c.NameEn, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCategories = `
SELECT ` + categoryColumns + ` FROM menu_categories ORDER BY display_order, name
`

func (q *Queries) ListCategories(ctx context.Context) ([]MenuCategory, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const createCategory = `
INSERT INTO menu_categories (name, name_en, display_order)
VALUES ($1, $2, $3)
RETURNING ` + categoryColumns + `
`

type CreateCategoryParams struct {
	Name         string
	NameEn       pgtype.Text
	DisplayOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (MenuCategory, error) {
	return scanCategory(q.db.QueryRow(ctx, createCategory, arg.Name, arg.NameEn, arg.DisplayOrder))
}

const updateCategory = `
UPDATE menu_categories
SET name = $2, name_en = $3, display_order = $4, updated_at = now()
WHERE id = $1
RETURNING ` + categoryColumns + `
`

type UpdateCategoryParams struct {
	ID           uuid.UUID
	Name         string
	NameEn       pgtype.Text
	DisplayOrder int32
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (MenuCategory, error) {
	return scanCategory(q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.NameEn, arg.DisplayOrder))
}

const deleteCategory = `
DELETE FROM menu_categories WHERE id = $1 RETURNING id
`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteCategory, id).Scan(&deleted)
	return deleted, err
}
