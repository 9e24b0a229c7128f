package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

// CreateCategory creates a category; a duplicate (user, name) pair surfaces
// as ErrConflict.
func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, movement_type, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.MovementType, c.Color).
		Scan(&c.CreatedAt)
	if err != nil {
		return storeErr("create category", err)
	}
	return nil
}

// ListCategories returns the owner's categories ordered by name
func (r *Repository) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, movement_type, color, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.MovementType, &c.Color, &c.CreatedAt); err != nil {
			return nil, storeErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list categories", err)
	}
	return categories, nil
}
