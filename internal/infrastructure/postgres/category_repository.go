package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/textnorm"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías sobre PostgreSQL. search_key alimenta la búsqueda de productos por categoría.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, search_key, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, textnorm.Fold(c.Name), c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return wrapErr("insert category", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $2, search_key = $3, description = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Name, textnorm.Fold(c.Name), c.Description, c.UpdatedAt)
	if err != nil {
		return wrapErr("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, created_at, updated_at FROM categories
		ORDER BY name LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Delete elimina la categoría; la FK deja en NULL la categoría de sus productos.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "categories", id)
}
