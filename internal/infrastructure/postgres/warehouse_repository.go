package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Name, w.Location, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return wrapErr("insert warehouse", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `
		SELECT id, name, location, created_at, updated_at FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, location = $3, updated_at = $4 WHERE id = $1`,
		w.ID, w.Name, w.Location, w.UpdatedAt)
	if err != nil {
		return wrapErr("update warehouse", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count warehouses: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, name, location, created_at, updated_at FROM warehouses
		ORDER BY name LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, total, rows.Err()
}

// Delete elimina una bodega sin saldos ni movimientos (si no, ErrConflict por FK).
func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "warehouses", id)
}

// deleteByID borra por ID y traduce: 0 filas -> ErrNotFound, FK -> ErrConflict.
func deleteByID(ctx context.Context, q Querier, table, id string) error {
	cmd, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return wrapErr("delete "+table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
