package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// EnsureExists crea la fila en 0 si falta. Dos tx concurrentes no chocan: la segunda no inserta nada.
func (r *StockRepo) EnsureExists(ctx context.Context, productID, warehouseID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return wrapErr("ensure stock", err)
	}
	return nil
}

// Get obtiene el saldo actual de un producto en una bodega. domain.ErrNotFound si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.get(ctx, "get stock", "", productID, warehouseID)
}

// GetForUpdate obtiene el saldo y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.get(ctx, "get stock for update", "FOR UPDATE", productID, warehouseID)
}

func (r *StockRepo) get(ctx context.Context, op, lock, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2 ` + lock
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Update persiste la nueva cantidad. El CHECK (quantity >= 0) es la última barrera: se reporta como stock insuficiente.
func (r *StockRepo) Update(ctx context.Context, s *entity.Stock) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND warehouse_id = $2`,
		s.ProductID, s.WarehouseID, s.Quantity, s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation {
			return fmt.Errorf("update stock: %w", domain.ErrInsufficientStock)
		}
		return wrapErr("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const stockViewFrom = `
	FROM stock s
	JOIN products p ON p.id = s.product_id
	JOIN warehouses w ON w.id = s.warehouse_id`

// List saldos con datos de producto y bodega, ordenados por producto y bodega.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter, limit, offset int) ([]*entity.StockView, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		conds = append(conds, fmt.Sprintf("s.product_id::text = $%d", len(args)))
	}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		conds = append(conds, fmt.Sprintf("s.warehouse_id::text = $%d", len(args)))
	}
	from := stockViewFrom
	if len(conds) > 0 {
		from += " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock: %w", err)
	}
	args = append(args, limitArg(limit), offset)
	query := fmt.Sprintf(`
		SELECT s.product_id, s.warehouse_id, s.quantity, s.updated_at, p.name, p.sku, p.min_stock, w.name
		%s ORDER BY p.name, w.name LIMIT $%d OFFSET $%d`, from, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockView
	for rows.Next() {
		var v entity.StockView
		if err := rows.Scan(&v.ProductID, &v.WarehouseID, &v.Quantity, &v.UpdatedAt,
			&v.ProductName, &v.ProductSKU, &v.MinStock, &v.WarehouseName); err != nil {
			return nil, 0, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &v)
	}
	return list, total, rows.Err()
}

// ListLowStock pares (producto, bodega) con saldo <= mínimo. warehouseID vacío = todas las bodegas.
func (r *StockRepo) ListLowStock(ctx context.Context, warehouseID string) ([]entity.LowStockItem, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.min_stock, s.quantity, w.id, w.name` + stockViewFrom + `
		WHERE s.quantity <= p.min_stock AND ($1 = '' OR s.warehouse_id::text = $1)
		ORDER BY s.quantity, p.name`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LowStockItem, error) {
		var it entity.LowStockItem
		err := row.Scan(&it.ProductID, &it.ProductName, &it.ProductSKU, &it.MinStock, &it.Quantity,
			&it.WarehouseID, &it.WarehouseName)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan low stock: %w", err)
	}
	return items, nil
}
