package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL. Sólo INSERT y SELECT: un trigger rechaza UPDATE/DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento. created_at lo fija la BD y se devuelve en m.CreatedAt.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (id, product_id, warehouse_id, quantity, kind, reason, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		m.ID, m.ProductID, m.WarehouseID, m.Quantity, string(m.Kind), m.Reason, m.ActorID,
	).Scan(&m.CreatedAt)
	if err != nil {
		return wrapErr("insert stock movement", err)
	}
	return nil
}

// List movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	add("product_id::text = $%d", f.ProductID)
	add("warehouse_id::text = $%d", f.WarehouseID)
	add("kind = $%d", f.Kind)
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}
	args = append(args, limitArg(limit), offset)
	query := fmt.Sprintf(`
		SELECT id, product_id, warehouse_id, quantity, kind, reason, actor_id, created_at
		FROM stock_movements%s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m    entity.StockMovement
			kind string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Quantity, &kind, &m.Reason, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
