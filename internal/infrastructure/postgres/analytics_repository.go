package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard. Cada método usa su propia conexión
// del pool, así el caso de uso puede lanzarlas en paralelo.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// SalesTotal ingresos de órdenes despachadas: SUM(cantidad × precio capturado).
// COALESCE devuelve cero si no hay ventas.
func (r *AnalyticsRepo) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(l.quantity * l.unit_price), 0)
	FROM sales_orders o
	JOIN sales_order_lines l ON l.order_id = o.id
	WHERE o.status = 'DISPATCHED'`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.SalesTotal: %w", err)
	}
	return total, nil
}

// PurchasesTotal costo de órdenes de compra recibidas: SUM(cantidad × costo capturado).
func (r *AnalyticsRepo) PurchasesTotal(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(l.quantity * l.unit_cost), 0)
	FROM purchase_orders o
	JOIN purchase_order_lines l ON l.order_id = o.id
	WHERE o.status = 'RECEIVED'`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.PurchasesTotal: %w", err)
	}
	return total, nil
}

// InventoryValue valoriza el inventario al costo actual: SUM(saldo × costo del producto).
func (r *AnalyticsRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(s.quantity * p.cost_price), 0)
	FROM stock s
	JOIN products p ON p.id = s.product_id`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.InventoryValue: %w", err)
	}
	return total, nil
}

// LowStockCount pares (producto, bodega) en o bajo el mínimo.
func (r *AnalyticsRepo) LowStockCount(ctx context.Context) (int64, error) {
	const query = `
	SELECT COUNT(*)
	FROM stock s
	JOIN products p ON p.id = s.product_id
	WHERE s.quantity <= p.min_stock`
	var n int64
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.LowStockCount: %w", err)
	}
	return n, nil
}

// TopProducts los `limit` productos con más unidades despachadas; empate por nombre.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id            AS product_id,
	    p.name          AS product_name,
	    SUM(l.quantity) AS units_sold
	FROM sales_order_lines l
	JOIN sales_orders o ON o.id = l.order_id
	JOIN products     p ON p.id = l.product_id
	WHERE o.status = 'DISPATCHED'
	GROUP BY p.id, p.name
	ORDER BY units_sold DESC, p.name
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.TopProductResult{}
	for rows.Next() {
		var item repository.TopProductResult
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.UnitsSold); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.TopProducts rows: %w", err)
	}
	return results, nil
}
