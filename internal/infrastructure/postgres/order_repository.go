package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
)

// PurchaseOrderRepo órdenes de compra con sus líneas. Las líneas sólo se insertan en Create.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas; el consecutivo (#N) lo asigna la BD y queda en order.Number.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO purchase_orders (id, supplier_id, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING number`,
		o.ID, o.SupplierID, string(o.Status), o.RequestedBy, o.CreatedAt,
	).Scan(&o.Number)
	if err != nil {
		return wrapErr("insert purchase order", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, order_id, product_id, quantity, unit_cost, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, o.ID, l.ProductID, l.Quantity, l.UnitCost, i)
		if err != nil {
			return wrapErr(fmt.Sprintf("insert purchase order line %d", i+1), err)
		}
	}
	return nil
}

const purchaseOrderColumns = `id, number, supplier_id, status, requested_by, created_at, received_at`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		o      entity.PurchaseOrder
		status string
	)
	if err := row.Scan(&o.ID, &o.Number, &o.SupplierID, &status, &o.RequestedBy, &o.CreatedAt, &o.ReceivedAt); err != nil {
		return nil, err
	}
	o.Status = entity.PurchaseOrderStatus(status)
	return &o, nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, id, "")
}

// GetForUpdate bloquea la cabecera: dos recepciones concurrentes de la misma orden se serializan.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, id, "FOR UPDATE")
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, id, lock string) (*entity.PurchaseOrder, error) {
	o, err := scanPurchaseOrder(r.q.QueryRow(ctx,
		`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 `+lock, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus cambia estado y received_at. Las líneas no se tocan.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, received_at = $3 WHERE id = $1`,
		o.ID, string(o.Status), o.ReceivedAt)
	if err != nil {
		return wrapErr("update purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchase_orders WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE ($1 = '' OR status = $1)
		ORDER BY number DESC LIMIT $2 OFFSET $3`, status, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PurchaseOrder, error) {
		return scanPurchaseOrder(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan purchase order: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_cost
		FROM purchase_order_lines WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

// SalesOrderRepo órdenes de venta con sus líneas.
type SalesOrderRepo struct {
	q Querier
}

func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales_orders (id, customer_id, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING number`,
		o.ID, o.CustomerID, string(o.Status), o.RequestedBy, o.CreatedAt,
	).Scan(&o.Number)
	if err != nil {
		return wrapErr("insert sales order", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_order_lines (id, order_id, product_id, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, o.ID, l.ProductID, l.Quantity, l.UnitPrice, i)
		if err != nil {
			return wrapErr(fmt.Sprintf("insert sales order line %d", i+1), err)
		}
	}
	return nil
}

const salesOrderColumns = `id, number, customer_id, status, requested_by, created_at, paid_at, dispatched_at`

func scanSalesOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var (
		o      entity.SalesOrder
		status string
	)
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &status, &o.RequestedBy, &o.CreatedAt, &o.PaidAt, &o.DispatchedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.SalesOrderStatus(status)
	return &o, nil
}

func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.getOne(ctx, id, "")
}

// GetForUpdate bloquea la cabecera: dos despachos concurrentes de la misma orden se serializan.
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.getOne(ctx, id, "FOR UPDATE")
}

func (r *SalesOrderRepo) getOne(ctx context.Context, id, lock string) (*entity.SalesOrder, error) {
	o, err := scanSalesOrder(r.q.QueryRow(ctx,
		`SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1 `+lock, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.SalesOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *SalesOrderRepo) UpdateStatus(ctx context.Context, o *entity.SalesOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales_orders SET status = $2, paid_at = $3, dispatched_at = $4 WHERE id = $1`,
		o.ID, string(o.Status), o.PaidAt, o.DispatchedAt)
	if err != nil {
		return wrapErr("update sales order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SalesOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales_orders WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales orders: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+salesOrderColumns+` FROM sales_orders WHERE ($1 = '' OR status = $1)
		ORDER BY number DESC LIMIT $2 OFFSET $3`, status, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales orders: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SalesOrder, error) {
		return scanSalesOrder(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan sales order: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *SalesOrderRepo) loadLines(ctx context.Context, orders []*entity.SalesOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.SalesOrder, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM sales_order_lines WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sales order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return fmt.Errorf("scan sales order line: %w", err)
		}
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}
