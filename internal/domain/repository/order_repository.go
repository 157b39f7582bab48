package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// PurchaseOrderRepository persiste órdenes de compra con sus líneas.
// Las líneas sólo se escriben en Create: el precio capturado no cambia después.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera de la orden dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, int, error)
}

// SalesOrderRepository persiste órdenes de venta con sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	UpdateStatus(ctx context.Context, order *entity.SalesOrder) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, int, error)
}
