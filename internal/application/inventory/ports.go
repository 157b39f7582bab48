package inventory

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Stock          repository.StockRepository
	Movements      repository.StockMovementRepository
	Products       repository.ProductRepository
	Warehouses     repository.WarehouseRepository
	PurchaseOrders repository.PurchaseOrderRepository
	SalesOrders    repository.SalesOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// LowStockEvent datos del aviso de stock bajo para un par (producto, bodega).
type LowStockEvent struct {
	ProductID     string
	ProductName   string
	ProductSKU    string
	Quantity      int64
	MinStock      int64
	WarehouseID   string
	WarehouseName string
}

// LowStockNotifier entrega avisos de stock bajo. Es best-effort: los fallos no se propagan.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, event LowStockEvent)
}

// NopNotifier descarta los avisos.
type NopNotifier struct{}

func (NopNotifier) NotifyLowStock(context.Context, LowStockEvent) {}
