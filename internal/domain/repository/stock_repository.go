package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar saldos por bodega+producto.
// Las mutaciones se hacen siempre dentro de una transacción.
type StockRepository interface {
	// EnsureExists crea la fila con cantidad 0 si no existe (no falla si ya existe).
	EnsureExists(ctx context.Context, productID, warehouseID string) error
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Devuelve domain.ErrNotFound si no hay saldo para el par.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	List(ctx context.Context, filter StockFilter, limit, offset int) ([]*entity.StockView, int, error)
	ListLowStock(ctx context.Context, warehouseID string) ([]entity.LowStockItem, error)
}
