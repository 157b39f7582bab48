package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
// Delete devuelve domain.ErrConflict si el proveedor tiene órdenes de compra; sus productos quedan sin proveedor.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error)
	Delete(ctx context.Context, id string) error
}
