package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Delete devuelve domain.ErrConflict si el cliente tiene órdenes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, int, error)
	Delete(ctx context.Context, id string) error
}
