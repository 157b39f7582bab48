package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockMovementRepository kardex de sólo inserción: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error)
}
