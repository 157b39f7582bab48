package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// SalesOrderUseCase flujo de órdenes de venta: CART -> AWAITING_PAYMENT -> PAID -> DISPATCHED (o CANCELLED).
// El pago es una transición propia; Dispatch sólo verifica PAID bajo bloqueo de la orden.
type SalesOrderUseCase struct {
	txRunner     inventory.TxRunner
	stock        *inventory.StockUseCase
	orderRepo    repository.SalesOrderRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(
	txRunner inventory.TxRunner,
	stock *inventory.StockUseCase,
	orderRepo repository.SalesOrderRepository,
	customerRepo repository.CustomerRepository,
) *SalesOrderUseCase {
	return &SalesOrderUseCase{
		txRunner:     txRunner,
		stock:        stock,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// Create registra una orden AWAITING_PAYMENT (o CART si in.Cart). Cada línea captura el precio de venta.
func (uc *SalesOrderUseCase) Create(ctx context.Context, actorID string, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	if in.CustomerID == "" {
		return nil, domain.InvalidInput("customer_id es requerido")
	}
	if len(in.Lines) == 0 {
		return nil, domain.InvalidInput("la orden debe tener al menos una línea")
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	status := entity.SalesOrderAwaitingPayment
	if in.Cart {
		status = entity.SalesOrderCart
	}
	order := &entity.SalesOrder{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Status:      status,
		RequestedBy: actorID,
		CreatedAt:   uc.now(),
	}
	err = uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		order.Lines = order.Lines[:0]
		for i, l := range in.Lines {
			if l.Quantity < 1 {
				return domain.InvalidInput(fmt.Sprintf("línea %d: la cantidad debe ser al menos 1", i+1))
			}
			product, err := repos.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: línea %d, producto %s", domain.ErrNotFound, i+1, l.ProductID)
			}
			price := product.SalePrice
			if l.UnitPrice != nil {
				if l.UnitPrice.IsNegative() {
					return domain.InvalidInput(fmt.Sprintf("línea %d: el precio unitario no puede ser negativo", i+1))
				}
				price = *l.UnitPrice
			}
			order.Lines = append(order.Lines, entity.SalesOrderLine{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  l.Quantity,
				UnitPrice: price,
			})
		}
		return repos.SalesOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toSalesOrderResponse(order), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *SalesOrderUseCase) GetByID(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, id)
	}
	return toSalesOrderResponse(order), nil
}

// List lista órdenes, opcionalmente por estado.
func (uc *SalesOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.SalesOrderListResponse, error) {
	if status != "" && !entity.SalesOrderStatus(status).Valid() {
		return nil, domain.InvalidInput("status desconocido: " + status)
	}
	page.DefaultPage()
	list, total, err := uc.orderRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toSalesOrderResponse(o))
	}
	return &dto.SalesOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Checkout CART -> AWAITING_PAYMENT.
func (uc *SalesOrderUseCase) Checkout(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	return uc.transition(ctx, id, entity.SalesOrderAwaitingPayment)
}

// MarkPaid AWAITING_PAYMENT -> PAID. Registra la fecha de pago.
func (uc *SalesOrderUseCase) MarkPaid(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	return uc.transition(ctx, id, entity.SalesOrderPaid)
}

// Cancel CART|AWAITING_PAYMENT|PAID -> CANCELLED. Una orden despachada no se cancela.
func (uc *SalesOrderUseCase) Cancel(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	return uc.transition(ctx, id, entity.SalesOrderCancelled)
}

func (uc *SalesOrderUseCase) transition(ctx context.Context, id string, next entity.SalesOrderStatus) (*dto.SalesOrderResponse, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		order, err = lockSalesOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return domain.InvalidState(fmt.Sprintf("la orden de venta #%d está %s y no puede pasar a %s",
				order.Number, order.Status, next))
		}
		order.Status = next
		if next == entity.SalesOrderPaid {
			now := uc.now()
			order.PaidAt = &now
		}
		return repos.SalesOrders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toSalesOrderResponse(order), nil
}

// Dispatch da salida a todas las líneas desde la bodega indicada y marca la orden DISPATCHED.
// Sólo desde PAID. Si una línea no tiene stock suficiente (o no existe en la bodega) no se
// descuenta ninguna, el estado no cambia y el error indica la línea con *domain.LineError.
func (uc *SalesOrderUseCase) Dispatch(ctx context.Context, id, warehouseID, actorID string) (*dto.SalesOrderResponse, error) {
	if warehouseID == "" {
		return nil, domain.InvalidInput("warehouse_id es requerido")
	}
	var (
		order  *entity.SalesOrder
		events []*inventory.LowStockEvent
	)
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		events = events[:0]
		var err error
		order, err = lockSalesOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.SalesOrderDispatched) {
			return domain.InvalidState(fmt.Sprintf("sólo órdenes PAID pueden despacharse; la orden #%d está %s",
				order.Number, order.Status))
		}
		reason := fmt.Sprintf("Salida por venta #%d", order.Number)
		for i, line := range order.Lines {
			res, err := uc.stock.DebitInTx(ctx, repos, inventory.StockMutation{
				ProductID:   line.ProductID,
				WarehouseID: warehouseID,
				Quantity:    line.Quantity,
				ActorID:     actorID,
				Reason:      reason,
			})
			if err != nil {
				return lineError(ctx, repos, i, line.ProductID, err)
			}
			events = append(events, res.LowStock)
		}
		now := uc.now()
		order.Status = entity.SalesOrderDispatched
		order.DispatchedAt = &now
		return repos.SalesOrders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.stock.Notify(ctx, events...)
	return toSalesOrderResponse(order), nil
}

func lockSalesOrder(ctx context.Context, repos inventory.Repos, id string) (*entity.SalesOrder, error) {
	order, err := repos.SalesOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, id)
	}
	return order, nil
}
