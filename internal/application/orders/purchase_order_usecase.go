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

// PurchaseOrderUseCase flujo de órdenes de compra: PENDING -> APPROVED -> RECEIVED (o CANCELLED).
type PurchaseOrderUseCase struct {
	txRunner     inventory.TxRunner
	stock        *inventory.StockUseCase
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	pdf          PurchaseOrderRenderer
	ubl          PurchaseOrderRenderer
	issuer       Issuer
	now          func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso. pdf y ubl pueden ser nil si no se exportan documentos.
func NewPurchaseOrderUseCase(
	txRunner inventory.TxRunner,
	stock *inventory.StockUseCase,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	pdf, ubl PurchaseOrderRenderer,
	issuer Issuer,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:     txRunner,
		stock:        stock,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		pdf:          pdf,
		ubl:          ubl,
		issuer:       issuer,
		now:          time.Now,
	}
}

// Create registra una orden PENDING. Cada línea captura el costo unitario en este momento.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actorID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.InvalidInput("supplier_id es requerido")
	}
	if len(in.Lines) == 0 {
		return nil, domain.InvalidInput("la orden debe tener al menos una línea")
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		SupplierID:  supplier.ID,
		Status:      entity.PurchaseOrderPending,
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
			cost := product.CostPrice
			if l.UnitCost != nil {
				if l.UnitCost.IsNegative() {
					return domain.InvalidInput(fmt.Sprintf("línea %d: el costo unitario no puede ser negativo", i+1))
				}
				cost = *l.UnitCost
			}
			order.Lines = append(order.Lines, entity.PurchaseOrderLine{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  l.Quantity,
				UnitCost:  cost,
			})
		}
		return repos.PurchaseOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return toPurchaseOrderResponse(order), nil
}

// List lista órdenes, opcionalmente por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	if status != "" && !entity.PurchaseOrderStatus(status).Valid() {
		return nil, domain.InvalidInput("status desconocido: " + status)
	}
	page.DefaultPage()
	list, total, err := uc.orderRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toPurchaseOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Approve PENDING -> APPROVED.
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, entity.PurchaseOrderApproved)
}

// Cancel PENDING|APPROVED -> CANCELLED.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, entity.PurchaseOrderCancelled)
}

func (uc *PurchaseOrderUseCase) transition(ctx context.Context, id string, next entity.PurchaseOrderStatus) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		order, err = lockPurchaseOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return domain.InvalidState(fmt.Sprintf("la orden de compra #%d está %s y no puede pasar a %s",
				order.Number, order.Status, next))
		}
		order.Status = next
		return repos.PurchaseOrders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// Receive da entrada a todas las líneas en la bodega indicada y marca la orden RECEIVED.
// Sólo desde APPROVED. Si una línea falla no se aplica ninguna y el estado no cambia.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, id, warehouseID, actorID string) (*dto.PurchaseOrderResponse, error) {
	if warehouseID == "" {
		return nil, domain.InvalidInput("warehouse_id es requerido")
	}
	var (
		order  *entity.PurchaseOrder
		events []*inventory.LowStockEvent
	)
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		events = events[:0]
		var err error
		order, err = lockPurchaseOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.PurchaseOrderReceived) {
			return domain.InvalidState(fmt.Sprintf("sólo órdenes APPROVED pueden recibirse; la orden #%d está %s",
				order.Number, order.Status))
		}
		reason := fmt.Sprintf("Recepción de la orden de compra #%d", order.Number)
		for i, line := range order.Lines {
			res, err := uc.stock.CreditInTx(ctx, repos, inventory.StockMutation{
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
		order.Status = entity.PurchaseOrderReceived
		order.ReceivedAt = &now
		return repos.PurchaseOrders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.stock.Notify(ctx, events...)
	return toPurchaseOrderResponse(order), nil
}

// RenderPDF genera el PDF de la orden de compra.
func (uc *PurchaseOrderUseCase) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	return uc.render(ctx, id, uc.pdf)
}

// ExportUBL genera el XML UBL 2.1 (Order) de la orden de compra.
func (uc *PurchaseOrderUseCase) ExportUBL(ctx context.Context, id string) ([]byte, error) {
	return uc.render(ctx, id, uc.ubl)
}

func (uc *PurchaseOrderUseCase) render(ctx context.Context, id string, r PurchaseOrderRenderer) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("exportación de documentos no configurada")
	}
	doc, err := uc.document(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Render(doc)
}

func (uc *PurchaseOrderUseCase) document(ctx context.Context, id string) (*PurchaseOrderDocument, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, order.SupplierID)
	}
	products := make(map[string]*entity.Product, len(order.Lines))
	for _, l := range order.Lines {
		if _, ok := products[l.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		products[l.ProductID] = p
	}
	return &PurchaseOrderDocument{Issuer: uc.issuer, Order: order, Supplier: supplier, Products: products}, nil
}

func lockPurchaseOrder(ctx context.Context, repos inventory.Repos, id string) (*entity.PurchaseOrder, error) {
	order, err := repos.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return order, nil
}
