package orders

import (
	"context"
	"errors"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func toPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Subtotal:  l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)),
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:          o.ID,
		Number:      o.Number,
		SupplierID:  o.SupplierID,
		Status:      string(o.Status),
		RequestedBy: o.RequestedBy,
		CreatedAt:   o.CreatedAt,
		ReceivedAt:  o.ReceivedAt,
		Total:       o.Total(),
		Lines:       lines,
	}
}

func toSalesOrderResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.SalesOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.SalesOrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)),
		})
	}
	return &dto.SalesOrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		CustomerID:   o.CustomerID,
		Status:       string(o.Status),
		RequestedBy:  o.RequestedBy,
		CreatedAt:    o.CreatedAt,
		PaidAt:       o.PaidAt,
		DispatchedAt: o.DispatchedAt,
		Total:        o.Total(),
		Lines:        lines,
	}
}

// lineError identifica la línea que abortó la operación; el nombre del producto se resuelve
// con los repos de la misma tx si el error no lo trae.
func lineError(ctx context.Context, repos inventory.Repos, index int, productID string, err error) error {
	le := &domain.LineError{Line: index + 1, ProductID: productID, Err: err}
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		le.ProductName = ise.ProductName
		return le
	}
	if p, perr := repos.Products.GetByID(ctx, productID); perr == nil && p != nil {
		le.ProductName = p.Name
	} else {
		le.ProductName = productID
	}
	return le
}
