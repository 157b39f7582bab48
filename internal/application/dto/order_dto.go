package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea de una orden de compra. UnitCost nil toma el costo actual del producto.
type PurchaseOrderLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gte=1"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required"`
	Lines      []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineResponse línea con el costo capturado al crear la orden.
type PurchaseOrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	Number      int64                       `json:"number"`
	SupplierID  string                      `json:"supplier_id"`
	Status      string                      `json:"status"`
	RequestedBy string                      `json:"requested_by"`
	CreatedAt   time.Time                   `json:"created_at"`
	ReceivedAt  *time.Time                  `json:"received_at,omitempty"`
	Total       decimal.Decimal             `json:"total"`
	Lines       []PurchaseOrderLineResponse `json:"lines"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// SalesOrderLineRequest línea de una orden de venta. UnitPrice nil toma el precio de venta actual.
type SalesOrderLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders. Cart=true crea la orden como carrito.
type CreateSalesOrderRequest struct {
	CustomerID string                  `json:"customer_id" validate:"required"`
	Cart       bool                    `json:"cart"`
	Lines      []SalesOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SalesOrderLineResponse línea con el precio capturado al crear la orden.
type SalesOrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalesOrderResponse salida de una orden de venta.
type SalesOrderResponse struct {
	ID           string                   `json:"id"`
	Number       int64                    `json:"number"`
	CustomerID   string                   `json:"customer_id"`
	Status       string                   `json:"status"`
	RequestedBy  string                   `json:"requested_by"`
	CreatedAt    time.Time                `json:"created_at"`
	PaidAt       *time.Time               `json:"paid_at,omitempty"`
	DispatchedAt *time.Time               `json:"dispatched_at,omitempty"`
	Total        decimal.Decimal          `json:"total"`
	Lines        []SalesOrderLineResponse `json:"lines"`
}

// SalesOrderListResponse lista paginada de órdenes de venta.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// FulfillmentRequest body de recibir/despachar: bodega de entrada o salida.
type FulfillmentRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
}
