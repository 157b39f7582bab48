package dto

import "time"

// StockMovementRequest body para POST /api/stock/entry y /api/stock/exit.
type StockMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	Reason      string `json:"reason" validate:"max=255"`
}

// StockAdjustmentRequest body para POST /api/stock/adjustment. Delta con signo, distinto de cero.
type StockAdjustmentRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Delta       int64  `json:"delta" validate:"ne=0"`
	Reason      string `json:"reason" validate:"required,max=255"`
}

// StockMutationResponse resultado de una entrada, salida o ajuste.
type StockMutationResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	NewQuantity int64  `json:"new_quantity"`
	MovementID  string `json:"movement_id"`
	Message     string `json:"message"`
}

// StockResponse saldo de un producto en una bodega.
type StockResponse struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductSKU    string    `json:"product_sku"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int64     `json:"quantity"`
	MinStock      int64     `json:"min_stock"`
	LowStock      bool      `json:"low_stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockListResponse lista paginada de saldos.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StockMovementResponse registro del kardex.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	Kind        string    `json:"kind"`
	Reason      string    `json:"reason"`
	ActorID     string    `json:"actor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockMovementListResponse lista paginada del kardex.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// LowStockItemResponse fila del reporte de stock bajo.
type LowStockItemResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductSKU    string `json:"product_sku"`
	MinStock      int64  `json:"min_stock"`
	Quantity      int64  `json:"current_quantity"`
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
}

// LowStockReportResponse reporte completo; Message sólo cuando no hay items.
type LowStockReportResponse struct {
	Items   []LowStockItemResponse `json:"items"`
	Message string                 `json:"message,omitempty"`
}
