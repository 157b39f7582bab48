package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock se maneja por bodega vía movimientos.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	SupplierID  *string         `json:"supplier_id" validate:"omitempty,uuid"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"gte=0"`
	UnitMeasure string          `json:"unit_measure" validate:"max=50"`
	MinStock    int64           `json:"min_stock" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no cambian.
type UpdateProductRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
	CostPrice   *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	SalePrice   *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
	UnitMeasure *string          `json:"unit_measure" validate:"omitempty,max=50"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id"`
	SupplierID  *string         `json:"supplier_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	UnitMeasure string          `json:"unit_measure"`
	MinStock    int64           `json:"min_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
