package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnitMeasure unidad de medida cuando no se indica otra.
const DefaultUnitMeasure = "unidad"

// Product representa un producto del catálogo. El stock se maneja por bodega en Stock.
type Product struct {
	ID          string
	SKU         string // único
	Name        string
	Description string
	CategoryID  *string // nil si no tiene categoría
	SupplierID  *string // nil si no tiene proveedor
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	UnitMeasure string
	MinStock    int64 // umbral de stock bajo (>= 0)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si una cantidad está en o por debajo del umbral mínimo.
func (p *Product) IsLowStock(quantity int64) bool {
	return quantity <= p.MinStock
}
