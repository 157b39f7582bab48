package repository

import "github.com/shopspring/decimal"

// ProductFilter filtros de listado de productos. Campos vacíos/nil no filtran.
type ProductFilter struct {
	CategoryID string
	SupplierID string
	PriceGT    *decimal.Decimal // precio de venta estrictamente mayor
	PriceLT    *decimal.Decimal // precio de venta estrictamente menor
	Search     string           // subcadena en nombre, SKU, descripción o categoría (sin acentos)
}

// StockFilter filtros de listado de saldos.
type StockFilter struct {
	ProductID   string
	WarehouseID string
}

// MovementFilter filtros de listado del kardex.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Kind        string
}
