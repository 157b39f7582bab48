package entity

import "time"

// Stock representa el saldo actual de un producto en una bodega.
// Único por (ProductID, WarehouseID); nunca negativo después de un commit.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}

// StockView saldo con los datos de producto y bodega para listados.
type StockView struct {
	Stock
	ProductName   string
	ProductSKU    string
	MinStock      int64
	WarehouseName string
}

// LowStockItem fila del reporte de stock bajo.
type LowStockItem struct {
	ProductID     string
	ProductName   string
	ProductSKU    string
	MinStock      int64
	Quantity      int64
	WarehouseID   string
	WarehouseName string
}
