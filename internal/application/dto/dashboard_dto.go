package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	TotalSales     decimal.Decimal `json:"total_sales"`     // líneas de órdenes despachadas (cantidad x precio)
	TotalPurchases decimal.Decimal `json:"total_purchases"` // líneas de órdenes recibidas (cantidad x costo)
	InventoryValue decimal.Decimal `json:"inventory_value"` // saldo x costo del producto
	LowStockCount  int64           `json:"low_stock_count"` // pares (producto, bodega) en o bajo el mínimo

	// Top 5 productos por unidades vendidas, de mayor a menor.
	TopProducts []TopProductDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// TopProductDTO producto del widget de más vendidos.
type TopProductDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
}
