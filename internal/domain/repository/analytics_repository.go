package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// TopProductResult producto con unidades vendidas en órdenes despachadas.
type TopProductResult struct {
	ProductID   string
	ProductName string
	UnitsSold   int64
}

// AnalyticsRepository consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// SalesTotal suma cantidad x precio de las líneas de órdenes de venta despachadas.
	SalesTotal(ctx context.Context) (decimal.Decimal, error)
	// PurchasesTotal suma cantidad x costo de las líneas de órdenes de compra recibidas.
	PurchasesTotal(ctx context.Context) (decimal.Decimal, error)
	// InventoryValue suma saldo x costo del producto sobre todos los saldos.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	// LowStockCount cuenta los pares (producto, bodega) con saldo <= mínimo.
	LowStockCount(ctx context.Context) (int64, error)
	// TopProducts devuelve los productos más vendidos (unidades) en órdenes despachadas.
	TopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
}
