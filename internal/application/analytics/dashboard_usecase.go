// Package analytics contiene los casos de uso de reportes de negocio (dashboard).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardDTO.
//
// Cinco consultas en paralelo: ventas, compras, valor del inventario,
// conteo de stock bajo y top 5 productos vendidos.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	type moneyResult struct {
		value decimal.Decimal
		err   error
	}
	type countResult struct {
		value int64
		err   error
	}
	type topResult struct {
		items []repository.TopProductResult
		err   error
	}

	salesCh := make(chan moneyResult, 1)
	purchasesCh := make(chan moneyResult, 1)
	inventoryCh := make(chan moneyResult, 1)
	lowCh := make(chan countResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		v, err := uc.analyticsRepo.SalesTotal(ctx)
		salesCh <- moneyResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.PurchasesTotal(ctx)
		purchasesCh <- moneyResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.InventoryValue(ctx)
		inventoryCh <- moneyResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.LowStockCount(ctx)
		lowCh <- countResult{v, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.TopProducts(ctx, dashboardTopProducts)
		topCh <- topResult{items, err}
	}()

	sales := <-salesCh
	purchases := <-purchasesCh
	inventory := <-inventoryCh
	low := <-lowCh
	top := <-topCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", sales.err)
	}
	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras: %w", purchases.err)
	}
	if inventory.err != nil {
		return nil, fmt.Errorf("dashboard: valor del inventario: %w", inventory.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	products := make([]dto.TopProductDTO, 0, len(top.items))
	for _, p := range top.items {
		products = append(products, dto.TopProductDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			UnitsSold:   p.UnitsSold,
		})
	}
	return &dto.DashboardDTO{
		TotalSales:     sales.value.Round(2),
		TotalPurchases: purchases.value.Round(2),
		InventoryValue: inventory.value.Round(2),
		LowStockCount:  low.value,
		TopProducts:    products,
		DateLabel:      monthLabel(uc.now()),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
