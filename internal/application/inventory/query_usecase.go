package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// EmptyLowStockMessage mensaje del reporte cuando ningún saldo está en o bajo su mínimo.
const EmptyLowStockMessage = "Ningún producto con stock bajo encontrado."

// QueryUseCase consultas de sólo lectura sobre saldos y kardex.
type QueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) *QueryUseCase {
	return &QueryUseCase{stockRepo: stockRepo, movementRepo: movementRepo, productRepo: productRepo}
}

// LowStockReport devuelve los pares (producto, bodega) con saldo <= mínimo del producto,
// ordenados por mayor déficit primero. warehouseID vacío considera todas las bodegas.
func (uc *QueryUseCase) LowStockReport(ctx context.Context, warehouseID string) (*dto.LowStockReportResponse, error) {
	rows, err := uc.stockRepo.ListLowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &dto.LowStockReportResponse{Items: []dto.LowStockItemResponse{}, Message: EmptyLowStockMessage}, nil
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		defA, defB := a.MinStock-a.Quantity, b.MinStock-b.Quantity
		if defA != defB {
			return defA > defB
		}
		return a.ProductName < b.ProductName
	})
	items := make([]dto.LowStockItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemResponse{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			ProductSKU:    r.ProductSKU,
			MinStock:      r.MinStock,
			Quantity:      r.Quantity,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
		})
	}
	return &dto.LowStockReportResponse{Items: items}, nil
}

// ListStock lista saldos con datos de producto y bodega.
func (uc *QueryUseCase) ListStock(ctx context.Context, filter repository.StockFilter, page dto.PageRequest) (*dto.StockListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.stockRepo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockResponse{
			ProductID:     s.ProductID,
			ProductName:   s.ProductName,
			ProductSKU:    s.ProductSKU,
			WarehouseID:   s.WarehouseID,
			WarehouseName: s.WarehouseName,
			Quantity:      s.Quantity,
			MinStock:      s.MinStock,
			LowStock:      s.Quantity <= s.MinStock,
			UpdatedAt:     s.UpdatedAt,
		})
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListMovements lista el kardex, más reciente primero.
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	page.DefaultPage()
	if filter.Kind != "" && !entity.MovementKind(filter.Kind).Valid() {
		return nil, domain.InvalidInput("kind debe ser ENTRY, EXIT o ADJUSTMENT")
	}
	list, total, err := uc.movementRepo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ProductHistory kardex de un producto en todas las bodegas.
func (uc *QueryUseCase) ProductHistory(ctx context.Context, productID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return uc.ListMovements(ctx, repository.MovementFilter{ProductID: productID}, page)
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Kind:        string(m.Kind),
		Reason:      m.Reason,
		ActorID:     m.ActorID,
		CreatedAt:   m.CreatedAt,
	}
}
