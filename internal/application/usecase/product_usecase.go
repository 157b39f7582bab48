package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos por bodega.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

// Create crea un nuevo producto. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.InvalidInput("sku y name son requeridos")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() || in.MinStock < 0 {
		return nil, domain.InvalidInput("precios y stock mínimo no pueden ser negativos")
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con SKU %s", domain.ErrDuplicate, in.SKU)
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = entity.DefaultUnitMeasure
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CategoryID:  emptyToNil(in.CategoryID),
		SupplierID:  emptyToNil(in.SupplierID),
		CostPrice:   in.CostPrice,
		SalePrice:   in.SalePrice,
		UnitMeasure: in.UnitMeasure,
		MinStock:    in.MinStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos enviados. Un category_id/supplier_id vacío quita la referencia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil && strings.TrimSpace(*in.SKU) != product.SKU {
		sku := strings.TrimSpace(*in.SKU)
		other, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, fmt.Errorf("%w: ya existe un producto con SKU %s", domain.ErrDuplicate, sku)
		}
		product.SKU = sku
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = emptyToNil(in.CategoryID)
	}
	if in.SupplierID != nil {
		product.SupplierID = emptyToNil(in.SupplierID)
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.UnitMeasure != nil && *in.UnitMeasure != "" {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if product.CostPrice.IsNegative() || product.SalePrice.IsNegative() || product.MinStock < 0 {
		return nil, domain.InvalidInput("precios y stock mínimo no pueden ser negativos")
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros de categoría, proveedor, rango de precio y búsqueda de texto.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if filter.PriceGT != nil && filter.PriceLT != nil && !filter.PriceGT.LessThan(*filter.PriceLT) {
		return nil, domain.InvalidInput("price_gt debe ser menor que price_lt")
	}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. Con movimientos u órdenes asociadas devuelve domain.ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID *string) error {
	if id := emptyToNil(categoryID); id != nil {
		c, err := uc.categoryRepo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *id)
		}
	}
	if id := emptyToNil(supplierID); id != nil {
		s, err := uc.supplierRepo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *id)
		}
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		UnitMeasure: p.UnitMeasure,
		MinStock:    p.MinStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
