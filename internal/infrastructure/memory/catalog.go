package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/textnorm"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ acc accessor }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.acc(func(s *state) error {
		if _, ok := s.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range s.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		s.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(func(s *state) error {
		for _, p := range s.products {
			if p.SKU == sku {
				cp := p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.acc(func(s *state) error {
		if _, ok := s.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range s.products {
			if id != p.ID && other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		s.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var out []*entity.Product
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.Product, 0, len(s.products))
		for _, p := range s.products {
			if !s.matchProduct(p, f) {
				continue
			}
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			p := all[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, total, err
}

func (s *state) matchProduct(p entity.Product, f repository.ProductFilter) bool {
	if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
		return false
	}
	if f.SupplierID != "" && (p.SupplierID == nil || *p.SupplierID != f.SupplierID) {
		return false
	}
	if f.PriceGT != nil && !p.SalePrice.GreaterThan(*f.PriceGT) {
		return false
	}
	if f.PriceLT != nil && !p.SalePrice.LessThan(*f.PriceLT) {
		return false
	}
	if f.Search == "" {
		return true
	}
	var category string
	if p.CategoryID != nil {
		category = s.categories[*p.CategoryID].Name
	}
	return textnorm.Contains(textnorm.SearchKey(p.Name, p.SKU, p.Description, category), f.Search)
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.acc(func(s *state) error {
		if _, ok := s.products[id]; !ok {
			return domain.ErrNotFound
		}
		for k := range s.stock {
			if k.productID == id {
				return domain.ErrConflict
			}
		}
		for _, m := range s.movements {
			if m.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(s.products, id)
		return nil
	})
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ acc accessor }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.acc(func(s *state) error {
		for _, other := range s.warehouses {
			if other.Name == w.Name {
				return domain.ErrDuplicate
			}
		}
		s.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.acc(func(s *state) error {
		if w, ok := s.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.acc(func(s *state) error {
		if _, ok := s.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		s.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, int, error) {
	var out []*entity.Warehouse
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.Warehouse, 0, len(s.warehouses))
		for _, w := range s.warehouses {
			all = append(all, w)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			w := all[i]
			out = append(out, &w)
		}
		return nil
	})
	return out, total, err
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	return r.acc(func(s *state) error {
		if _, ok := s.warehouses[id]; !ok {
			return domain.ErrNotFound
		}
		for k := range s.stock {
			if k.warehouseID == id {
				return domain.ErrConflict
			}
		}
		delete(s.warehouses, id)
		return nil
	})
}
