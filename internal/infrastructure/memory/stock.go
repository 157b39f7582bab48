package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
)

// StockRepo saldos en memoria. GetForUpdate no necesita bloquear: la tx ya tiene el mutex del store.
type StockRepo struct{ acc accessor }

func (r *StockRepo) EnsureExists(_ context.Context, productID, warehouseID string) error {
	return r.acc(func(s *state) error {
		k := stockKey{productID, warehouseID}
		if _, ok := s.stock[k]; !ok {
			s.stock[k] = entity.Stock{ProductID: productID, WarehouseID: warehouseID}
		}
		return nil
	})
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.acc(func(s *state) error {
		st, ok := s.stock[stockKey{productID, warehouseID}]
		if !ok {
			return domain.ErrNotFound
		}
		out = &st
		return nil
	})
	return out, err
}

func (r *StockRepo) Update(_ context.Context, st *entity.Stock) error {
	return r.acc(func(s *state) error {
		k := stockKey{st.ProductID, st.WarehouseID}
		if _, ok := s.stock[k]; !ok {
			return domain.ErrNotFound
		}
		if st.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		s.stock[k] = *st
		return nil
	})
}

func (r *StockRepo) List(_ context.Context, f repository.StockFilter, limit, offset int) ([]*entity.StockView, int, error) {
	var out []*entity.StockView
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.StockView, 0, len(s.stock))
		for k, st := range s.stock {
			if f.ProductID != "" && k.productID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && k.warehouseID != f.WarehouseID {
				continue
			}
			all = append(all, s.view(st))
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].ProductName != all[j].ProductName {
				return all[i].ProductName < all[j].ProductName
			}
			return all[i].WarehouseName < all[j].WarehouseName
		})
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			v := all[i]
			out = append(out, &v)
		}
		return nil
	})
	return out, total, err
}

func (r *StockRepo) ListLowStock(_ context.Context, warehouseID string) ([]entity.LowStockItem, error) {
	var out []entity.LowStockItem
	err := r.acc(func(s *state) error {
		for k, st := range s.stock {
			if warehouseID != "" && k.warehouseID != warehouseID {
				continue
			}
			v := s.view(st)
			if v.Quantity > v.MinStock {
				continue
			}
			out = append(out, entity.LowStockItem{
				ProductID:     v.ProductID,
				ProductName:   v.ProductName,
				ProductSKU:    v.ProductSKU,
				MinStock:      v.MinStock,
				Quantity:      v.Quantity,
				WarehouseID:   v.WarehouseID,
				WarehouseName: v.WarehouseName,
			})
		}
		return nil
	})
	return out, err
}

func (s *state) view(st entity.Stock) entity.StockView {
	p := s.products[st.ProductID]
	w := s.warehouses[st.WarehouseID]
	return entity.StockView{
		Stock:         st,
		ProductName:   p.Name,
		ProductSKU:    p.SKU,
		MinStock:      p.MinStock,
		WarehouseName: w.Name,
	}
}

// MovementRepo kardex en memoria: sólo agrega.
type MovementRepo struct{ acc accessor }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.acc(func(s *state) error {
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	var out []*entity.StockMovement
	var total int
	err := r.acc(func(s *state) error {
		matched := make([]entity.StockMovement, 0)
		// Más reciente primero.
		for i := len(s.movements) - 1; i >= 0; i-- {
			m := s.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.Kind != "" && string(m.Kind) != f.Kind {
				continue
			}
			matched = append(matched, m)
		}
		total = len(matched)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			m := matched[i]
			out = append(out, &m)
		}
		return nil
	})
	return out, total, err
}
