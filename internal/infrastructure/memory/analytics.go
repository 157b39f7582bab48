package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas del dashboard sobre el estado en memoria.
type AnalyticsRepo struct{ acc accessor }

// Analytics repositorio de consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo {
	return &AnalyticsRepo{acc: s.locked}
}

func (r *AnalyticsRepo) SalesTotal(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.acc(func(s *state) error {
		for _, o := range s.salesOrders {
			if o.Status == entity.SalesOrderDispatched {
				total = total.Add(o.Total())
			}
		}
		return nil
	})
	return total, err
}

func (r *AnalyticsRepo) PurchasesTotal(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.acc(func(s *state) error {
		for _, o := range s.purchaseOrders {
			if o.Status == entity.PurchaseOrderReceived {
				total = total.Add(o.Total())
			}
		}
		return nil
	})
	return total, err
}

func (r *AnalyticsRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.acc(func(s *state) error {
		for k, st := range s.stock {
			p := s.products[k.productID]
			total = total.Add(p.CostPrice.Mul(decimal.NewFromInt(st.Quantity)))
		}
		return nil
	})
	return total, err
}

func (r *AnalyticsRepo) LowStockCount(_ context.Context) (int64, error) {
	var n int64
	err := r.acc(func(s *state) error {
		for k, st := range s.stock {
			p := s.products[k.productID]
			if p.IsLowStock(st.Quantity) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AnalyticsRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	var out []repository.TopProductResult
	err := r.acc(func(s *state) error {
		units := make(map[string]int64)
		for _, o := range s.salesOrders {
			if o.Status != entity.SalesOrderDispatched {
				continue
			}
			for _, l := range o.Lines {
				units[l.ProductID] += l.Quantity
			}
		}
		for id, u := range units {
			out = append(out, repository.TopProductResult{ProductID: id, ProductName: s.products[id].Name, UnitsSold: u})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].UnitsSold != out[j].UnitsSold {
				return out[i].UnitsSold > out[j].UnitsSold
			}
			return out[i].ProductName < out[j].ProductName
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}
