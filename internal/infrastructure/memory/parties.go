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
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// CategoryRepo categorías en memoria. Al borrar una categoría sus productos quedan sin categoría.
type CategoryRepo struct{ acc accessor }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.acc(func(s *state) error {
		for _, other := range s.categories {
			if other.ID == c.ID || other.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.acc(func(s *state) error {
		if c, ok := s.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.acc(func(s *state) error {
		if _, ok := s.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range s.categories {
			if id != c.ID && other.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, int, error) {
	var out []*entity.Category
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.Category, 0, len(s.categories))
		for _, c := range s.categories {
			all = append(all, c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			c := all[i]
			out = append(out, &c)
		}
		return nil
	})
	return out, total, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.acc(func(s *state) error {
		if _, ok := s.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for pid, p := range s.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				s.products[pid] = p
			}
		}
		delete(s.categories, id)
		return nil
	})
}

// SupplierRepo proveedores en memoria. Con órdenes de compra no se borra; sus productos quedan sin proveedor.
type SupplierRepo struct{ acc accessor }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	return r.acc(func(s *state) error {
		for _, other := range s.suppliers {
			if other.ID == sp.ID || (sp.TaxID != "" && other.TaxID == sp.TaxID) {
				return domain.ErrDuplicate
			}
		}
		s.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.acc(func(s *state) error {
		if sp, ok := s.suppliers[id]; ok {
			out = &sp
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	return r.acc(func(s *state) error {
		if _, ok := s.suppliers[sp.ID]; !ok {
			return domain.ErrNotFound
		}
		s.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	var out []*entity.Supplier
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.Supplier, 0, len(s.suppliers))
		for _, sp := range s.suppliers {
			if search != "" && !textnorm.Contains(textnorm.SearchKey(sp.TradeName, sp.LegalName, sp.TaxID), search) {
				continue
			}
			all = append(all, sp)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].TradeName < all[j].TradeName })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			sp := all[i]
			out = append(out, &sp)
		}
		return nil
	})
	return out, total, err
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.acc(func(s *state) error {
		if _, ok := s.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range s.purchaseOrders {
			if o.SupplierID == id {
				return domain.ErrConflict
			}
		}
		for pid, p := range s.products {
			if p.SupplierID != nil && *p.SupplierID == id {
				p.SupplierID = nil
				s.products[pid] = p
			}
		}
		delete(s.suppliers, id)
		return nil
	})
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ acc accessor }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.acc(func(s *state) error {
		for _, other := range s.customers {
			if other.ID == c.ID || (c.TaxID != "" && other.TaxID == c.TaxID) {
				return domain.ErrDuplicate
			}
		}
		s.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.acc(func(s *state) error {
		if c, ok := s.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.acc(func(s *state) error {
		if _, ok := s.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		s.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.Customer, 0, len(s.customers))
		for _, c := range s.customers {
			if search != "" && !textnorm.Contains(textnorm.SearchKey(c.Name, c.TaxID, c.Email), search) {
				continue
			}
			all = append(all, c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			c := all[i]
			out = append(out, &c)
		}
		return nil
	})
	return out, total, err
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.acc(func(s *state) error {
		if _, ok := s.customers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range s.salesOrders {
			if o.CustomerID == id {
				return domain.ErrConflict
			}
		}
		delete(s.customers, id)
		return nil
	})
}
