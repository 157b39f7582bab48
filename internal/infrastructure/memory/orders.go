package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct{ acc accessor }

func (r *PurchaseOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.acc(func(s *state) error {
		s.poSeq++
		o.Number = s.poSeq
		cp := *o
		cp.Lines = append([]entity.PurchaseOrderLine(nil), o.Lines...)
		s.purchaseOrders[o.ID] = cp
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.acc(func(s *state) error {
		if o, ok := s.purchaseOrders[id]; ok {
			o.Lines = append([]entity.PurchaseOrderLine(nil), o.Lines...)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus sólo persiste estado y fecha de recepción; las líneas no cambian.
func (r *PurchaseOrderRepo) UpdateStatus(_ context.Context, o *entity.PurchaseOrder) error {
	return r.acc(func(s *state) error {
		cur, ok := s.purchaseOrders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.ReceivedAt = o.ReceivedAt
		s.purchaseOrders[o.ID] = cur
		return nil
	})
}

func (r *PurchaseOrderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	var out []*entity.PurchaseOrder
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.PurchaseOrder, 0, len(s.purchaseOrders))
		for _, o := range s.purchaseOrders {
			if status != "" && string(o.Status) != status {
				continue
			}
			all = append(all, o)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number > all[j].Number })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			o := all[i]
			out = append(out, &o)
		}
		return nil
	})
	return out, total, err
}

// SalesOrderRepo órdenes de venta en memoria.
type SalesOrderRepo struct{ acc accessor }

func (r *SalesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	return r.acc(func(s *state) error {
		s.soSeq++
		o.Number = s.soSeq
		cp := *o
		cp.Lines = append([]entity.SalesOrderLine(nil), o.Lines...)
		s.salesOrders[o.ID] = cp
		return nil
	})
}

func (r *SalesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.acc(func(s *state) error {
		if o, ok := s.salesOrders[id]; ok {
			o.Lines = append([]entity.SalesOrderLine(nil), o.Lines...)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus sólo persiste estado y fechas; las líneas no cambian.
func (r *SalesOrderRepo) UpdateStatus(_ context.Context, o *entity.SalesOrder) error {
	return r.acc(func(s *state) error {
		cur, ok := s.salesOrders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.PaidAt = o.PaidAt
		cur.DispatchedAt = o.DispatchedAt
		s.salesOrders[o.ID] = cur
		return nil
	})
}

func (r *SalesOrderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.SalesOrder, int, error) {
	var out []*entity.SalesOrder
	var total int
	err := r.acc(func(s *state) error {
		all := make([]entity.SalesOrder, 0, len(s.salesOrders))
		for _, o := range s.salesOrders {
			if status != "" && string(o.Status) != status {
				continue
			}
			all = append(all, o)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number > all[j].Number })
		total = len(all)
		from, to := paginate(total, limit, offset)
		for i := from; i < to; i++ {
			o := all[i]
			out = append(out, &o)
		}
		return nil
	})
	return out, total, err
}
