package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/textnorm"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, trade_name, legal_name, tax_id, email, phone, address, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var (
		s     entity.Supplier
		taxID *string
	)
	err := row.Scan(&s.ID, &s.TradeName, &s.LegalName, &taxID, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.TaxID = derefString(taxID)
	return &s, nil
}

func supplierSearchKey(s *entity.Supplier) string {
	return textnorm.SearchKey(s.TradeName, s.LegalName, s.TaxID)
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, trade_name, legal_name, tax_id, email, phone, address, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.TradeName, s.LegalName, nullIfEmpty(s.TaxID), s.Email, s.Phone, s.Address,
		supplierSearchKey(s), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert supplier", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET trade_name = $2, legal_name = $3, tax_id = $4, email = $5, phone = $6,
			address = $7, search_key = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, s.TradeName, s.LegalName, nullIfEmpty(s.TaxID), s.Email, s.Phone, s.Address,
		supplierSearchKey(s), s.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	pattern := likePattern(textnorm.Fold(search))
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers WHERE search_key LIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+supplierColumns+` FROM suppliers WHERE search_key LIKE $1
		ORDER BY trade_name LIMIT $2 OFFSET $3`, pattern, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Delete elimina el proveedor. Con órdenes de compra -> ErrConflict; sus productos quedan sin proveedor.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "suppliers", id)
}
