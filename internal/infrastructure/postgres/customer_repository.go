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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
// tax_id y email vacíos se guardan como NULL para no chocar con el UNIQUE.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, tax_id, email, phone, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c            entity.Customer
		taxID, email *string
	)
	if err := row.Scan(&c.ID, &c.Name, &taxID, &email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TaxID = derefString(taxID)
	c.Email = derefString(email)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, name, tax_id, email, phone, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Email), c.Phone,
		textnorm.SearchKey(c.Name, c.TaxID, c.Email), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert customer", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, tax_id = $3, email = $4, phone = $5, search_key = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Email), c.Phone,
		textnorm.SearchKey(c.Name, c.TaxID, c.Email), c.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update customer", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes por nombre; search filtra por nombre, documento o email sin acentos.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, int, error) {
	pattern := likePattern(textnorm.Fold(search))
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE search_key LIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE search_key LIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`, pattern, limitArg(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Delete elimina un cliente sin órdenes de venta (si no, ErrConflict).
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "customers", id)
}
