package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.sku, p.name, p.description, p.category_id, p.supplier_id,
	p.cost_price, p.sale_price, p.unit_measure, p.min_stock, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.CostPrice, &p.SalePrice, &p.UnitMeasure, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto y su texto de búsqueda normalizado.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, category_id, supplier_id, cost_price, sale_price,
			unit_measure, min_stock, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID, p.CostPrice, p.SalePrice,
		p.UnitMeasure, p.MinStock, productSearchText(p), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU. (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.sku = $1`, sku))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza los datos de catálogo. El saldo no vive aquí: sólo cambia vía movimientos.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, category_id = $5, supplier_id = $6,
			cost_price = $7, sale_price = $8, unit_measure = $9, min_stock = $10, search_text = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID,
		p.CostPrice, p.SalePrice, p.UnitMeasure, p.MinStock, productSearchText(p), p.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre aplicando los filtros; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CategoryID != "" {
		add("p.category_id::text = $%d", f.CategoryID)
	}
	if f.SupplierID != "" {
		add("p.supplier_id::text = $%d", f.SupplierID)
	}
	if f.PriceGT != nil {
		add("p.sale_price > $%d", *f.PriceGT)
	}
	if f.PriceLT != nil {
		add("p.sale_price < $%d", *f.PriceLT)
	}
	if f.Search != "" {
		add("(p.search_text || ' ' || COALESCE(c.search_key, '')) LIKE $%d", likePattern(textnorm.Fold(f.Search)))
	}
	from := ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`
	if len(conds) > 0 {
		from += ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, limitArg(limit), offset)
	query := fmt.Sprintf(`SELECT %s%s ORDER BY p.name, p.sku LIMIT $%d OFFSET $%d`,
		productColumns, from, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete elimina un producto. Con saldo, movimientos u órdenes la FK lo impide (ErrConflict).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return wrapErr("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func productSearchText(p *entity.Product) string {
	return textnorm.SearchKey(p.Name, p.SKU, p.Description)
}

// limitArg: límite <= 0 = sin límite (LIMIT NULL).
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
