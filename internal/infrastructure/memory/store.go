// Package memory implementa los repositorios de inventario y órdenes en memoria.
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado,
// que sólo reemplaza al original si la función termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type stockKey struct {
	productID   string
	warehouseID string
}

type state struct {
	products       map[string]entity.Product
	warehouses     map[string]entity.Warehouse
	categories     map[string]entity.Category
	suppliers      map[string]entity.Supplier
	customers      map[string]entity.Customer
	users          map[string]entity.User
	stock          map[stockKey]entity.Stock
	movements      []entity.StockMovement
	purchaseOrders map[string]entity.PurchaseOrder
	salesOrders    map[string]entity.SalesOrder
	poSeq          int64
	soSeq          int64
}

func newState() *state {
	return &state{
		products:       make(map[string]entity.Product),
		warehouses:     make(map[string]entity.Warehouse),
		categories:     make(map[string]entity.Category),
		suppliers:      make(map[string]entity.Supplier),
		customers:      make(map[string]entity.Customer),
		users:          make(map[string]entity.User),
		stock:          make(map[stockKey]entity.Stock),
		purchaseOrders: make(map[string]entity.PurchaseOrder),
		salesOrders:    make(map[string]entity.SalesOrder),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.purchaseOrders {
		v.Lines = append([]entity.PurchaseOrderLine(nil), v.Lines...)
		c.purchaseOrders[k] = v
	}
	for k, v := range s.salesOrders {
		v.Lines = append([]entity.SalesOrderLine(nil), v.Lines...)
		c.salesOrders[k] = v
	}
	c.poSeq, c.soSeq = s.poSeq, s.soSeq
	return c
}

// accessor da acceso al estado: bloqueando (fuera de tx) o directo (dentro de tx).
type accessor func(fn func(*state) error) error

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) locked(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Run ejecuta fn con repositorios sobre una copia del estado; Commit = reemplazar, Rollback = descartar.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	direct := func(f func(*state) error) error { return f(tx) }
	if err := fn(reposFor(direct)); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() inventory.Repos {
	return reposFor(s.locked)
}

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{acc: s.locked}
}

// Suppliers repositorio de proveedores fuera de transacción.
func (s *Store) Suppliers() *SupplierRepo {
	return &SupplierRepo{acc: s.locked}
}

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo {
	return &CustomerRepo{acc: s.locked}
}

func reposFor(acc accessor) inventory.Repos {
	return inventory.Repos{
		Stock:          &StockRepo{acc: acc},
		Movements:      &MovementRepo{acc: acc},
		Products:       &ProductRepo{acc: acc},
		Warehouses:     &WarehouseRepo{acc: acc},
		PurchaseOrders: &PurchaseOrderRepo{acc: acc},
		SalesOrders:    &SalesOrderRepo{acc: acc},
	}
}

func paginate(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
