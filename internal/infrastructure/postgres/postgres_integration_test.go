//go:build integration

package postgres_test

// Pruebas contra un PostgreSQL real levantado con testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockflow-api/pkg/config"
)

type pgEnv struct {
	pool    *pgxpool.Pool
	actorID string
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("integración omitida con -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("stockflow_test"),
		tcPostgres.WithUsername("stockflow"),
		tcPostgres.WithPassword("stockflow"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "aplicar dos veces no hace nada")

	actor := &entity.User{
		ID: uuid.New().String(), Email: "admin@stockflow.test", PasswordHash: "x", Name: "Admin",
		Role: entity.RoleAdmin, Status: entity.UserStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, actor))
	return &pgEnv{pool: pool, actorID: actor.ID}
}

func (e *pgEnv) product(t *testing.T, sku, name string, minStock int64) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: name, MinStock: minStock,
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(150),
		UnitMeasure: entity.DefaultUnitMeasure, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewProductRepository(e.pool).Create(context.Background(), p))
	return p
}

func (e *pgEnv) warehouse(t *testing.T, name string) *entity.Warehouse {
	t.Helper()
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewWarehouseRepository(e.pool).Create(context.Background(), w))
	return w
}

func TestPostgres_DebitosConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	p := env.product(t, "TOR-01", "Tornillo", 2)
	w := env.warehouse(t, "Central")
	uc := inventory.NewStockUseCase(postgres.NewTxRunner(env.pool), nil)

	_, err := uc.Credit(ctx, inventory.StockMutation{ProductID: p.ID, WarehouseID: w.ID, Quantity: 8, ActorID: env.actorID})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Debit(ctx, inventory.StockMutation{ProductID: p.ID, WarehouseID: w.ID, Quantity: 5, ActorID: env.actorID})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	st, err := postgres.NewStockRepository(env.pool).Get(ctx, p.ID, w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.Quantity)

	movs, total, err := postgres.NewStockMovementRepository(env.pool).List(ctx, repository.MovementFilter{ProductID: p.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	var sum int64
	for _, m := range movs {
		sum += m.Quantity
	}
	assert.EqualValues(t, st.Quantity, sum, "el kardex suma el saldo")
	assert.Equal(t, entity.MovementExit, movs[0].Kind, "el más reciente primero")
}

func TestPostgres_PrimerosCreditosConcurrentes(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	p := env.product(t, "ARA-01", "Arandela", 0)
	w := env.warehouse(t, "Norte")
	uc := inventory.NewStockUseCase(postgres.NewTxRunner(env.pool), nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Credit(ctx, inventory.StockMutation{ProductID: p.ID, WarehouseID: w.ID, Quantity: 3, ActorID: env.actorID})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := postgres.NewStockRepository(env.pool).Get(ctx, p.ID, w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 15, st.Quantity)
}

func TestPostgres_KardexEsSoloInsercion(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	p := env.product(t, "CLV-01", "Clavo", 0)
	w := env.warehouse(t, "Sur")
	uc := inventory.NewStockUseCase(postgres.NewTxRunner(env.pool), nil)
	res, err := uc.Credit(ctx, inventory.StockMutation{ProductID: p.ID, WarehouseID: w.ID, Quantity: 4, ActorID: env.actorID})
	require.NoError(t, err)

	_, err = env.pool.Exec(ctx, `UPDATE stock_movements SET quantity = 40 WHERE id = $1`, res.MovementID)
	assert.Error(t, err)
	_, err = env.pool.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, res.MovementID)
	assert.Error(t, err)

	_, err = env.pool.Exec(ctx, `UPDATE stock SET quantity = -1 WHERE product_id = $1`, p.ID)
	assert.Error(t, err, "CHECK (quantity >= 0)")

	err = postgres.NewProductRepository(env.pool).Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "producto con kardex no se borra")
}

func TestPostgres_RecepcionYDespacho(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	now := time.Now()
	p := env.product(t, "TUE-01", "Tuerca", 5)
	w := env.warehouse(t, "Principal")

	supplier := &entity.Supplier{ID: uuid.New().String(), TradeName: "Aceros del Norte", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewSupplierRepository(env.pool).Create(ctx, supplier))
	customer := &entity.Customer{ID: uuid.New().String(), Name: "Ferretería Sur", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewCustomerRepository(env.pool).Create(ctx, customer))

	tx := postgres.NewTxRunner(env.pool)
	repos := postgres.ReposFor(env.pool)
	stock := inventory.NewStockUseCase(tx, nil)
	purchases := orders.NewPurchaseOrderUseCase(tx, stock, repos.PurchaseOrders,
		postgres.NewSupplierRepository(env.pool), repos.Products, nil, nil, orders.Issuer{})
	sales := orders.NewSalesOrderUseCase(tx, stock, repos.SalesOrders, postgres.NewCustomerRepository(env.pool))

	po, err := purchases.Create(ctx, env.actorID, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		Lines:      []dto.PurchaseOrderLineRequest{{ProductID: p.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Positive(t, po.Number)

	_, err = purchases.Receive(ctx, po.ID, w.ID, env.actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = purchases.Approve(ctx, po.ID)
	require.NoError(t, err)
	received, err := purchases.Receive(ctx, po.ID, w.ID, env.actorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrderReceived), received.Status)
	assert.NotNil(t, received.ReceivedAt)

	so, err := sales.Create(ctx, env.actorID, dto.CreateSalesOrderRequest{
		CustomerID: customer.ID,
		Lines:      []dto.SalesOrderLineRequest{{ProductID: p.ID, Quantity: 12}},
	})
	require.NoError(t, err)
	_, err = sales.MarkPaid(ctx, so.ID)
	require.NoError(t, err)

	_, err = sales.Dispatch(ctx, so.ID, w.ID, env.actorID)
	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Line)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := sales.GetByID(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SalesOrderPaid), got.Status)

	err = postgres.NewSupplierRepository(env.pool).Delete(ctx, supplier.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "proveedor con órdenes no se borra")

	dash := postgres.NewAnalyticsRepository(env.pool)
	purchasesTotal, err := dash.PurchasesTotal(ctx)
	require.NoError(t, err)
	assert.True(t, purchasesTotal.Equal(decimal.NewFromInt(1000)), purchasesTotal.String())
}

func TestPostgres_BusquedaDeProductos(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	now := time.Now()
	cat := &entity.Category{ID: uuid.New().String(), Name: "Jardinería", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewCategoryRepository(env.pool).Create(ctx, cat))

	p := env.product(t, "CAF-01", "Café Orgánico", 0)
	p.CategoryID = &cat.ID
	p.SalePrice = decimal.NewFromInt(30)
	repo := postgres.NewProductRepository(env.pool)
	require.NoError(t, repo.Update(ctx, p))
	env.product(t, "MAN-01", "Manguera", 0)

	list, total, err := repo.List(ctx, repository.ProductFilter{Search: "cafe organico"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	_, total, err = repo.List(ctx, repository.ProductFilter{Search: "jardin"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "busca también por nombre de categoría")

	gt := decimal.NewFromInt(100)
	_, total, err = repo.List(ctx, repository.ProductFilter{PriceGT: &gt}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = repo.GetBySKU(ctx, "CAF-01")
	require.NoError(t, err)
	err = repo.Create(ctx, &entity.Product{ID: uuid.New().String(), SKU: "CAF-01", Name: "Otro", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, postgres.NewCategoryRepository(env.pool).Delete(ctx, cat.ID))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "la categoría borrada queda en NULL")

	missing, err := repo.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
