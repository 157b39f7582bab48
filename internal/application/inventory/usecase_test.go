package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
)

const (
	testActor     = "00000000-0000-0000-0000-000000000001"
	testProduct   = "prod-1"
	testWarehouse = "wh-1"
)

// recordingNotifier guarda los avisos recibidos.
type recordingNotifier struct {
	mu     sync.Mutex
	events []inventory.LowStockEvent
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, ev inventory.LowStockEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []inventory.LowStockEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]inventory.LowStockEvent(nil), n.events...)
}

// newFixture crea un store con un producto (mínimo minStock) y una bodega.
func newFixture(t *testing.T, minStock int64) (*memory.Store, *inventory.StockUseCase, *recordingNotifier) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: testProduct, SKU: "SKU-1", Name: "Tornillo", MinStock: minStock,
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(150),
		UnitMeasure: entity.DefaultUnitMeasure, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{
		ID: testWarehouse, Name: "Principal", CreatedAt: now, UpdatedAt: now,
	}))
	notifier := &recordingNotifier{}
	return store, inventory.NewStockUseCase(store, notifier), notifier
}

func mutation(qty int64) inventory.StockMutation {
	return inventory.StockMutation{ProductID: testProduct, WarehouseID: testWarehouse, Quantity: qty, ActorID: testActor}
}

func quantity(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	st, err := store.Repos().Stock.Get(context.Background(), testProduct, testWarehouse)
	require.NoError(t, err)
	return st.Quantity
}

func movements(t *testing.T, store *memory.Store) []*entity.StockMovement {
	t.Helper()
	list, _, err := store.Repos().Movements.List(context.Background(), repository.MovementFilter{}, 0, 0)
	require.NoError(t, err)
	return list
}

func TestCredit_CreaSaldoSiNoExiste(t *testing.T) {
	store, uc, _ := newFixture(t, 0)

	res, err := uc.Credit(context.Background(), mutation(7))
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.NewQuantity)
	assert.Equal(t, int64(7), quantity(t, store))
	movs := movements(t, store)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementEntry, movs[0].Kind)
	assert.Equal(t, int64(7), movs[0].Quantity)
	assert.Equal(t, inventory.DefaultEntryReason, movs[0].Reason)
	assert.Equal(t, testActor, movs[0].ActorID)
	assert.Equal(t, res.MovementID, movs[0].ID)
}

func TestCredit_CantidadNoPositiva(t *testing.T) {
	store, uc, _ := newFixture(t, 0)

	for _, q := range []int64{0, -3} {
		_, err := uc.Credit(context.Background(), mutation(q))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, movements(t, store))
}

func TestCredit_ProductoOBodegaInexistente(t *testing.T) {
	store, uc, _ := newFixture(t, 0)

	in := mutation(1)
	in.ProductID = "no-existe"
	_, err := uc.Credit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = mutation(1)
	in.WarehouseID = "no-existe"
	_, err = uc.Credit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, movements(t, store))
}

func TestDebit_SinSaldoPrevio(t *testing.T) {
	store, uc, _ := newFixture(t, 0)

	_, err := uc.Debit(context.Background(), mutation(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Tornillo")
	assert.Empty(t, movements(t, store))
}

func TestDebit_StockInsuficienteNoCambiaNada(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	_, err := uc.Credit(context.Background(), mutation(3))
	require.NoError(t, err)

	_, err = uc.Debit(context.Background(), mutation(5))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)
	assert.Equal(t, "Tornillo", ise.ProductName)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), quantity(t, store))
	assert.Len(t, movements(t, store), 1)
}

func TestDebit_SaldoExactoQuedaEnCero(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	_, err := uc.Credit(context.Background(), mutation(4))
	require.NoError(t, err)

	res, err := uc.Debit(context.Background(), mutation(4))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewQuantity)
	assert.Equal(t, int64(0), quantity(t, store))

	movs := movements(t, store)
	require.Len(t, movs, 2)
	// Más reciente primero.
	assert.Equal(t, entity.MovementExit, movs[0].Kind)
	assert.Equal(t, int64(-4), movs[0].Quantity)
	assert.Equal(t, inventory.DefaultExitReason, movs[0].Reason)
}

func TestDebit_ConcurrenteSobreMismoSaldo(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	_, err := uc.Credit(context.Background(), mutation(8))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Debit(context.Background(), mutation(5))
		}(i)
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
	assert.Equal(t, int64(3), quantity(t, store))
	assert.Len(t, movements(t, store), 2)
}

func TestKardexCuadraConSaldo(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	ctx := context.Background()

	_, err := uc.Credit(ctx, mutation(10))
	require.NoError(t, err)
	_, err = uc.Debit(ctx, mutation(4))
	require.NoError(t, err)
	_, err = uc.Adjust(ctx, inventory.StockAdjustment{
		ProductID: testProduct, WarehouseID: testWarehouse, Delta: -1, ActorID: testActor, Reason: "Merma",
	})
	require.NoError(t, err)
	_, err = uc.Debit(ctx, mutation(50))
	require.Error(t, err)

	var sum int64
	for _, m := range movements(t, store) {
		sum += m.Quantity
	}
	assert.Equal(t, quantity(t, store), sum)
	assert.Equal(t, int64(5), sum)
}

func TestAdjust(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	ctx := context.Background()
	_, err := uc.Credit(ctx, mutation(2))
	require.NoError(t, err)

	t.Run("sin motivo", func(t *testing.T) {
		_, err := uc.Adjust(ctx, inventory.StockAdjustment{ProductID: testProduct, WarehouseID: testWarehouse, Delta: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("delta cero", func(t *testing.T) {
		_, err := uc.Adjust(ctx, inventory.StockAdjustment{ProductID: testProduct, WarehouseID: testWarehouse, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("dejaría saldo negativo", func(t *testing.T) {
		_, err := uc.Adjust(ctx, inventory.StockAdjustment{
			ProductID: testProduct, WarehouseID: testWarehouse, Delta: -3, Reason: "Conteo",
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, int64(2), quantity(t, store))
	})
	t.Run("positivo", func(t *testing.T) {
		res, err := uc.Adjust(ctx, inventory.StockAdjustment{
			ProductID: testProduct, WarehouseID: testWarehouse, Delta: 5, Reason: "Conteo físico",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), res.NewQuantity)
		assert.Equal(t, entity.MovementAdjustment, movements(t, store)[0].Kind)
	})
}

func TestNotificacionStockBajo(t *testing.T) {
	_, uc, notifier := newFixture(t, 10)
	ctx := context.Background()

	// 12 > 10: sin aviso.
	_, err := uc.Credit(ctx, mutation(12))
	require.NoError(t, err)
	assert.Empty(t, notifier.all())

	_, err = uc.Debit(ctx, mutation(3))
	require.NoError(t, err)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, int64(9), events[0].Quantity)
	assert.Equal(t, int64(10), events[0].MinStock)
	assert.Equal(t, "Tornillo", events[0].ProductName)
	assert.Equal(t, "Principal", events[0].WarehouseName)
}

func TestNotificacion_NoSeEnviaSiFallaLaTransaccion(t *testing.T) {
	_, uc, notifier := newFixture(t, 10)
	ctx := context.Background()
	_, err := uc.Credit(ctx, mutation(2))
	require.NoError(t, err)
	before := len(notifier.all())

	_, err = uc.Debit(ctx, mutation(5))
	require.Error(t, err)
	assert.Len(t, notifier.all(), before)
}

func TestLowStockReport(t *testing.T) {
	store, uc, _ := newFixture(t, 5)
	ctx := context.Background()
	query := inventory.NewQueryUseCase(store.Repos().Stock, store.Repos().Movements, store.Repos().Products)

	report, err := query.LowStockReport(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.Equal(t, inventory.EmptyLowStockMessage, report.Message)

	require.NoError(t, store.Repos().Products.Create(ctx, &entity.Product{
		ID: "prod-2", SKU: "SKU-2", Name: "Arandela", MinStock: 20,
	}))
	_, err = uc.Credit(ctx, mutation(5))
	require.NoError(t, err)
	in := mutation(2)
	in.ProductID = "prod-2"
	_, err = uc.Credit(ctx, in)
	require.NoError(t, err)

	report, err = query.LowStockReport(ctx, testWarehouse)
	require.NoError(t, err)
	assert.Empty(t, report.Message)
	require.Len(t, report.Items, 2)
	// Mayor déficit primero: Arandela (18) antes que Tornillo (0).
	assert.Equal(t, "Arandela", report.Items[0].ProductName)
	assert.Equal(t, int64(2), report.Items[0].Quantity)
	assert.Equal(t, "Tornillo", report.Items[1].ProductName)

	report, err = query.LowStockReport(ctx, "otra-bodega")
	require.NoError(t, err)
	assert.Empty(t, report.Items)
}

func TestListMovements_KindInvalido(t *testing.T) {
	store, _, _ := newFixture(t, 0)
	query := inventory.NewQueryUseCase(store.Repos().Stock, store.Repos().Movements, store.Repos().Products)

	_, err := query.ListMovements(context.Background(), repository.MovementFilter{Kind: "TRANSFER"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductHistory(t *testing.T) {
	store, uc, _ := newFixture(t, 0)
	ctx := context.Background()
	query := inventory.NewQueryUseCase(store.Repos().Stock, store.Repos().Movements, store.Repos().Products)

	_, err := query.ProductHistory(ctx, "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err := uc.Credit(ctx, mutation(1))
		require.NoError(t, err)
	}
	page, err := query.ProductHistory(ctx, testProduct, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)
}
