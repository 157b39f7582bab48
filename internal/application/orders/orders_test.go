package orders_test

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
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
)

const (
	actor     = "00000000-0000-0000-0000-000000000001"
	warehouse = "wh-1"
	supplier  = "sup-1"
	customer  = "cus-1"
	tornillo  = "prod-tornillo"
	arandela  = "prod-arandela"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []inventory.LowStockEvent
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, ev inventory.LowStockEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

// fakeRenderer devuelve el nombre del proveedor como documento.
type fakeRenderer struct{ last *orders.PurchaseOrderDocument }

func (r *fakeRenderer) Render(doc *orders.PurchaseOrderDocument) ([]byte, error) {
	r.last = doc
	return []byte(doc.Supplier.TradeName), nil
}

type fixture struct {
	store     *memory.Store
	stock     *inventory.StockUseCase
	purchases *orders.PurchaseOrderUseCase
	sales     *orders.SalesOrderUseCase
	notifier  *recordingNotifier
	renderer  *fakeRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Now()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: warehouse, Name: "Principal", CreatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: tornillo, SKU: "TOR-1", Name: "Tornillo", MinStock: 10,
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(180),
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: arandela, SKU: "ARA-1", Name: "Arandela", MinStock: 0,
		CostPrice: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(35),
	}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplier, TradeName: "Ferretería Central"}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: customer, Name: "Cliente Mostrador"}))

	notifier := &recordingNotifier{}
	renderer := &fakeRenderer{}
	stock := inventory.NewStockUseCase(store, notifier)
	return &fixture{
		store:     store,
		stock:     stock,
		notifier:  notifier,
		renderer:  renderer,
		purchases: orders.NewPurchaseOrderUseCase(store, stock, repos.PurchaseOrders, store.Suppliers(), repos.Products,
			renderer, nil, orders.Issuer{Name: "StockFlow S.A.S."}),
		sales: orders.NewSalesOrderUseCase(store, stock, repos.SalesOrders, store.Customers()),
	}
}

func (f *fixture) credit(t *testing.T, productID string, qty int64) {
	t.Helper()
	_, err := f.stock.Credit(context.Background(), inventory.StockMutation{
		ProductID: productID, WarehouseID: warehouse, Quantity: qty, ActorID: actor,
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, productID string) int64 {
	t.Helper()
	st, err := f.store.Repos().Stock.Get(context.Background(), productID, warehouse)
	if errors.Is(err, domain.ErrNotFound) {
		return 0
	}
	require.NoError(t, err)
	return st.Quantity
}

func (f *fixture) paidOrder(t *testing.T, lines ...dto.SalesOrderLineRequest) *dto.SalesOrderResponse {
	t.Helper()
	ctx := context.Background()
	order, err := f.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{CustomerID: customer, Lines: lines})
	require.NoError(t, err)
	order, err = f.sales.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	return order
}

func TestPurchaseOrder_CreateCapturaCosto(t *testing.T) {
	f := newFixture(t)
	custom := decimal.NewFromInt(90)

	order, err := f.purchases.Create(context.Background(), actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier,
		Lines: []dto.PurchaseOrderLineRequest{
			{ProductID: tornillo, Quantity: 2},
			{ProductID: arandela, Quantity: 10, UnitCost: &custom},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.Number)
	assert.Equal(t, string(entity.PurchaseOrderPending), order.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(order.Lines[0].UnitCost))
	assert.True(t, custom.Equal(order.Lines[1].UnitCost))
	assert.True(t, decimal.NewFromInt(1100).Equal(order.Total), "total: %s", order.Total)

	// Cambiar el costo del producto no altera la orden.
	p, err := f.store.Repos().Products.GetByID(context.Background(), tornillo)
	require.NoError(t, err)
	p.CostPrice = decimal.NewFromInt(999)
	require.NoError(t, f.store.Repos().Products.Update(context.Background(), p))
	again, err := f.purchases.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(again.Lines[0].UnitCost))
}

func TestPurchaseOrder_CreateValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{SupplierID: supplier})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: "no-existe", Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier, Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.purchases.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestPurchaseOrder_ReceiveSoloDesdeApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier, Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.purchases.Receive(ctx, order.ID, warehouse, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(0), f.balance(t, tornillo))

	_, err = f.purchases.Approve(ctx, order.ID)
	require.NoError(t, err)
	received, err := f.purchases.Receive(ctx, order.ID, warehouse, actor)
	require.NoError(t, err)

	assert.Equal(t, string(entity.PurchaseOrderReceived), received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, int64(5), f.balance(t, tornillo))

	movs, _, err := f.store.Repos().Movements.List(ctx, repository.MovementFilter{ProductID: tornillo}, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Recepción de la orden de compra #1", movs[0].Reason)

	// 5 <= 10: la recepción también avisa.
	assert.Len(t, f.notifier.events, 1)

	_, err = f.purchases.Receive(ctx, order.ID, warehouse, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(5), f.balance(t, tornillo))
}

func TestPurchaseOrder_ReceiveBodegaInexistenteRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier, Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 5}},
	})
	require.NoError(t, err)
	_, err = f.purchases.Approve(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.purchases.Receive(ctx, order.ID, "no-existe", actor)
	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Line)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	again, err := f.purchases.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrderApproved), again.Status)
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier, Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := f.purchases.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrderCancelled), cancelled.Status)

	_, err = f.purchases.Approve(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.purchases.Cancel(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.purchases.List(ctx, string(entity.PurchaseOrderCancelled), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	_, err = f.purchases.List(ctx, "ENVIADA", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseOrder_Documentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.purchases.Create(ctx, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: supplier, Lines: []dto.PurchaseOrderLineRequest{{ProductID: tornillo, Quantity: 1}},
	})
	require.NoError(t, err)

	out, err := f.purchases.RenderPDF(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ferretería Central", string(out))
	require.NotNil(t, f.renderer.last)
	assert.Equal(t, "Tornillo", f.renderer.last.Products[tornillo].Name)
	assert.Equal(t, "StockFlow S.A.S.", f.renderer.last.Issuer.Name)

	_, err = f.purchases.ExportUBL(ctx, order.ID)
	assert.Error(t, err, "sin renderer UBL configurado")

	_, err = f.purchases.RenderPDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesOrder_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, tornillo, 12)

	order, err := f.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerID: customer, Cart: true,
		Lines: []dto.SalesOrderLineRequest{{ProductID: tornillo, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SalesOrderCart), order.Status)
	assert.True(t, decimal.NewFromInt(540).Equal(order.Total))

	_, err = f.sales.MarkPaid(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un carrito no se paga sin checkout")

	order, err = f.sales.Checkout(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SalesOrderAwaitingPayment), order.Status)

	_, err = f.sales.Dispatch(ctx, order.ID, warehouse, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin pago no hay despacho")
	assert.Equal(t, int64(12), f.balance(t, tornillo))

	order, err = f.sales.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, order.PaidAt)

	order, err = f.sales.Dispatch(ctx, order.ID, warehouse, actor)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SalesOrderDispatched), order.Status)
	require.NotNil(t, order.DispatchedAt)
	assert.Equal(t, int64(9), f.balance(t, tornillo))

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, int64(9), f.notifier.events[0].Quantity)

	movs, _, err := f.store.Repos().Movements.List(ctx, repository.MovementFilter{Kind: string(entity.MovementExit)}, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Salida por venta #1", movs[0].Reason)

	_, err = f.sales.Cancel(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSalesOrder_DespachoParcialRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, tornillo, 20)
	f.credit(t, arandela, 1)

	order := f.paidOrder(t,
		dto.SalesOrderLineRequest{ProductID: tornillo, Quantity: 2},
		dto.SalesOrderLineRequest{ProductID: arandela, Quantity: 4},
	)

	_, err := f.sales.Dispatch(ctx, order.ID, warehouse, actor)

	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)
	assert.Equal(t, "Arandela", le.ProductName)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(1), ise.Available)

	assert.Equal(t, int64(20), f.balance(t, tornillo))
	assert.Equal(t, int64(1), f.balance(t, arandela))
	again, err := f.sales.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SalesOrderPaid), again.Status)
	assert.Nil(t, again.DispatchedAt)
	assert.Empty(t, f.notifier.events)
}

func TestSalesOrder_DespachoSinSaldoEnBodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.paidOrder(t, dto.SalesOrderLineRequest{ProductID: tornillo, Quantity: 1})

	_, err := f.sales.Dispatch(ctx, order.ID, warehouse, actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "Tornillo", le.ProductName)
}

func TestSalesOrder_DespachoConcurrente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, tornillo, 8)
	a := f.paidOrder(t, dto.SalesOrderLineRequest{ProductID: tornillo, Quantity: 5})
	b := f.paidOrder(t, dto.SalesOrderLineRequest{ProductID: tornillo, Quantity: 5})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.sales.Dispatch(ctx, id, warehouse, actor)
		}(i, id)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, int64(3), f.balance(t, tornillo))
}

func TestSalesOrder_CreateValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerID: "no-existe", Lines: []dto.SalesOrderLineRequest{{ProductID: tornillo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerID: customer, Lines: []dto.SalesOrderLineRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	negative := decimal.NewFromInt(-1)
	_, err = f.sales.Create(ctx, actor, dto.CreateSalesOrderRequest{
		CustomerID: customer, Lines: []dto.SalesOrderLineRequest{{ProductID: tornillo, Quantity: 1, UnitPrice: &negative}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sales.Dispatch(ctx, "cualquiera", "", actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
