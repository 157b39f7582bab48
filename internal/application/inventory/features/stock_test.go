package features

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
)

const (
	actorID     = "00000000-0000-0000-0000-000000000001"
	warehouseID = "wh-1"
	supplierID  = "sup-1"
	customerID  = "cus-1"
)

type countingNotifier struct{ events []inventory.LowStockEvent }

func (n *countingNotifier) NotifyLowStock(_ context.Context, ev inventory.LowStockEvent) {
	n.events = append(n.events, ev)
}

type stockTestContext struct {
	store     *memory.Store
	stock     *inventory.StockUseCase
	purchases *orders.PurchaseOrderUseCase
	sales     *orders.SalesOrderUseCase
	notifier  *countingNotifier
	products  map[string]string // nombre -> id
	mainID    string
	orderID   string
	err       error
}

func (c *stockTestContext) reset() {
	c.store = memory.NewStore()
	c.notifier = &countingNotifier{}
	c.stock = inventory.NewStockUseCase(c.store, c.notifier)
	repos := c.store.Repos()
	c.purchases = orders.NewPurchaseOrderUseCase(c.store, c.stock, repos.PurchaseOrders,
		c.store.Suppliers(), repos.Products, nil, nil, orders.Issuer{})
	c.sales = orders.NewSalesOrderUseCase(c.store, c.stock, repos.SalesOrders, c.store.Customers())
	c.products = make(map[string]string)
	c.mainID = ""
	c.orderID = ""
	c.err = nil
}

func (c *stockTestContext) createProduct(name string, minStock int64) error {
	id := fmt.Sprintf("prod-%d", len(c.products)+1)
	now := time.Now()
	err := c.store.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: name, MinStock: minStock,
		CostPrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(15),
		UnitMeasure: entity.DefaultUnitMeasure, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	c.products[name] = id
	return nil
}

func (c *stockTestContext) aProductWithMinStock(name string, minStock int) error {
	if err := c.createProduct(name, int64(minStock)); err != nil {
		return err
	}
	c.mainID = c.products[name]
	return nil
}

func (c *stockTestContext) aWarehouse(name string) error {
	ctx := context.Background()
	now := time.Now()
	if err := c.store.Repos().Warehouses.Create(ctx, &entity.Warehouse{ID: warehouseID, Name: name, CreatedAt: now, UpdatedAt: now}); err != nil {
		return err
	}
	if err := c.store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, TradeName: "Ferretería Central"}); err != nil {
		return err
	}
	return c.store.Customers().Create(ctx, &entity.Customer{ID: customerID, Name: "Cliente Mostrador"})
}

func (c *stockTestContext) aSecondProductWithBalance(name string, qty int) error {
	if err := c.createProduct(name, 0); err != nil {
		return err
	}
	_, err := c.stock.Credit(context.Background(), inventory.StockMutation{
		ProductID: c.products[name], WarehouseID: warehouseID, Quantity: int64(qty), ActorID: actorID,
	})
	return err
}

func (c *stockTestContext) anInitialBalance(qty int) error {
	_, err := c.stock.Credit(context.Background(), c.mutation(qty))
	return err
}

func (c *stockTestContext) mutation(qty int) inventory.StockMutation {
	return inventory.StockMutation{ProductID: c.mainID, WarehouseID: warehouseID, Quantity: int64(qty), ActorID: actorID}
}

func (c *stockTestContext) iRegisterAnEntry(qty int) error {
	_, c.err = c.stock.Credit(context.Background(), c.mutation(qty))
	return nil
}

func (c *stockTestContext) iRegisterAnExit(qty int) error {
	_, c.err = c.stock.Debit(context.Background(), c.mutation(qty))
	return nil
}

func (c *stockTestContext) aPaidSalesOrder(qtyA int, nameA string, qtyB int, nameB string) error {
	ctx := context.Background()
	order, err := c.sales.Create(ctx, actorID, dto.CreateSalesOrderRequest{
		CustomerID: customerID,
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: c.products[nameA], Quantity: int64(qtyA)},
			{ProductID: c.products[nameB], Quantity: int64(qtyB)},
		},
	})
	if err != nil {
		return err
	}
	if _, err := c.sales.MarkPaid(ctx, order.ID); err != nil {
		return err
	}
	c.orderID = order.ID
	return nil
}

func (c *stockTestContext) iDispatchTheOrder() error {
	_, c.err = c.sales.Dispatch(context.Background(), c.orderID, warehouseID, actorID)
	return nil
}

func (c *stockTestContext) theOrderIsStillInStatus(status string) error {
	order, err := c.sales.GetByID(context.Background(), c.orderID)
	if err != nil {
		return err
	}
	if order.Status != status {
		return fmt.Errorf("estado esperado %s, obtenido %s", status, order.Status)
	}
	return nil
}

func (c *stockTestContext) purchaseOrder(approve bool, qty int, name string) error {
	ctx := context.Background()
	order, err := c.purchases.Create(ctx, actorID, dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines:      []dto.PurchaseOrderLineRequest{{ProductID: c.products[name], Quantity: int64(qty)}},
	})
	if err != nil {
		return err
	}
	if approve {
		if _, err := c.purchases.Approve(ctx, order.ID); err != nil {
			return err
		}
	}
	c.orderID = order.ID
	return nil
}

func (c *stockTestContext) aPendingPurchaseOrder(qty int, name string) error {
	return c.purchaseOrder(false, qty, name)
}

func (c *stockTestContext) anApprovedPurchaseOrder(qty int, name string) error {
	return c.purchaseOrder(true, qty, name)
}

func (c *stockTestContext) iReceiveThePurchaseOrder() error {
	_, c.err = c.purchases.Receive(context.Background(), c.orderID, warehouseID, actorID)
	return nil
}

func (c *stockTestContext) theOperationFailsWith(fragment string) error {
	if c.err == nil {
		return fmt.Errorf("se esperaba un error con %q", fragment)
	}
	if !strings.Contains(c.err.Error(), fragment) {
		return fmt.Errorf("el error %q no contiene %q", c.err.Error(), fragment)
	}
	return nil
}

func (c *stockTestContext) theBalanceIs(qty int) error {
	st, err := c.store.Repos().Stock.Get(context.Background(), c.mainID, warehouseID)
	if err != nil {
		return err
	}
	if st.Quantity != int64(qty) {
		return fmt.Errorf("saldo esperado %d, obtenido %d", qty, st.Quantity)
	}
	return nil
}

func (c *stockTestContext) mainMovements() ([]*entity.StockMovement, error) {
	list, _, err := c.store.Repos().Movements.List(context.Background(),
		repository.MovementFilter{ProductID: c.mainID}, 0, 0)
	return list, err
}

func (c *stockTestContext) theLedgerHasMovementsSumming(count, sum int) error {
	list, err := c.mainMovements()
	if err != nil {
		return err
	}
	var total int64
	for _, m := range list {
		total += m.Quantity
	}
	if len(list) != count || total != int64(sum) {
		return fmt.Errorf("kardex esperado %d movimientos/%d, obtenido %d/%d", count, sum, len(list), total)
	}
	return nil
}

func (c *stockTestContext) aLowStockNoticeWasSent(count, qty int) error {
	if len(c.notifier.events) != count {
		return fmt.Errorf("avisos esperados %d, obtenidos %d", count, len(c.notifier.events))
	}
	last := c.notifier.events[len(c.notifier.events)-1]
	if last.Quantity != int64(qty) {
		return fmt.Errorf("cantidad del aviso esperada %d, obtenida %d", qty, last.Quantity)
	}
	return nil
}

func (c *stockTestContext) theLastMovementHasReason(reason string) error {
	list, err := c.mainMovements()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("kardex vacío")
	}
	if list[0].Reason != reason {
		return fmt.Errorf("motivo esperado %q, obtenido %q", reason, list[0].Reason)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &stockTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Dado
	ctx.Step(`^un producto "([^"]*)" con stock mínimo (\d+)$`, tc.aProductWithMinStock)
	ctx.Step(`^una bodega "([^"]*)"$`, tc.aWarehouse)
	ctx.Step(`^un segundo producto "([^"]*)" con saldo (\d+)$`, tc.aSecondProductWithBalance)
	ctx.Step(`^un saldo inicial de (\d+) unidades$`, tc.anInitialBalance)
	ctx.Step(`^una orden de venta pagada con (\d+) "([^"]*)" y (\d+) "([^"]*)"$`, tc.aPaidSalesOrder)
	ctx.Step(`^una orden de compra pendiente con (\d+) "([^"]*)"$`, tc.aPendingPurchaseOrder)
	ctx.Step(`^una orden de compra aprobada con (\d+) "([^"]*)"$`, tc.anApprovedPurchaseOrder)

	// Cuando
	ctx.Step(`^registro una entrada de (\d+) unidades$`, tc.iRegisterAnEntry)
	ctx.Step(`^registro una salida de (\d+) unidades$`, tc.iRegisterAnExit)
	ctx.Step(`^despacho la orden$`, tc.iDispatchTheOrder)
	ctx.Step(`^recibo la orden de compra$`, tc.iReceiveThePurchaseOrder)

	// Entonces
	ctx.Step(`^la operación falla con "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^el saldo es (\d+)$`, tc.theBalanceIs)
	ctx.Step(`^el kardex tiene (\d+) movimientos que suman (-?\d+)$`, tc.theLedgerHasMovementsSumming)
	ctx.Step(`^se envió (\d+) aviso de stock bajo con cantidad (\d+)$`, tc.aLowStockNoticeWasSent)
	ctx.Step(`^la orden sigue en estado "([^"]*)"$`, tc.theOrderIsStillInStatus)
	ctx.Step(`^el último movimiento tiene motivo "([^"]*)"$`, tc.theLastMovementHasReason)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"stock.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("los escenarios de stock fallaron")
	}
}
