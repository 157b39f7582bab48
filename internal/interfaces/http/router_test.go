package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/ubl"
	apphttp "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stockflow-api/pkg/jwt"
)

const (
	adminEmail    = "admin@stockflow.test"
	adminPassword = "secreto-123"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	require.NoError(t, authUC.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	stockUC := inventory.NewStockUseCase(store, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store.Users()),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories()),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers()),
		CustomerUC:  usecase.NewCustomerUseCase(store.Customers()),
		WarehouseUC: usecase.NewWarehouseUseCase(repos.Warehouses),
		ProductUC:   usecase.NewProductUseCase(repos.Products, store.Categories(), store.Suppliers()),
		StockUC:     stockUC,
		QueryUC:     inventory.NewQueryUseCase(repos.Stock, repos.Movements, repos.Products),
		PurchaseUC: orders.NewPurchaseOrderUseCase(store, stockUC, repos.PurchaseOrders, store.Suppliers(), repos.Products,
			pdf.NewPurchaseOrderPDF(), ubl.NewOrderXML(""), orders.Issuer{Name: "StockFlow S.A.S."}),
		SalesUC:     orders.NewSalesOrderUseCase(store, stockUC, repos.SalesOrders, store.Customers()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:   testJWTSecret,
	})
	return &apiFixture{app: app, store: store}
}

// call envía la petición y decodifica el cuerpo JSON (si lo hay).
func (f *apiFixture) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (f *apiFixture) create(t *testing.T, path, token string, body interface{}) string {
	t.Helper()
	status, out := f.call(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, status, out)
	return out["id"].(string)
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func TestAPI_FlujoDeStock(t *testing.T) {
	f := newAPI(t)
	admin := f.login(t, adminEmail, adminPassword)

	whID := f.create(t, "/api/warehouses", admin, map[string]interface{}{"name": "Principal"})
	prodID := f.create(t, "/api/products", admin, map[string]interface{}{
		"sku": "TOR-01", "name": "Tornillo", "cost_price": "10", "sale_price": "15", "min_stock": 5,
	})
	move := func(path string, qty int) (int, map[string]interface{}) {
		return f.call(t, http.MethodPost, path, admin, map[string]interface{}{
			"product_id": prodID, "warehouse_id": whID, "quantity": qty,
		})
	}

	status, body := move("/api/stock/entry", 8)
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 8, body["new_quantity"])
	assert.NotEmpty(t, body["movement_id"])

	status, body = move("/api/stock/exit", 10)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	status, body = move("/api/stock/exit", 4)
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 4, body["new_quantity"])

	status, body = f.call(t, http.MethodGet, "/api/reports/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].(map[string]interface{})["current_quantity"])

	status, body = f.call(t, http.MethodGet, "/api/products/"+prodID+"/movements", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["page"].(map[string]interface{})["total"])

	status, body = f.call(t, http.MethodDelete, "/api/products/"+prodID, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestAPI_Validacion(t *testing.T) {
	f := newAPI(t)
	status, body := f.call(t, http.MethodPost, "/api/stock/entry", tokenFor(t, "manager"), map[string]interface{}{
		"product_id": "p", "warehouse_id": "w", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, "gt", body["fields"].(map[string]interface{})["quantity"])

	status, body = f.call(t, http.MethodGet, "/api/products?price_gt=abc", tokenFor(t, "user"), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_Roles(t *testing.T) {
	f := newAPI(t)

	status, _ := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@stockflow.test", "password": "clave-segura",
	})
	require.Equal(t, http.StatusCreated, status)
	user := f.login(t, "ana@stockflow.test", "clave-segura")

	status, _ = f.call(t, http.MethodGet, "/api/products", user, nil)
	assert.Equal(t, http.StatusOK, status, "lecturas abiertas a cualquier autenticado")

	status, body := f.call(t, http.MethodPost, "/api/stock/entry", user, map[string]interface{}{
		"product_id": "p", "warehouse_id": "w", "quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = f.call(t, http.MethodPost, "/api/stock/adjustment", tokenFor(t, "manager"), map[string]interface{}{
		"product_id": "p", "warehouse_id": "w", "delta": -1, "reason": "conteo",
	})
	assert.Equal(t, http.StatusForbidden, status, "ajustes sólo admin")

	status, _ = f.call(t, http.MethodGet, "/api/dashboard", user, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.call(t, http.MethodGet, "/api/dashboard", tokenFor(t, "manager"), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.call(t, http.MethodGet, "/api/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_LoginUniforme(t *testing.T) {
	f := newAPI(t)
	status1, body1 := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "incorrecta"})
	status2, body2 := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadie@stockflow.test", "password": "incorrecta"})

	assert.Equal(t, http.StatusUnauthorized, status1)
	assert.Equal(t, status1, status2)
	assert.Equal(t, body1, body2, "email desconocido y password incorrecto responden igual")
}

func TestAPI_NoEncontradoYReporteVacio(t *testing.T) {
	f := newAPI(t)
	tok := tokenFor(t, "user")

	status, body := f.call(t, http.MethodGet, "/api/products/no-existe", tok, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = f.call(t, http.MethodGet, "/api/reports/low-stock", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, inventory.EmptyLowStockMessage, body["message"])
	assert.Empty(t, body["items"])
}

func TestAPI_OrdenDeCompraExportaUBL(t *testing.T) {
	f := newAPI(t)
	admin := f.login(t, adminEmail, adminPassword)

	supID := f.create(t, "/api/suppliers", admin, map[string]interface{}{"trade_name": "Aceros", "tax_id": "800111222"})
	prodID := f.create(t, "/api/products", admin, map[string]interface{}{
		"sku": "ARA-01", "name": "Arandela", "cost_price": "2.50", "sale_price": "4",
	})
	poID := f.create(t, "/api/purchase-orders", admin, map[string]interface{}{
		"supplier_id": supID,
		"lines":       []map[string]interface{}{{"product_id": prodID, "quantity": 4}},
	})

	status, body := f.call(t, http.MethodPost, "/api/purchase-orders/"+poID+"/receive", admin, map[string]string{"warehouse_id": "x"})
	assert.Equal(t, http.StatusConflict, status, "una orden pendiente no se recibe")
	assert.Equal(t, "INVALID_STATE", body["code"])

	req := httptest.NewRequest(http.MethodGet, "/api/purchase-orders/"+poID+"/ubl", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "<Order")
	assert.Contains(t, string(raw), "10.00")
}
