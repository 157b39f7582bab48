package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	CustomerUC  *usecase.CustomerUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *inventory.StockUseCase
	QueryUC     *inventory.QueryUseCase
	PurchaseUC  *orders.PurchaseOrderUseCase
	SalesUC     *orders.SalesOrderUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Lecturas: cualquier usuario autenticado.
// Escrituras de catálogo, stock y órdenes: manager o admin. Ajustes y alta de usuarios: admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	elevated := RequireRole(entity.ElevatedRoles...)
	adminOnly := RequireRole(entity.RoleAdmin)

	users := protected.Group("/users")
	users.Get("/me", authHandler.Me)
	users.Post("/", adminOnly, authHandler.CreateUser)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", elevated, categoryHandler.Create)
	categories.Put("/:id", elevated, categoryHandler.Update)
	categories.Delete("/:id", elevated, categoryHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", elevated, supplierHandler.Create)
	suppliers.Put("/:id", elevated, supplierHandler.Update)
	suppliers.Delete("/:id", elevated, supplierHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", elevated, customerHandler.Create)
	customers.Put("/:id", elevated, customerHandler.Update)
	customers.Delete("/:id", elevated, customerHandler.Delete)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", elevated, warehouseHandler.Create)
	warehouses.Put("/:id", elevated, warehouseHandler.Update)
	warehouses.Delete("/:id", elevated, warehouseHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.QueryUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/", elevated, productHandler.Create)
	products.Put("/:id", elevated, productHandler.Update)
	products.Delete("/:id", elevated, productHandler.Delete)

	// Stock: única vía para mover saldos fuera de las órdenes
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.QueryUC)
	stock.Get("/", inventoryHandler.ListStock)
	stock.Get("/movements", inventoryHandler.ListMovements)
	stock.Post("/entry", elevated, inventoryHandler.Entry)
	stock.Post("/exit", elevated, inventoryHandler.Exit)
	stock.Post("/adjustment", adminOnly, inventoryHandler.Adjustment)

	protected.Get("/reports/low-stock", inventoryHandler.LowStockReport)

	purchases := protected.Group("/purchase-orders", elevated)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	purchases.Post("/", poHandler.Create)
	purchases.Get("/", poHandler.List)
	purchases.Get("/:id", poHandler.GetByID)
	purchases.Post("/:id/approve", poHandler.Approve)
	purchases.Post("/:id/cancel", poHandler.Cancel)
	purchases.Post("/:id/receive", poHandler.Receive)
	purchases.Get("/:id/pdf", poHandler.PDF)
	purchases.Get("/:id/ubl", poHandler.UBL)

	sales := protected.Group("/sales-orders", elevated)
	soHandler := NewSalesOrderHandler(deps.SalesUC)
	sales.Post("/", soHandler.Create)
	sales.Get("/", soHandler.List)
	sales.Get("/:id", soHandler.GetByID)
	sales.Post("/:id/checkout", soHandler.Checkout)
	sales.Post("/:id/pay", soHandler.Pay)
	sales.Post("/:id/cancel", soHandler.Cancel)
	sales.Post("/:id/dispatch", soHandler.Dispatch)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", elevated, dashboardHandler.GetSummary)
}
