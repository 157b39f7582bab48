package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	infraubl "github.com/jhoicas/stockflow-api/internal/infrastructure/ubl"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"

	_ "github.com/jhoicas/stockflow-api/docs"
)

// @title                       StockFlow API
// @version                     1.0
// @description                 Inventario multi-bodega con kardex, órdenes de compra y de venta.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseOrderRepo := postgres.NewPurchaseOrderRepository(pool)
	salesOrderRepo := postgres.NewSalesOrderRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Avisos de stock bajo: asíncronos, después del commit.
	notifier := webhook.New(cfg.Webhook.URL, cfg.Webhook.Timeout)
	stockUC := inventory.NewStockUseCase(txRunner, notifier)
	queryUC := inventory.NewQueryUseCase(stockRepo, movementRepo, productRepo)

	issuer := orders.Issuer{
		Name:    cfg.Company.Name,
		TaxID:   cfg.Company.TaxID,
		Address: cfg.Company.Address,
		Email:   cfg.Company.Email,
	}
	purchaseUC := orders.NewPurchaseOrderUseCase(
		txRunner, stockUC, purchaseOrderRepo, supplierRepo, productRepo,
		infrapdf.NewPurchaseOrderPDF(), infraubl.NewOrderXML(cfg.Company.Currency), issuer,
	)
	salesUC := orders.NewSalesOrderUseCase(txRunner, stockUC, salesOrderRepo, customerRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo),
		SupplierUC:  usecase.NewSupplierUseCase(supplierRepo),
		CustomerUC:  usecase.NewCustomerUseCase(customerRepo),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo),
		StockUC:     stockUC,
		QueryUC:     queryUC,
		PurchaseUC:  purchaseUC,
		SalesUC:     salesUC,
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Espera los avisos en vuelo antes de cerrar el pool.
	if err := notifier.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("avisos de stock bajo pendientes al apagar")
	}

	log.Info().Msg("aplicación detenida")
}
