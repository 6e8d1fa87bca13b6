package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice-service/internal/handler"
	mid "backoffice-service/internal/middleware"
	"backoffice-service/internal/model"
	"backoffice-service/internal/report"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
	"backoffice-service/pkg/config"
	"backoffice-service/pkg/database"
	"backoffice-service/pkg/jwtutil"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "backoffice",
		Usage: "small-business back-office REST service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "run database migrations and exit",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, the logger, metrics and the database connection
func bootstrap() (*config.Config, *gorm.DB, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}

	if err := logger.InitLogger(appConfig); err != nil {
		return nil, nil, errors.Wrap(err, "initialize logger")
	}
	log := logger.GetLogger()

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database connection established", zap.String("driver", appConfig.DB.Driver))

	if err := database.MigrateModels(model.AllModels()...); err != nil {
		return nil, nil, err
	}
	log.Info("Database migrations applied")

	return appConfig, db, nil
}

func migrate(_ *cli.Context) error {
	_, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.GetLogger().Sync()
	return database.Close()
}

func serve(_ *cli.Context) error {
	appConfig, db, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.GetLogger()
	defer log.Sync()
	defer database.Close()

	log.Info("Starting backoffice-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	jwtUtil := jwtutil.NewJWTUtil(&appConfig.JWT)

	reportDB, err := database.SQLX(db, appConfig.DB.Driver)
	if err != nil {
		return err
	}
	reports := report.NewService(report.NewSource(reportDB), report.NewPDFRenderer(&appConfig.Report))

	customerRepo := repository.NewCustomerRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	storeItemRepo := repository.NewStoreItemRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	tx := database.NewTransactor(db)

	products := service.NewProductService(productRepo)
	handlers := handler.Handlers{
		Customer:  handler.NewCustomerHandler(service.NewCustomerService(customerRepo), reports),
		Employee:  handler.NewEmployeeHandler(service.NewEmployeeService(employeeRepo)),
		Supplier:  handler.NewSupplierHandler(service.NewSupplierService(supplierRepo)),
		Product:   handler.NewProductHandler(products, reports),
		StoreItem: handler.NewStoreItemHandler(service.NewStoreItemService(storeItemRepo), reports),
		Sale: handler.NewSaleHandler(
			service.NewSaleService(saleRepo, customerRepo, employeeRepo, products, tx), reports),
		Purchase: handler.NewPurchaseHandler(
			service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, tx), reports),
		PurchaseDetail: handler.NewPurchaseDetailHandler(
			service.NewPurchaseDetailService(repository.NewPurchaseDetailRepository(db), purchaseRepo)),
		Expense: handler.NewExpenseHandler(
			service.NewExpenseService(repository.NewExpenseRepository(db), employeeRepo)),
		Lookup: handler.NewLookupHandler(
			service.NewLocationService(repository.NewLocationRepository(db)),
			service.NewPositionService(repository.NewPositionRepository(db))),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(
			repository.NewDashboardRepository(db), saleRepo, customerRepo, employeeRepo, productRepo, storeItemRepo)),
		Auth: handler.NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), jwtUtil)),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	handler.RegisterRoutes(e, handlers, mid.JWTAuthMiddleware(jwtUtil))

	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
