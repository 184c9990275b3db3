// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/domain/catalogs/goods"
	"stockyard/internal/domain/catalogs/location"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/documents/asn"
	"stockyard/internal/domain/documents/dn"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/movement"
	"stockyard/internal/domain/recon/adjustment"
	"stockyard/internal/domain/recon/cyclecount"
	"stockyard/internal/domain/tasks/delivery"
	"stockyard/internal/domain/tasks/packing"
	"stockyard/internal/domain/tasks/picking"
	"stockyard/internal/domain/tasks/sorting"
	"stockyard/internal/infrastructure/http/v1/handlers"
	"stockyard/internal/infrastructure/http/v1/middleware"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockyard/internal/infrastructure/storage/postgres/document_repo"
	"stockyard/internal/infrastructure/storage/postgres/ledger_repo"
	"stockyard/internal/infrastructure/storage/postgres/movement_repo"
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (also used by health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router with the full API
// surface wired to PostgreSQL-backed services.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters).
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints sit outside the API group.
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Shared infrastructure.
	txManager := postgres.NewTxManager(cfg.Pool)
	changeStore, err := postgres.NewChangeStore(txManager)
	if err != nil {
		return nil, err
	}
	statusLogRepo := postgres.NewStatusLogRepo(txManager)
	num := numerator.NewService(postgres.NewNumeratorRepo(txManager))

	// Repositories.
	goodsRepo := catalog_repo.NewGoodsRepo(txManager)
	locationRepo := catalog_repo.NewLocationRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	stockRepo := ledger_repo.NewStockRepo(txManager)
	movementRepo := movement_repo.NewMovementRepo(txManager)
	asnRepo := document_repo.NewASNRepo(txManager)
	dnRepo := document_repo.NewDNRepo(txManager)
	sortingRepo := document_repo.NewSortingTaskRepo(txManager)
	pickingRepo := document_repo.NewPickingTaskRepo(txManager)
	packingRepo := document_repo.NewPackingTaskRepo(txManager)
	deliveryRepo := document_repo.NewDeliveryTaskRepo(txManager)
	cycleCountRepo := document_repo.NewCycleCountRepo(txManager)
	adjustmentRepo := document_repo.NewAdjustmentRepo(txManager)

	// Services.
	goodsService := goods.NewService(goodsRepo, txManager, num)
	locationService := location.NewService(locationRepo, txManager, num)
	warehouseService := warehouse.NewService(warehouseRepo, txManager, num)
	ledgerService := ledger.NewService(stockRepo)
	movementService := movement.NewService(movementRepo, ledgerService, goodsRepo, locationRepo, txManager)
	asnService := asn.NewService(asnRepo, statusLogRepo, changeStore, warehouseRepo, txManager, num)
	dnService := dn.NewService(dnRepo, statusLogRepo, changeStore, warehouseRepo, txManager, num)
	sortingService := sorting.NewService(sortingRepo, asnService, statusLogRepo, changeStore, txManager, num)
	pickingService := picking.NewService(pickingRepo, dnService, statusLogRepo, changeStore, txManager, num)
	packingService := packing.NewService(packingRepo, pickingService, statusLogRepo, changeStore, txManager, num)
	deliveryService := delivery.NewService(deliveryRepo, packingService, statusLogRepo, changeStore, txManager, num)
	cycleCountService := cyclecount.NewService(cycleCountRepo, ledgerService, goodsRepo, statusLogRepo, changeStore, txManager, num)
	adjustmentService := adjustment.NewService(adjustmentRepo, ledgerService, cycleCountService, statusLogRepo, changeStore, txManager, num)

	// Handlers.
	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		catalogs := api.Group("/catalogs")
		handlers.NewGoodsHandler(base, goodsService).RegisterRoutes(catalogs.Group("/goods"))
		handlers.NewLocationHandler(base, locationService).RegisterRoutes(catalogs.Group("/locations"))
		handlers.NewWarehouseHandler(base, warehouseService).RegisterRoutes(catalogs.Group("/warehouses"))

		handlers.NewStockHandler(base, ledgerService).RegisterRoutes(api.Group("/stock"))
		handlers.NewMovementHandler(base, movementService).RegisterRoutes(api.Group("/movements"))

		documents := api.Group("/documents")
		handlers.NewASNHandler(base, asnService, statusLogRepo).RegisterRoutes(documents.Group("/asn"))
		handlers.NewDNHandler(base, dnService, statusLogRepo).RegisterRoutes(documents.Group("/dn"))

		taskGroups := api.Group("/tasks")
		handlers.NewSortingTaskHandler(base, sortingService, statusLogRepo).RegisterRoutes(taskGroups.Group("/sorting"))
		handlers.NewPickingTaskHandler(base, pickingService, statusLogRepo).RegisterRoutes(taskGroups.Group("/picking"))
		handlers.NewPackingTaskHandler(base, packingService, statusLogRepo).RegisterRoutes(taskGroups.Group("/packing"))
		handlers.NewDeliveryTaskHandler(base, deliveryService, statusLogRepo).RegisterRoutes(taskGroups.Group("/delivery"))

		recon := api.Group("/recon")
		handlers.NewCycleCountHandler(base, cycleCountService, statusLogRepo).RegisterRoutes(recon.Group("/cycle-counts"))
		handlers.NewAdjustmentHandler(base, adjustmentService, statusLogRepo).RegisterRoutes(recon.Group("/adjustments"))

		handlers.NewAuditHandler(base, changeStore).RegisterRoutes(api.Group("/audit"))
	}

	return router, nil
}
