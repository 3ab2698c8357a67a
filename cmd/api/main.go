package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"

	"github.com/dukapoint/cloudsales-api/internal/application/service"
	"github.com/dukapoint/cloudsales-api/internal/config"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/database"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/etims"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/mpesa"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/repository"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/handler"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/routes"
	"github.com/dukapoint/cloudsales-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db, cfg.Inventory.AllowNegative)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize gateway adapters
	mpesaClient := mpesa.NewClient(cfg.Mpesa)
	offlineQueue := etims.NewQueue(cfg.Etims.QueuePath)
	transmitter := etims.NewTransmitter(cfg.Etims.APIURL, cfg.Etims.Timeout)

	// Initialize services
	etimsService := service.NewEtimsService(cfg.Etims, saleRepo, offlineQueue, transmitter, service.DefaultSignerLoader(cfg.Etims))
	checkoutService := service.NewCheckoutService(saleRepo, productRepo, customerRepo, etimsService)
	paymentService := service.NewPaymentService(paymentRepo, saleRepo, mpesaClient, etimsService)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Sale:      handler.NewSaleHandler(checkoutService, etimsService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Etims:     handler.NewEtimsHandler(etimsService),
		Product:   handler.NewProductHandler(productService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Customer:  handler.NewCustomerHandler(customerService),
	}

	// Background sweep of the offline fiscal queue
	if cfg.Etims.Enabled {
		scheduler := gocron.NewScheduler(time.UTC)
		if _, err := scheduler.Every(cfg.Etims.RetryInterval).Do(func() {
			result, err := etimsService.ProcessQueue(context.Background())
			if err != nil {
				log.Printf("offline queue sweep: %v", err)
				return
			}
			if result.Processed > 0 {
				log.Printf("offline queue sweep: %d transmitted, %d failed", result.Transmitted, result.Failed)
			}
		}); err != nil {
			log.Printf("Warning: failed to schedule queue sweep: %v", err)
		}
		scheduler.StartAsync()
	}

	// Setup router and start server
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
