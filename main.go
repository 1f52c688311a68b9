package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brutarie/internal/cache"
	"brutarie/internal/config"
	"brutarie/internal/email"
	"brutarie/internal/handlers"
	"brutarie/internal/middleware"
	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/services"
	"brutarie/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Bakery{},
		&models.Employee{},
		&models.Vehicle{},
		&models.Promotion{},
		&models.ContactMessage{},
		&models.Capability{},
		&models.UserCapability{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	promotionRepo := repositories.NewGORMPromotionRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	capabilityRepo := repositories.NewGORMCapabilityRepository(db)

	// The capability registry must exist before any grant can reference it.
	if err := capabilityRepo.Seed([]models.Capability{
		{Codename: models.CapabilityViewOffer, Name: "Can view special offer"},
		{Codename: models.CapabilityAddProduct, Name: "Can add product"},
	}); err != nil {
		log.Fatalf("Failed to seed capability registry: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Without a broker, confirmation emails fall back to synchronous logging
	// inside the auth service.
	var publisher services.EmailPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		zlog, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer zlog.Sync()

		var mailer email.Mailer = email.NewLogMailer(zlog)
		if cfg.SMTPAddr != "" {
			mailer = email.NewSMTPMailer(cfg.SMTPAddr)
		}
		if err := mqClient.ConsumeEmailRequests(mailer); err != nil {
			log.Fatalf("Failed to start email consumer: %v", err)
		}
	}

	// --- Services ---
	store := cache.New(15 * time.Minute)
	authService := services.NewAuthService(userRepo, publisher, cfg.JWTSecret, cfg.BaseURL, cfg.EmailFrom)
	productService := services.NewProductService(productRepo, catalogRepo, store)
	promotionService := services.NewPromotionService(promotionRepo, productRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	contactService := services.NewContactService(contactRepo)
	offerService := services.NewOfferService(capabilityRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, offerService)
	productHandler := handlers.NewProductHandler(productService, offerService)
	offerHandler := handlers.NewOfferHandler(offerService)
	contactHandler := handlers.NewContactHandler(contactService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, promotionService)
	sitemapHandler := handlers.NewSitemapHandler(productService, catalogService, promotionService, cfg.BaseURL)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, authRequired)
	productHandler.RegisterRoutes(apiV1, authRequired)
	offerHandler.RegisterRoutes(apiV1, authRequired, optionalAuth)
	contactHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1, authRequired)
	sitemapHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase picks the driver from the DSN shape: anything that looks like
// a Postgres connection string uses Postgres, everything else is a SQLite
// file path.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
