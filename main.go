package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lapak/internal/config"
	"lapak/internal/handlers"
	"lapak/internal/logging"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/notifications"
	"lapak/internal/repositories"
	"lapak/internal/services"
	"lapak/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := logging.L()
	defer logging.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	// The notification queue is best-effort end to end: when the broker is
	// down the store keeps taking orders, just without emails.
	var notifier notifications.Notifier
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, notifications disabled", zap.Error(err))
	} else {
		defer mqClient.Close()
		notifier = notifications.NewQueue(mqClient, logger)
		if err := mqClient.Consume(handleNotification(logger)); err != nil {
			logger.Warn("failed to start notification consumer", zap.Error(err))
		}
	}

	seedCatalog(db, logger)

	app := newApp(cfg, db, notifier, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

// openDatabase connects per the configured driver and migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		dialector = postgres.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.SalesData{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// newApp wires repositories, services, handlers, and routes into a Fiber
// app. notifier may be nil.
func newApp(cfg *config.Config, db *gorm.DB, notifier notifications.Notifier, logger *zap.Logger) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	salesRepo := repositories.NewGORMSalesDataRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger)
	productService := services.NewProductService(productRepo, categoryRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, notifier, logger)
	reportService := services.NewReportService(orderRepo, salesRepo, userRepo, productRepo, logger)

	app := fiber.New()
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes: auth, catalog, cart validation
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(apiV1)
	handlers.NewCartHandler(productService, logger).RegisterRoutes(apiV1)

	apiV1.Get("/contact", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"site_name":     cfg.SiteName,
			"contact_email": cfg.ContactEmail,
			"contact_phone": cfg.ContactPhone,
			"address":       cfg.Address,
		})
	})

	// Buyer routes require a login
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewOrderHandler(orderService, logger).RegisterRoutes(protected)

	// Dashboard routes additionally require the seller role
	seller := protected.Group("", middleware.SellerRequired())
	handlers.NewDashboardHandler(orderService, productService, reportService, logger).RegisterRoutes(seller)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"site":   cfg.SiteName,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// handleNotification is the queue consumer: it hands envelopes to the
// email transport. Malformed messages are dropped rather than requeued.
func handleNotification(logger *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var env notifications.Envelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			logger.Error("dropping malformed notification", zap.Error(err))
			return nil
		}
		logger.Info("dispatching email notification",
			zap.String("kind", string(env.Kind)),
			zap.String("order_id", env.OrderID),
			zap.String("email", env.Email))
		return nil
	}
}

// seedCatalog populates an empty database with a starter catalog.
func seedCatalog(db *gorm.DB, logger *zap.Logger) {
	productRepo := repositories.NewGORMProductRepository(db)
	if count, err := productRepo.Count(); err != nil || count > 0 {
		return
	}

	categoryRepo := repositories.NewGORMCategoryRepository(db)
	sweet := models.Category{Name: "Sweet Martabak", Slug: "sweet-martabak"}
	savory := models.Category{Name: "Savory Martabak", Slug: "savory-martabak"}
	drinks := models.Category{Name: "Drinks", Slug: "drinks"}
	for _, category := range []*models.Category{&sweet, &savory, &drinks} {
		if err := categoryRepo.Create(category); err != nil {
			logger.Warn("failed to seed category", zap.String("name", category.Name), zap.Error(err))
		}
	}

	products := []models.Product{
		{Name: "Chocolate Cheese Martabak", Slug: "chocolate-cheese-martabak", CategoryID: sweet.ID,
			Description: "Thick sweet martabak with chocolate and cheese", Price: decimal.NewFromFloat(65000), Stock: 20},
		{Name: "Peanut Martabak", Slug: "peanut-martabak", CategoryID: sweet.ID,
			Description: "Classic sweet martabak with crushed peanuts", Price: decimal.NewFromFloat(55000), Stock: 20},
		{Name: "Beef Egg Martabak", Slug: "beef-egg-martabak", CategoryID: savory.ID,
			Description: "Savory martabak with minced beef and duck egg", Price: decimal.NewFromFloat(75000), Stock: 15},
		{Name: "Sweet Iced Tea", Slug: "sweet-iced-tea", CategoryID: drinks.ID,
			Description: "House-brewed iced tea", Price: decimal.NewFromFloat(10000), Stock: 50},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			logger.Warn("failed to seed product", zap.String("name", products[i].Name), zap.Error(err))
		} else {
			logger.Info("seeded product", zap.String("name", products[i].Name))
		}
	}
}
