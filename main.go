package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"storefront/internal/clients"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

const (
	outboundTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

// App is the wired storefront service.
type App struct {
	Fiber    *fiber.App
	Sessions *services.SessionStore
	Catalog  *services.CatalogService

	cfg *config.Config
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// NewApp wires repositories, services and handlers from cfg and loads the
// catalogue once.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Events (optional) ---
	var mqClient *rabbitmq.Client
	var publisher services.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: order events disabled: %v", err)
			mqClient = nil
		} else {
			publisher = mqClient
		}
	}

	// --- Catalogue ---
	var feed services.FeedClient
	if cfg.CatalogFeedURL != "" {
		feed = clients.NewSheetFeedClient(cfg.CatalogFeedURL, outboundTimeout)
	}
	catalog := services.NewCatalogService(productRepo, feed)

	// --- Order sinks and lookup ---
	var sheet *clients.SheetOrderClient
	if cfg.OrderSinkURL != "" {
		mode, err := clients.ParseSinkMode(cfg.OrderSinkMode)
		if err != nil {
			return nil, err
		}
		sheet = clients.NewSheetOrderClient(cfg.OrderSinkURL, mode, outboundTimeout)
	}

	var sinks []services.OrderSink
	for _, name := range cfg.OrderSinks {
		switch name {
		case config.SinkDatabase:
			sinks = append(sinks, services.NewRepositorySink(orderRepo))
		case config.SinkSheet:
			sinks = append(sinks, sheet)
		}
	}

	var lookup services.OrderLookup
	var statusRepo repositories.OrderRepository
	switch {
	case cfg.HasSink(config.SinkDatabase):
		lookup = services.NewRepositorySink(orderRepo)
		statusRepo = orderRepo
	case sheet != nil:
		lookup = sheet
	}

	// --- Checkout ---
	format := services.OrderIDFormat(cfg.OrderIDFormat)
	issued := 0
	if format == services.OrderIDSequence && cfg.HasSink(config.SinkDatabase) {
		now := time.Now()
		issued, err = orderRepo.CountOrdersSince(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()))
		if err != nil {
			return nil, fmt.Errorf("failed to seed order sequence: %w", err)
		}
	}
	ids := services.NewOrderIDGenerator(format, issued)

	var handoff services.MessagingHandoff
	if cfg.WhatsAppNumber != "" {
		handoff = clients.NewWhatsAppHandoff(cfg.WhatsAppNumber)
	}
	var gateway services.PaymentGateway
	if cfg.PaymentEnabled {
		gateway = clients.NewPopupGateway(cfg.PaymentKeyID, cfg.Currency, cfg.StoreName)
	}

	validator := services.NewCheckoutValidator(cfg.RequireAddress, cfg.RequirePincode)
	orderService := services.NewOrderService(validator, ids, sinks, handoff, gateway, publisher, services.OrderServiceConfig{
		Granularity:    services.SinkGranularity(cfg.SinkGranularity),
		PaymentEnabled: cfg.PaymentEnabled,
	})
	queryService := services.NewOrderQueryService(lookup, statusRepo)

	dealerAuth, err := services.NewDealerAuthService(cfg.DealerPassword, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	sessions := services.NewSessionStore(cfg.SessionTTL)

	// --- Handlers ---
	catalogHandler := handlers.NewCatalogHandler(catalog)
	cartHandler := handlers.NewCartHandler(catalog)
	checkoutHandler := handlers.NewCheckoutHandler(orderService, validator)
	orderHandler := handlers.NewOrderHandler(queryService)
	dealerHandler := handlers.NewDealerHandler(dealerAuth)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{AppName: cfg.StoreName})
	app.Use(fiberrecover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if mqClient != nil {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitMQ": events,
			"catalog":  catalog.Notice(),
			"sessions": sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	apiV1 := app.Group("/api/v1",
		middleware.Session(sessions, cfg.SessionTTL),
		middleware.DealerProof(dealerAuth),
	)
	catalogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	dealerHandler.RegisterRoutes(apiV1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*outboundTimeout)
	defer cancel()
	if err := catalog.Refresh(ctx); err != nil && !errors.Is(err, services.ErrFeedUnavailable) {
		return nil, err
	}

	return &App{
		Fiber:    app,
		Sessions: sessions,
		Catalog:  catalog,
		cfg:      cfg,
		db:       db,
		mq:       mqClient,
	}, nil
}

// StartBackground starts the order event consumer and the session sweeper.
// Both stop when ctx is cancelled or the broker connection closes.
func (a *App) StartBackground(ctx context.Context) {
	if a.mq != nil {
		log.Println("Starting RabbitMQ consumer for order events...")
		if err := a.mq.ConsumeOrderEvents(rabbitmq.HandleOrderMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := a.Sessions.Sweep(); n > 0 {
					log.Printf("Expired %d idle sessions", n)
				}
			}
		}
	}()
}

// Close releases the broker connection and the database.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storefront: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartBackground(ctx)

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
