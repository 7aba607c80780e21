package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/api/http"
	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/catalog"
	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/config"
	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/weather"
	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration and the project catalog once; both are
	// read-only for the process lifetime.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cat := catalog.Load()
	log.Printf("loaded %d projects into catalog", len(cat.Projects()))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Upstream history provider: a pure strategy swap via config.
	var provider weather.HistoryProvider
	switch cfg.Provider {
	case config.ProviderOpenMeteo:
		provider = providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey)
	default:
		provider = providers.NewQWeatherProvider(httpClient, cfg.QWeatherAPIKey, cfg.QWeatherAPIHost)
	}

	service := weather.NewService(cat, provider, cfg.DefaultLocation)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "history-weather-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status_code": code,
				"detail":      err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"provider":         provider.Name(),
			"qweather_key":     cfg.QWeatherAPIKey != "",
			"host":             cfg.QWeatherAPIHost,
			"default_location": cfg.DefaultLocation,
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
