package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gsa/docs"
	"gsa/internal/auth"
	"gsa/internal/config"
	"gsa/internal/database"
	"gsa/internal/database/migration"
	"gsa/internal/gmp/command"
	"gsa/internal/gmp/transport"
	handlers "gsa/internal/http/handler"
	"gsa/internal/http/middleware"
	"gsa/internal/logging"
	"gsa/internal/otel"
	"gsa/internal/repository/postgres"
	"gsa/internal/service"
	"gsa/internal/storage"
	"gsa/internal/validation"
)

// @title GSA Gateway API
// @version 1.0
// @description JSON gateway to the Greenbone Management Protocol served by gsad.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), loc)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fatal(logger, "invalid_config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		fatal(logger, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// PostgreSQL keeps the archive metadata
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(logger, "db_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		fatal(logger, "db_migration_failed", err)
	}

	// S3-compatible object storage keeps the rendered reports
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		fatal(logger, "storage_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gmpMetrics, err := transport.NewMetrics(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}

	gmp := transport.NewClient(cfg.GMP.URL, cfg.GMP.Timeout, cfg.GMP.InsecureTLS,
		transport.WithMetrics(gmpMetrics),
		transport.WithLogger(logger.With("component", "gmp")),
	)

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TTL)
	if err != nil {
		fatal(logger, "auth_init_failed", err)
	}

	v := validation.New()
	registry := command.NewRegistry(gmp)
	services := handlers.Services{
		Entities:  service.NewEntityService(registry),
		Tasks:     service.NewTaskService(gmp, v),
		Filters:   service.NewFilterService(gmp, v),
		Dashboard: service.NewDashboardService(registry),
		Archives:  service.NewArchiveService(gmp, objStore, postgres.NewArchivePostgres(db), v, cfg.MinIO.URLExpiry),
		Sessions:  service.NewSessionService(gmp, issuer),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.With("component", "http")))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Options{
		DB:           db,
		Verifier:     issuer,
		SecureCookie: cfg.Auth.SecureCookie,
	}, services)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server_starting", "addr", addr, "gmp_url", cfg.GMP.URL)
	if err := app.Listen(addr); err != nil {
		fatal(logger, "server_failed", err)
	}
	logger.Info("server_stopped")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
