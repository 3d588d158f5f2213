package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/dsa-enrollment-api/api/swagger"
	"github.com/noah-isme/dsa-enrollment-api/internal/handler"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/realtime"
	"github.com/noah-isme/dsa-enrollment-api/internal/repository"
	"github.com/noah-isme/dsa-enrollment-api/internal/router"
	"github.com/noah-isme/dsa-enrollment-api/internal/service"
	"github.com/noah-isme/dsa-enrollment-api/internal/validator"
	"github.com/noah-isme/dsa-enrollment-api/pkg/cache"
	"github.com/noah-isme/dsa-enrollment-api/pkg/config"
	"github.com/noah-isme/dsa-enrollment-api/pkg/database"
	"github.com/noah-isme/dsa-enrollment-api/pkg/export"
	"github.com/noah-isme/dsa-enrollment-api/pkg/jobs"
	"github.com/noah-isme/dsa-enrollment-api/pkg/logger"
	"github.com/noah-isme/dsa-enrollment-api/pkg/storage"
)

// @title Delhi Safety Academy Enrollment API
// @version 1.0.0
// @description Course catalog, training schedule, application and payment form sessions
// @BasePath /api/v1
// @schemes http

type catalogStore interface {
	ListCourses(ctx context.Context) ([]models.CourseOffering, error)
	FindCourse(ctx context.Context, id string) (*models.CourseOffering, error)
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	validator.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	probes := map[string]handler.Probe{}

	var catalogRepo catalogStore
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		if err := database.MigrateUp(cfg.Database, cfg.Catalog.MigrationsPath); err != nil {
			logr.Fatal("catalog migrations failed", zap.Error(err))
		}
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		catalogRepo = repository.NewCatalogRepository(db)
		probes["postgres"] = db.PingContext
	default:
		catalogRepo = repository.NewStaticCatalogRepository()
	}

	var sessions service.SessionRepository
	switch cfg.Sessions.Store {
	case config.SessionStoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		store := repository.NewRedisSessionRepository(client, cfg.Redis.KeyPrefix, cfg.Sessions.TTL, logr)
		defer store.Close() //nolint:errcheck
		sessions = store
		probes["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	default:
		sessions = repository.NewMemorySessionRepository(cfg.Sessions.TTL)
	}

	scheduler := jobs.NewScheduler("payments", jobs.SchedulerConfig{MaxRetries: 3, RetryDelay: time.Second, Logger: logr})
	scheduler.Start(ctx)
	hub := realtime.NewHub(logr)

	pdf := export.NewPDFExporter("Delhi Safety Academy")
	catalog := service.NewCatalogService(catalogRepo, service.NewOrderSummaryCalculator(cfg.Payments.TaxRateBasis), metrics, logr)
	content := service.NewContentService(repository.NewContentRepository(), catalog, logr)
	schedule := service.NewScheduleService(catalogRepo, export.NewCSVExporter(), logr)
	applications := service.NewApplicationService(sessions, pdf, metrics, logr)
	payments := service.NewPaymentService(
		sessions,
		catalog,
		scheduler,
		hub,
		storage.NewSignedURLSigner(cfg.Receipts.SigningSecret, cfg.Receipts.LinkTTL),
		pdf,
		metrics,
		service.PaymentServiceConfig{CardDelay: cfg.Payments.CardDelay, UPIAppDelay: cfg.Payments.UPIAppDelay},
		logr,
	)

	r := router.Setup(cfg, &router.Handlers{
		Metrics:      handler.NewMetricsHandler(metrics, probes),
		Content:      handler.NewContentHandler(content),
		Courses:      handler.NewCourseHandler(catalog),
		Schedule:     handler.NewScheduleHandler(schedule),
		Applications: handler.NewApplicationHandler(applications, content),
		Payments:     handler.NewPaymentHandler(payments, cfg.CORS.AllowedOrigins, router.ReceiptsPath(cfg), logr),
	}, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"catalog", cfg.Catalog.Source,
			"sessions", cfg.Sessions.Store,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http server shutdown", zap.Error(err))
	}

	scheduler.Stop()
	hub.Close()
	logr.Info("shutdown complete")
}
