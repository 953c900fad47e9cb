package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	fiscalapp "github.com/varejo/backend/internal/application/fiscal"
	pixapp "github.com/varejo/backend/internal/application/pix"
	domainfiscal "github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/shared"
	"github.com/varejo/backend/internal/infrastructure/cache"
	"github.com/varejo/backend/internal/infrastructure/config"
	fiscalinfra "github.com/varejo/backend/internal/infrastructure/fiscal"
	"github.com/varejo/backend/internal/infrastructure/logger"
	"github.com/varejo/backend/internal/infrastructure/persistence"
	"github.com/varejo/backend/internal/infrastructure/storage"
	"github.com/varejo/backend/internal/infrastructure/telemetry"
	"github.com/varejo/backend/internal/interfaces/http/handler"
	"github.com/varejo/backend/internal/interfaces/http/middleware"
	"github.com/varejo/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Varejo Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.TraceSQL {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	docRepo := persistence.NewGormFiscalDocumentRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	cashRepo := persistence.NewGormCashLedgerRepository(db.DB)
	receivableRepo := persistence.NewGormAccountReceivableRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	loyaltyRepo := persistence.NewGormLoyaltyMovementRepository(db.DB)

	// Tax authority gateway
	gateway, err := fiscalinfra.NewAuthorityClient(fiscalinfra.ClientConfig{
		BaseURL: cfg.Fiscal.AuthorityURL,
		Timeout: cfg.Fiscal.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create tax authority client", zap.Error(err))
	}

	issuer := domainfiscal.IssuerConfig{
		TaxID:               cfg.Fiscal.IssuerTaxID,
		CorporateName:       cfg.Fiscal.CorporateName,
		StateCode:           cfg.Fiscal.StateCode,
		Environment:         domainfiscal.Environment(cfg.Fiscal.Environment),
		CertificatePath:     cfg.Fiscal.CertificatePath,
		CertificatePassword: cfg.Fiscal.CertificatePassword,
		ReceiptSeries:       cfg.Fiscal.ReceiptSeries,
		InvoiceSeries:       cfg.Fiscal.InvoiceSeries,
	}

	// Application services
	reversalService := fiscalapp.NewReversalService(
		saleRepo, stockRepo, cashRepo, receivableRepo, clientRepo, loyaltyRepo, log,
	)
	documentService := fiscalapp.NewDocumentService(
		docRepo, saleRepo, gateway, issuer, reversalService, log,
	)
	payloadService := pixapp.NewPayloadService()

	// Raw document archive (optional)
	if cfg.Archive.Enabled {
		archive, err := storage.NewS3DocumentArchive(&cfg.Archive, log)
		if err != nil {
			log.Fatal("Failed to create document archive", zap.Error(err))
		}
		documentService.SetArchive(archive)
		log.Info("Document archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	// Cancellation idempotency store; falls back to process-local memory
	// when Redis is not reachable
	idemConfig := shared.IdempotencyConfig{
		TTL:     cfg.Fiscal.IdempotencyTTL,
		Enabled: true,
	}
	var idemStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idemStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idemStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	engine.Use(logger.GinMiddleware(log))

	fiscalHandler := handler.NewFiscalDocumentHandler(documentService, idemStore, idemConfig, log)
	pixHandler := handler.NewPixHandler(payloadService)
	systemHandler := handler.NewSystemHandler(db)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(fiscalHandler).
		Register(pixHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
