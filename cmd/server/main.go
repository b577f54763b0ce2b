package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfin "github.com/agrotrade/backend/internal/application/finance"
	appid "github.com/agrotrade/backend/internal/application/identity"
	appinv "github.com/agrotrade/backend/internal/application/inventory"
	apptrade "github.com/agrotrade/backend/internal/application/trade"
	"github.com/agrotrade/backend/internal/infrastructure/auth"
	"github.com/agrotrade/backend/internal/infrastructure/cache"
	"github.com/agrotrade/backend/internal/infrastructure/config"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/infrastructure/persistence"
	"github.com/agrotrade/backend/internal/infrastructure/telemetry"
	"github.com/agrotrade/backend/internal/interfaces/http/handler"
	"github.com/agrotrade/backend/internal/interfaces/http/middleware"
	"github.com/agrotrade/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AgroTrade backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	blacklist := auth.NewTokenBlacklist(redisClient, log)
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)

	tradeMetrics, err := telemetry.NewTradeMetrics(meterProvider.Meter("agrotrade/trade"))
	if err != nil {
		log.Fatal("Failed to register trade metrics", zap.Error(err))
	}

	txScope := persistence.NewGormTransactionScope(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)

	procurementService := apptrade.NewProcurementService(persistence.NewGormProcurementRepository(db.DB), txScope, log)
	procurementService.SetMetrics(tradeMetrics)
	salesService := apptrade.NewSalesService(persistence.NewGormSaleRepository(db.DB), txScope, log)
	salesService.SetMetrics(tradeMetrics)
	creditService := appfin.NewCreditService(persistence.NewGormCreditRepository(db.DB), txScope, log)
	creditService.SetMetrics(tradeMetrics)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(appid.NewAuthService(userRepo, branchRepo, jwtService, blacklist, log)),
		Branch:      handler.NewBranchHandler(appid.NewBranchService(branchRepo, txScope, log)),
		Stock:       handler.NewStockHandler(appinv.NewStockService(persistence.NewGormProduceRepository(db.DB), txScope, log)),
		Procurement: handler.NewProcurementHandler(procurementService),
		Sale:        handler.NewSaleHandler(salesService),
		Credit:      handler.NewCreditHandler(creditService),
		System:      handler.NewSystemHandler(db, version),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	cors.ExposeHeaders = append(cors.ExposeHeaders, "X-RateLimit-Limit", "X-RateLimit-Remaining")

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Meter:          meterProvider.Meter("agrotrade/http"),
		Tracing:        tracerProvider.IsEnabled(),
		Profiling:      profiler.IsEnabled(),
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	router.Mount(engine, handlers, router.Dependencies{
		JWT:            middleware.JWTConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log},
		Idempotency:    idempotencyStore,
		IdempotencyTTL: cfg.Idempotency.TTL,
		AuthLimiter:    middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow),
		Logger:         log,
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// drain in reverse order of construction
	if err := idempotencyStore.Close(); err != nil {
		log.Warn("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
