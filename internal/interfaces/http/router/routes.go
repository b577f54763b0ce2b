package router

import (
	"time"

	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/shared"
	"github.com/agrotrade/backend/internal/infrastructure/logger"
	"github.com/agrotrade/backend/internal/interfaces/http/handler"
	"github.com/agrotrade/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Auth        *handler.AuthHandler
	Branch      *handler.BranchHandler
	Stock       *handler.StockHandler
	Procurement *handler.ProcurementHandler
	Sale        *handler.SaleHandler
	Credit      *handler.CreditHandler
	System      *handler.SystemHandler
}

// Dependencies holds what the route middleware needs
type Dependencies struct {
	JWT            middleware.JWTConfig
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
	AuthLimiter    *middleware.RateLimiter
	Logger         *zap.Logger
}

// EngineConfig configures the global middleware stack
type EngineConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
	// Meter enables HTTP metrics when set
	Meter metric.Meter
	// Tracing wraps every request in an otelgin server span
	Tracing   bool
	Profiling bool
	Logger    *zap.Logger
}

// NewEngine builds a gin engine with the global middleware stack.
// Order: tracing, request ID, access log, recovery, security headers,
// CORS, body limit, metrics, profiling labels.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, err
		}
	}

	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
		middleware.BodyLimit(bodyLimit(cfg.MaxBodySize)),
	)
	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}
	if cfg.Profiling {
		engine.Use(middleware.ProfilingLabels())
	}
	return engine, nil
}

func bodyLimit(n int64) int64 {
	if n <= 0 {
		return middleware.DefaultBodyLimit
	}
	return n
}

// Mount registers /health and every /api route on engine
func Mount(engine *gin.Engine, h Handlers, deps Dependencies) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion(""))
	r.Register(APIGroups(h, deps)...)
	r.Setup()
}

// APIGroups returns the API route groups. Every group except auth
// requires a bearer token; each route is gated by its operation.
func APIGroups(h Handlers, deps Dependencies) []RouteRegistrar {
	authenticated := []gin.HandlerFunc{middleware.JWTAuth(deps.JWT), middleware.SpanAttributes()}
	idempotent := middleware.Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Logger)
	op := middleware.RequireOperation

	authRoutes := NewDomainGroup("auth", "/auth")
	limit := func(c *gin.Context) { c.Next() }
	if deps.AuthLimiter != nil {
		limit = middleware.RateLimit(deps.AuthLimiter)
	}
	authRoutes.POST("/register", limit, middleware.OptionalJWTAuth(deps.JWT), h.Auth.Register)
	authRoutes.POST("/login", limit, h.Auth.Login)
	authRoutes.GET("/me", append(authenticated, h.Auth.Me)...)
	authRoutes.POST("/logout", append(authenticated, h.Auth.Logout)...)

	branchRoutes := NewDomainGroup("branch", "/branches").Use(authenticated...)
	branchRoutes.GET("", op(identity.OpBranchRead), h.Branch.List)
	branchRoutes.GET("/:id", op(identity.OpBranchRead), h.Branch.GetByID)
	branchRoutes.POST("", op(identity.OpBranchCreate), h.Branch.Create)
	branchRoutes.PUT("/:id", op(identity.OpBranchUpdate), h.Branch.Update)
	branchRoutes.DELETE("/:id", op(identity.OpBranchDelete), h.Branch.Delete)

	stockRoutes := NewDomainGroup("stock", "/stock").Use(authenticated...)
	stockRoutes.GET("", op(identity.OpStockRead), h.Stock.List)
	stockRoutes.GET("/alerts", op(identity.OpStockRead), h.Stock.LowStock)
	stockRoutes.GET("/:id", op(identity.OpStockRead), h.Stock.GetByID)
	stockRoutes.POST("", op(identity.OpStockCreate), h.Stock.Create)
	stockRoutes.PUT("/:id", op(identity.OpStockUpdate), h.Stock.Update)
	stockRoutes.DELETE("/:id", op(identity.OpStockDelete), h.Stock.Delete)

	procurementRoutes := NewDomainGroup("procurement", "/procurement").Use(authenticated...)
	procurementRoutes.GET("", op(identity.OpProcurementRead), h.Procurement.List)
	procurementRoutes.GET("/:id", op(identity.OpProcurementRead), h.Procurement.GetByID)
	procurementRoutes.POST("", op(identity.OpProcurementCreate), idempotent, h.Procurement.Create)
	procurementRoutes.PUT("/:id", op(identity.OpProcurementUpdate), h.Procurement.Update)
	procurementRoutes.DELETE("/:id", op(identity.OpProcurementDelete), h.Procurement.Delete)

	saleRoutes := NewDomainGroup("sale", "/sales").Use(authenticated...)
	saleRoutes.GET("", op(identity.OpSaleRead), h.Sale.List)
	saleRoutes.GET("/:id", op(identity.OpSaleRead), h.Sale.GetByID)
	saleRoutes.POST("", op(identity.OpSaleCreate), idempotent, h.Sale.Create)
	saleRoutes.PUT("/:id", op(identity.OpSaleUpdate), h.Sale.Update)
	saleRoutes.DELETE("/:id", op(identity.OpSaleDelete), h.Sale.Delete)

	creditRoutes := NewDomainGroup("credit", "/credit").Use(authenticated...)
	creditRoutes.GET("", op(identity.OpCreditRead), h.Credit.List)
	creditRoutes.GET("/stats", op(identity.OpCreditRead), h.Credit.Stats)
	creditRoutes.GET("/:id", op(identity.OpCreditRead), h.Credit.GetByID)
	creditRoutes.PUT("/:id/payment", op(identity.OpCreditPay), h.Credit.RecordPayment)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.Info)

	return []RouteRegistrar{authRoutes, branchRoutes, stockRoutes, procurementRoutes, saleRoutes, creditRoutes, systemRoutes}
}
