package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appfin "github.com/agrotrade/backend/internal/application/finance"
	appid "github.com/agrotrade/backend/internal/application/identity"
	appinv "github.com/agrotrade/backend/internal/application/inventory"
	apptrade "github.com/agrotrade/backend/internal/application/trade"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/infrastructure/auth"
	"github.com/agrotrade/backend/internal/infrastructure/cache"
	"github.com/agrotrade/backend/internal/infrastructure/config"
	"github.com/agrotrade/backend/internal/infrastructure/persistence"
	"github.com/agrotrade/backend/internal/interfaces/http/dto"
	"github.com/agrotrade/backend/internal/interfaces/http/handler"
	"github.com/agrotrade/backend/internal/interfaces/http/middleware"
	"github.com/agrotrade/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	var seen bool
	r.Use(func(c *gin.Context) {
		seen = true
		c.Next()
	})

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.True(t, seen, "router middleware runs")
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("sale", "/sales")
		assert.Equal(t, "sale", g.Name())
		assert.Equal(t, "/sales", g.Prefix())
	})

	t.Run("methods, middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		var calls []string
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			calls = append(calls, "group")
			c.Next()
		})
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			g.Handle(method, "/items", func(c *gin.Context) {
				c.String(http.StatusOK, c.Request.Method)
			})
		}
		g.Group("nested", "/nested").GET("/leaf", func(c *gin.Context) {
			c.String(http.StatusOK, "leaf")
		})
		g.RegisterRoutes(engine.Group("/api"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/test/items", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, method, w.Body.String())
		}

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test/nested/leaf", nil))
		assert.Equal(t, "leaf", w.Body.String())
		assert.Len(t, calls, 5)
	})
}

type apiEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "agrotrade-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	txScope := persistence.NewGormTransactionScope(db)
	branchRepo := persistence.NewGormBranchRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	h := Handlers{
		Auth:        handler.NewAuthHandler(appid.NewAuthService(userRepo, branchRepo, jwtService, blacklist, log)),
		Branch:      handler.NewBranchHandler(appid.NewBranchService(branchRepo, txScope, log)),
		Stock:       handler.NewStockHandler(appinv.NewStockService(persistence.NewGormProduceRepository(db), txScope, log)),
		Procurement: handler.NewProcurementHandler(apptrade.NewProcurementService(persistence.NewGormProcurementRepository(db), txScope, log)),
		Sale:        handler.NewSaleHandler(apptrade.NewSalesService(persistence.NewGormSaleRepository(db), txScope, log)),
		Credit:      handler.NewCreditHandler(appfin.NewCreditService(persistence.NewGormCreditRepository(db), txScope, log)),
		System:      handler.NewSystemHandler(sqlitePinger{db: db}, "test"),
	}

	engine, err := NewEngine(EngineConfig{ServiceName: "agrotrade-test", CORS: middleware.DefaultCORSConfig(), Logger: log})
	require.NoError(t, err)
	Mount(engine, h, Dependencies{
		JWT:            middleware.JWTConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log},
		Idempotency:    store,
		IdempotencyTTL: time.Minute,
		AuthLimiter:    middleware.NewRateLimiter(100, time.Minute),
		Logger:         log,
	})
	return &apiEnv{engine: engine, db: db, jwt: jwtService}
}

type sqlitePinger struct{ db *gorm.DB }

func (p sqlitePinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (e *apiEnv) token(t *testing.T, u *identity.User) map[string]string {
	t.Helper()
	tok, err := e.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok.AccessToken}
}

func withHeader(h map[string]string, k, v string) map[string]string {
	out := map[string]string{k: v}
	for key, val := range h {
		out[key] = val
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	w := testutil.Perform(t, env.engine, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestMount_RoutePaths(t *testing.T) {
	env := newAPIEnv(t)
	mounted := make(map[string]bool)
	for _, route := range env.engine.Routes() {
		mounted[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/procurement",
		"PUT /api/procurement/:id",
		"DELETE /api/procurement/:id",
		"POST /api/sales",
		"PUT /api/sales/:id",
		"DELETE /api/sales/:id",
		"PUT /api/credit/:id/payment",
		"GET /api/stock",
		"GET /api/stock/:id",
		"POST /api/stock",
		"PUT /api/stock/:id",
		"DELETE /api/stock/:id",
		"GET /api/branches",
		"POST /api/auth/login",
	} {
		assert.True(t, mounted[want], "missing route %s", want)
	}
	assert.False(t, mounted["POST /api/v1/sales"])
}

func TestAuthFlow(t *testing.T) {
	env := newAPIEnv(t)

	w := testutil.Perform(t, env.engine, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Owner", "email": "owner@agrotrade.test", "password": "secret123", "role": "CEO",
	}, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)

	w = testutil.Perform(t, env.engine, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Owner", "email": "not-an-email", "password": "1", "role": "King",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = testutil.Perform(t, env.engine, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "owner@agrotrade.test", "password": "wrong-password",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials)

	w = testutil.Perform(t, env.engine, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "owner@agrotrade.test", "password": "secret123",
	}, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	login := testutil.DecodeData[appid.LoginResponse](t, w)
	headers := map[string]string{"Authorization": "Bearer " + login.AccessToken}

	w = testutil.Perform(t, env.engine, http.MethodGet, "/api/auth/me", nil, headers)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "CEO", testutil.DecodeData[appid.UserResponse](t, w).Role)

	w = testutil.Perform(t, env.engine, http.MethodPost, "/api/auth/logout", nil, headers)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = testutil.Perform(t, env.engine, http.MethodGet, "/api/auth/me", nil, headers)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenRevoked)
}

func TestTradingFlow(t *testing.T) {
	env := newAPIEnv(t)
	f := testutil.NewFixtures(t, env.db)

	kampala := f.Branch("Kampala")
	gulu := f.Branch("Gulu")
	maize := f.Produce(kampala.ID, "Maize", 0)
	guluBeans := f.Produce(gulu.ID, "Beans", 5)

	ceo := env.token(t, f.User("ceo", identity.RoleCEO, nil))
	manager := env.token(t, f.User("manager", identity.RoleManager, &kampala.ID))
	agent := env.token(t, f.User("agent", identity.RoleSalesAgent, &kampala.ID))

	t.Run("unauthenticated", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/stock", nil, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
	})

	t.Run("procure into stock", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodPost, "/api/procurement", map[string]any{
			"produce_id": maize.ID, "branch_id": kampala.ID,
			"dealer_name": "Okello Farms", "dealer_type": "farm",
			"tonnage": "10", "cost_per_ton": "500000", "selling_price_per_ton": "650000",
		}, agent)
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		p := testutil.DecodeData[apptrade.ProcurementResponse](t, w)
		assert.True(t, decimal.NewFromInt(5000000).Equal(p.TotalCost))

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock/"+maize.ID.String(), nil, agent)
		stock := testutil.DecodeData[appinv.StockResponse](t, w)
		assert.True(t, decimal.NewFromInt(10).Equal(stock.CurrentStock))
	})

	t.Run("oversell is refused", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodPost, "/api/sales", map[string]any{
			"produce_id": maize.ID, "branch_id": kampala.ID, "buyer_name": "Nakato",
			"tonnage": "11", "amount_paid": "0", "payment_type": "cash",
		}, agent)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInsufficientStock)
	})

	var creditID uuid.UUID
	t.Run("credit sale with idempotency key", func(t *testing.T) {
		body := map[string]any{
			"produce_id": maize.ID, "branch_id": kampala.ID, "buyer_name": "Nakato",
			"tonnage": "4", "amount_paid": "0", "payment_type": "credit",
			"buyer_national_id": "CM900123", "amount_due": "2600000", "due_date": "2030-01-31",
		}
		headers := withHeader(agent, middleware.IdempotencyKeyHeader, "sale-1")

		w := testutil.Perform(t, env.engine, http.MethodPost, "/api/sales", body, headers)
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		sale := testutil.DecodeData[apptrade.SaleResponse](t, w)
		require.NotNil(t, sale.Credit)
		creditID = sale.Credit.ID

		w = testutil.Perform(t, env.engine, http.MethodPost, "/api/sales", body, headers)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeDuplicateRequest)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock/"+maize.ID.String(), nil, agent)
		stock := testutil.DecodeData[appinv.StockResponse](t, w)
		assert.True(t, decimal.NewFromInt(6).Equal(stock.CurrentStock), "replay must not sell twice")
	})

	t.Run("agents cannot take payments", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodPut, "/api/credit/"+creditID.String()+"/payment",
			map[string]any{"amount_paid": "100"}, agent)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccessDenied)
	})

	t.Run("manager records repayments", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodPut, "/api/credit/"+creditID.String()+"/payment",
			map[string]any{"amount_paid": "3000000"}, manager)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeExceedsOutstanding)

		w = testutil.Perform(t, env.engine, http.MethodPut, "/api/credit/"+creditID.String()+"/payment",
			map[string]any{"amount_paid": "600000"}, manager)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		credit := testutil.DecodeData[appfin.CreditResponse](t, w)
		assert.Equal(t, "partial", credit.PaymentStatus)
		assert.True(t, decimal.NewFromInt(2000000).Equal(credit.Outstanding))

		w = testutil.Perform(t, env.engine, http.MethodPut, "/api/credit/"+creditID.String()+"/payment",
			map[string]any{"amount_paid": "0"}, manager)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("lists are branch scoped", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/stock", nil, agent)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		rows := testutil.DecodeData[[]appinv.StockResponse](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, maize.ID, rows[0].ID)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock?branch_id="+gulu.ID.String(), nil, agent)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccessDenied)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock?branch_id="+gulu.ID.String(), nil, ceo)
		rows = testutil.DecodeData[[]appinv.StockResponse](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, guluBeans.ID, rows[0].ID)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock?branch_id=nope", nil, ceo)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/stock", nil, ceo)
		env2 := testutil.Decode(t, w)
		require.NotNil(t, env2.Meta)
		assert.Equal(t, int64(2), env2.Meta.Total)
	})

	t.Run("foreign rows are denied", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/stock/"+guluBeans.ID.String(), nil, agent)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccessDenied)
	})

	t.Run("low stock alerts", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/stock/alerts?threshold=5", nil, ceo)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		rows := testutil.DecodeData[[]appinv.StockResponse](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, guluBeans.ID, rows[0].ID)
	})

	t.Run("credit stats", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/credit/stats", nil, manager)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
	})

	t.Run("role gates", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodDelete, "/api/stock/"+maize.ID.String(), nil, manager)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccessDenied)

		w = testutil.Perform(t, env.engine, http.MethodPost, "/api/branches",
			map[string]any{"name": "Mbale", "location": "Depot"}, manager)
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccessDenied)

		w = testutil.Perform(t, env.engine, http.MethodPost, "/api/branches",
			map[string]any{"name": "Mbale", "location": "Depot"}, ceo)
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	})

	t.Run("stock with a balance cannot be deleted", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodDelete, "/api/stock/"+maize.ID.String(), nil, ceo)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeStockNotEmpty)
	})

	t.Run("bad id", func(t *testing.T) {
		w := testutil.Perform(t, env.engine, http.MethodGet, "/api/sales/not-a-uuid", nil, ceo)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)

		w = testutil.Perform(t, env.engine, http.MethodGet, "/api/sales/"+uuid.NewString(), nil, ceo)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}
