package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/http/middleware"
	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"github.com/jmehdipour/invest-backoffice/internal/session"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes need. Reports and Redis may be nil.
type Deps struct {
	Engine      TransitionService
	Sessions    session.Store
	Admins      AdminFinder
	Customers   CustomerReader
	Investments InvestmentReader
	Withdrawals WithdrawalReader
	Ledger      LedgerReader
	Tickets     repository.TicketsRepository
	Reports     repository.CHTransitionsRepository
	Redis       *redis.Client
	Health      func(ctx context.Context) error
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, d Deps, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error {
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				return c.String(http.StatusServiceUnavailable, err.Error())
			}
		}
		return c.String(http.StatusOK, "ok")
	})

	// auth
	e.POST("/login", loginHandler(d.Admins, d.Sessions, cfg.Session))
	e.POST("/logout", logoutHandler(d.Sessions, cfg.Session))

	// middlewares
	authMW := middleware.SessionMiddleware(d.Sessions, cfg.Session.CookieName)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          d.Redis,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:admin:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.GET("/me", meHandler(d.Admins))

	v1.GET("/customers", listCustomersHandler(d.Customers))
	v1.GET("/customers/:username/ledger", customerLedgerHandler(d.Customers, d.Ledger))

	v1.GET("/investments", listInvestmentsHandler(d.Investments))
	v1.GET("/investments/:id", getInvestmentHandler(d.Investments))
	v1.PUT("/investment/:investId", investmentTransitionHandler(d.Engine))

	v1.GET("/withdrawals", listWithdrawalsHandler(d.Withdrawals))
	v1.GET("/withdrawals/:id", getWithdrawalHandler(d.Withdrawals))
	v1.PUT("/withdrawal/:withdrawId", withdrawalTransitionHandler(d.Engine))

	v1.GET("/tickets", listTicketsHandler(d.Tickets))
	v1.GET("/tickets/:ticketNo", getTicketHandler(d.Tickets))
	v1.POST("/tickets/:ticketNo/message", ticketMessageHandler(d.Tickets))
	v1.POST("/tickets/:ticketNo/resolve", resolveTicketHandler(d.Tickets))

	if d.Reports != nil {
		v1.GET("/reports/transitions", listTransitionsHandler(d.Reports))
	}

	return &Server{e: e, log: log}
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
