package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"barslot/internal/api"
	"barslot/internal/auth"
	"barslot/internal/bar"
	"barslot/internal/config"
	"barslot/internal/ledger"
	"barslot/internal/user"

	"github.com/gin-gonic/gin"
)

const limiterTTL = 10 * time.Minute

// Deps are the services behind the HTTP surface. DB and Emails may be nil.
type Deps struct {
	Users  user.Service
	Bars   bar.Service
	Ledger ledger.Service
	DB     Pinger
	Emails EmailQueue
}

type Server struct {
	router   *gin.Engine
	http     *http.Server
	limiters []*RateLimiter
}

func New(cfg *config.Config, deps Deps) *Server {
	api.RegisterBindingValidators()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.CORSOrigins),
	)

	s := &Server{router: router}
	if cfg.RateLimitRPS > 0 {
		router.Use(s.newLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(ByClientIP))
	}

	router.GET("/health", Health(deps.DB))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	adminOnly := auth.RequireRole(auth.RoleAdmin)

	userHandler := user.NewHandler(deps.Users)
	users := router.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/refresh", userHandler.RefreshToken)
		users.GET("/me", authMiddleware, userHandler.GetMe)
		users.GET("/", authMiddleware, adminOnly, userHandler.ListUsers)
	}

	barHandler := bar.NewHandler(deps.Bars)
	bars := router.Group("/bars")
	{
		bars.GET("/", barHandler.ListBars)
		bars.GET("/:id", barHandler.GetBar)
		bars.POST("/", authMiddleware, adminOnly, barHandler.CreateBar)
		bars.PUT("/:id", authMiddleware, adminOnly, barHandler.UpdateBar)
	}

	ledgerHandler := ledger.NewHandler(deps.Ledger)
	availability := router.Group("/availability")
	{
		availability.GET("/bar/:id", ledgerHandler.ListAvailability)
		availability.GET("/:id", ledgerHandler.GetSlot)
		availability.POST("/", authMiddleware, ledgerHandler.UpsertSlot)
		availability.POST("/bulk", authMiddleware, ledgerHandler.ProvisionRange)
		availability.DELETE("/:id", authMiddleware, ledgerHandler.DeleteSlot)
	}

	createReservation := []gin.HandlerFunc{ledgerHandler.CreateReservation}
	if cfg.BookingsPerMinute > 0 {
		perUser := s.newLimiter(float64(cfg.BookingsPerMinute)/60, cfg.BookingsPerMinute)
		createReservation = append([]gin.HandlerFunc{perUser.Middleware(ByUser)}, createReservation...)
	}

	reservations := router.Group("/reservations")
	reservations.Use(authMiddleware)
	{
		reservations.POST("/", createReservation...)
		reservations.GET("/my-reservations", ledgerHandler.ListMyReservations)
		reservations.GET("/bar/:id", adminOnly, ledgerHandler.ListBarReservations)
		reservations.PUT("/:id/cancel", ledgerHandler.CancelReservation)
	}

	if deps.Emails != nil {
		router.GET("/test-email", authMiddleware, adminOnly, TestEmail(deps.Emails))
	}

	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) newLimiter(rps float64, burst int) *RateLimiter {
	rl := NewRateLimiter(rps, burst, limiterTTL)
	s.limiters = append(s.limiters, rl)
	return rl
}

func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.Stop()
	}
	return s.http.Shutdown(ctx)
}
