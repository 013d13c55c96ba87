package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/carparking/parking-system/internal/api/handler"
	"github.com/carparking/parking-system/internal/api/middleware"
	"github.com/carparking/parking-system/internal/core/domain"
)

// Deps carries the constructed handlers and the settings the router needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Rates     *handler.RateHandler
	Movements *handler.MovementHandler
	Payments  *handler.PaymentHandler
	Customers *handler.CustomerHandler
	Dashboard *handler.DashboardHandler
	Gate      *handler.GateHandler
	Health    *handler.HealthHandler

	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("parking"))

	auth := middleware.Auth(d.JWTSecret)
	ownerOnly := middleware.RBAC(domain.RoleOwner)
	customerOnly := middleware.RBAC(domain.RoleCustomer)
	anyRole := middleware.RBAC(domain.RoleOwner, domain.RoleCustomer)

	// Public surface.
	e.GET("/health", d.Health.Liveness)
	e.GET("/health/ready", d.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.POST("/auth/register", d.Auth.Register)
	v1.POST("/auth/login", d.Auth.Login)
	v1.GET("/rates", d.Rates.List)
	v1.GET("/rates/current", d.Rates.Current)

	// Any authenticated user.
	account := v1.Group("/auth", auth)
	account.GET("/me", d.Auth.Me)
	account.PUT("/password", d.Auth.ChangePassword)
	account.POST("/logout", d.Auth.Logout)

	// Entry is open to both roles: a customer parks their own vehicle, an
	// owner records a walk-in at the booth.
	v1.POST("/sessions/entry", d.Movements.Entry, auth, anyRole)

	// Operator surface.
	owner := v1.Group("", auth, ownerOnly)
	owner.POST("/rates", d.Rates.Create)
	owner.POST("/sessions/:plate/exit", d.Movements.Exit)
	owner.GET("/sessions/active", d.Movements.Active)
	owner.GET("/sessions/exit-log", d.Movements.ExitLog)
	owner.POST("/sessions/:id/recompute-fee", d.Movements.RecomputeFee)
	owner.POST("/payments/:plate", d.Payments.PayOnSpot)
	owner.GET("/payments/:id", d.Payments.Get)
	owner.GET("/dashboard/stats", d.Dashboard.Stats)
	owner.GET("/dashboard/weekly-revenue", d.Dashboard.WeeklyRevenue)
	owner.GET("/dashboard/payment-summary", d.Dashboard.PaymentSummary)
	owner.POST("/gate-events", d.Gate.Receive)
	owner.POST("/gate-events/batch", d.Gate.ReceiveBatch)

	// Customer self-service surface.
	me := v1.Group("/customers/me", auth, customerOnly)
	me.POST("/credit", d.Customers.AddCredit)
	me.GET("/balance", d.Customers.Balance)
	me.POST("/plates", d.Customers.RegisterPlate)
	me.DELETE("/plates/:plate", d.Customers.UnregisterPlate)
	me.GET("/plates", d.Customers.ListPlates)
	me.GET("/current-parking", d.Customers.CurrentParking)
	me.GET("/parking-history", d.Customers.History)
	me.GET("/stats", d.Customers.Stats)

	v1.POST("/sessions/:id/pay-with-credit", d.Payments.PayWithCredit, auth, customerOnly)

	return e
}
