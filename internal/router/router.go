package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/stockroom/backend/api/handler"
	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Asset  *apiHandler.AssetHandler
	Event  *apiHandler.EventHandler
	User   *apiHandler.UserHandler
	Stock  *apiHandler.StockHandler
	Ticket *apiHandler.TicketHandler
	Report *apiHandler.ReportHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMW func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	adminMW := middleware.RequireRole(domain.RoleAdmin)
	admin := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return authMW(adminMW(h))
	}

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMW(handlers.Auth.Logout))
	r.GET("/api/v1/auth/me", authMW(handlers.Auth.Me))

	// Assets and their audit trail
	r.GET("/api/v1/assets", authMW(handlers.Asset.List))
	r.POST("/api/v1/assets", authMW(handlers.Asset.Create))
	r.GET("/api/v1/assets/{id}", authMW(handlers.Asset.Get))
	r.PATCH("/api/v1/assets/{id}", authMW(handlers.Asset.Update))
	r.DELETE("/api/v1/assets/{id}", authMW(handlers.Asset.Delete))
	r.POST("/api/v1/assets/{id}/assign", authMW(handlers.Asset.Assign))
	r.POST("/api/v1/assets/{id}/status", authMW(handlers.Asset.SetStatus))
	r.GET("/api/v1/assets/{id}/events", authMW(handlers.Event.ListForAsset))

	r.GET("/api/v1/events", authMW(handlers.Event.List))
	r.GET("/api/v1/events/{id}", authMW(handlers.Event.Get))

	// User administration
	r.GET("/api/v1/users", admin(handlers.User.List))
	r.GET("/api/v1/users/{id}", admin(handlers.User.Get))
	r.PATCH("/api/v1/users/{id}", admin(handlers.User.Update))
	r.POST("/api/v1/users/{id}/role", admin(handlers.User.SetRole))

	// Catalog and consumable stock
	r.GET("/api/v1/products", authMW(handlers.Stock.ListProducts))
	r.POST("/api/v1/products", admin(handlers.Stock.CreateProduct))
	r.GET("/api/v1/products/{id}", authMW(handlers.Stock.GetProduct))
	r.GET("/api/v1/stock", authMW(handlers.Stock.ListStock))
	r.GET("/api/v1/stock/low", authMW(handlers.Report.LowStock))
	r.POST("/api/v1/stock/{productId}/movements", authMW(handlers.Stock.Move))
	r.GET("/api/v1/stock/{productId}/movements", authMW(handlers.Stock.ListMovements))

	// Service tickets
	r.GET("/api/v1/tickets", authMW(handlers.Ticket.List))
	r.POST("/api/v1/tickets", authMW(handlers.Ticket.Open))
	r.GET("/api/v1/tickets/{id}", authMW(handlers.Ticket.Get))
	r.POST("/api/v1/tickets/{id}/close", authMW(handlers.Ticket.Close))

	// Reports
	r.GET("/api/v1/reports/summary", authMW(handlers.Report.Summary))
	r.GET("/api/v1/reports/status-counts", authMW(handlers.Report.StatusCounts))
	r.GET("/api/v1/reports/valuation", authMW(handlers.Report.Valuation))

	return r
}
