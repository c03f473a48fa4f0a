package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Route names stay in Portuguese for
// compatibility with the existing web frontend.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/Usuarios")
	users.Post("/login", cfg.Users.Login)
	users.Post("/registrar-admin", cfg.Users.RegisterAdmin)
	users.Post("/esqueci-senha", cfg.Users.ForgotPassword)
	users.Post("/resetar-senha", cfg.Users.ResetPassword)
	users.Get("/perfil", cfg.AuthMiddleware.Handle, cfg.Users.Profile)

	app.Get("/Categorias", cfg.Catalog.ListCategories)
	app.Get("/Prioridades", cfg.Catalog.ListPriorities)
	app.Get("/Status", cfg.Catalog.ListStatuses)

	tickets := app.Group("/Chamados", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/analisar", cfg.Tickets.Analyze)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
}
