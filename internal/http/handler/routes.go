package handler

import (
	"github.com/gofiber/fiber/v2"

	"gsa/internal/http/middleware"
	"gsa/internal/service"
)

// Services are the use cases served over HTTP.
type Services struct {
	Entities  service.EntityService
	Tasks     service.TaskService
	Filters   service.FilterService
	Dashboard service.DashboardService
	Archives  service.ArchiveService
	Sessions  service.SessionService
}

// Options configure RegisterRoutes.
type Options struct {
	// DB is pinged by /health.
	DB Pinger
	// Verifier checks the gateway tokens of /api/v1 requests.
	Verifier middleware.TokenVerifier
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
}

// RegisterRoutes attaches the HTTP routes to app. Fixed paths are registered
// before the generic /:type routes so they take precedence.
func RegisterRoutes(app *fiber.App, opt Options, svc Services) {
	app.Get("/health", HealthCheck(opt.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1")
	api.Post("/login", Login(svc.Sessions, opt.SecureCookie))

	auth := api.Group("", middleware.RequireSession(opt.Verifier, unauthorized))
	auth.Post("/logout", Logout(svc.Sessions))
	auth.Post("/renew", RenewSession(svc.Sessions, opt.SecureCookie))
	auth.Get("/me", Me(svc.Sessions))

	auth.Get("/types", ListTypes(svc.Entities))
	auth.Get("/dashboard", Dashboard(svc.Dashboard))

	auth.Get("/filters/parse", ParseFilter(svc.Filters))
	auth.Post("/filters", CreateFilter(svc.Filters))
	auth.Put("/filters/:id", SaveFilter(svc.Filters))

	auth.Post("/tasks", CreateTask(svc.Tasks))
	auth.Put("/tasks/:id", SaveTask(svc.Tasks))
	auth.Post("/tasks/:id/start", StartTask(svc.Tasks))
	auth.Post("/tasks/:id/stop", StopTask(svc.Tasks))
	auth.Post("/tasks/:id/resume", ResumeTask(svc.Tasks))

	auth.Post("/reports/:id/archive", ArchiveReport(svc.Archives))
	auth.Get("/archives", ListArchives(svc.Archives))
	auth.Get("/archives/:id", GetArchive(svc.Archives))
	auth.Delete("/archives/:id", DeleteArchive(svc.Archives))

	auth.Get("/:type", ListEntities(svc.Entities))
	auth.Post("/:type/bulk-delete", BulkDelete(svc.Entities))
	auth.Post("/:type/export", ExportEntities(svc.Entities))
	auth.Get("/:type/:id", GetEntity(svc.Entities))
	auth.Delete("/:type/:id", DeleteEntity(svc.Entities))
	auth.Post("/:type/:id/clone", CloneEntity(svc.Entities))
}
