package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/voiceout/platform/internal/api/http/handlers"
	"github.com/voiceout/platform/internal/auth"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Roles          *handlers.RolesHandler
	Auth           *handlers.AuthHandler
	Cases          *handlers.CasesHandler
	SelfHelp       *handlers.SelfHelpHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	app.Get("/roles", cfg.Roles.List)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Patch("/me", cfg.AuthMiddleware.Handle, cfg.Auth.UpdateMe)

	cases := app.Group("/cases", cfg.AuthMiddleware.Handle)
	cases.Get("/", cfg.Cases.ListCases)
	cases.Post("/", auth.RequirePermission(domain.PermSubmitReport), cfg.Cases.CreateCase)
	cases.Get("/:id", cfg.Cases.GetCase)
	cases.Post("/:id/start", auth.RequirePermission(domain.PermUpdateCaseStatus), cfg.Cases.StartProcessing)
	cases.Post("/:id/resolve", auth.RequirePermission(domain.PermUpdateCaseStatus), cfg.Cases.Resolve)
	cases.Post("/:id/notes", auth.RequirePermission(domain.PermAddCaseNotes), cfg.Cases.AddNote)
	cases.Get("/:id/professionals", cfg.Cases.ListProfessionals)
	cases.Post("/:id/referrals", auth.RequireAnyPermission(domain.PermReferCases, domain.PermAssignCases), cfg.Cases.Refer)

	selfHelp := app.Group("/self-help", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermUseSelfHelp))
	selfHelp.Get("/journal", cfg.SelfHelp.ListJournal)
	selfHelp.Post("/journal", cfg.SelfHelp.AddJournalEntry)
	selfHelp.Get("/assessments", cfg.SelfHelp.ListAssessments)
	selfHelp.Post("/assessments", cfg.SelfHelp.AddAssessment)
	selfHelp.Get("/mood", cfg.SelfHelp.ListMood)
	selfHelp.Post("/mood", cfg.SelfHelp.AddMoodCheckIn)
	selfHelp.Get("/safety-plan", cfg.SelfHelp.GetSafetyPlan)
	selfHelp.Put("/safety-plan", cfg.SelfHelp.PutSafetyPlan)
	selfHelp.Get("/export", cfg.SelfHelp.Export)
	selfHelp.Delete("/", cfg.SelfHelp.Clear)
}
