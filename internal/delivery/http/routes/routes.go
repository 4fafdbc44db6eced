package routes

import (
	"skill-compass/internal/delivery/http/handler"
	"skill-compass/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Registry holds every route handler plus the auth middleware guarding the
// session-scoped groups.
type Registry struct {
	health     *handler.HealthHandler
	auth       *handler.AuthHandler
	profile    *handler.ProfileHandler
	interview  *handler.InterviewHandler
	assessment *handler.AssessmentHandler
	feedback   *handler.FeedbackHandler
	admin      *handler.AdminHandler

	authMw *middleware.AuthMiddleware
}

func NewRegistry(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	profile *handler.ProfileHandler,
	interview *handler.InterviewHandler,
	assessment *handler.AssessmentHandler,
	feedback *handler.FeedbackHandler,
	admin *handler.AdminHandler,
	authMw *middleware.AuthMiddleware,
) *Registry {
	return &Registry{
		health:     health,
		auth:       auth,
		profile:    profile,
		interview:  interview,
		assessment: assessment,
		feedback:   feedback,
		admin:      admin,
		authMw:     authMw,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.registerAPI(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	r.auth.RegisterRoutes(v1.Group("/auth"))

	// Question selection is readable without a session so the landing page
	// can preview the interview.
	r.interview.RegisterRoutes(v1.Group("/interview", r.optionalAuth()))

	protected := v1.Group("", r.authMw.Middleware())
	r.profile.RegisterRoutes(protected.Group("/profile"))
	r.assessment.RegisterRoutes(protected.Group("/assessment"))
	r.feedback.RegisterRoutes(protected.Group("/feedback"))

	// Admin auth is its own password header, not the session token.
	r.admin.RegisterRoutes(v1.Group("/admin"))
}

// optionalAuth runs the token middleware only when an Authorization header
// is present, so GET /interview/questions works anonymously while POST
// /interview/answers still sees the user id when a session exists.
func (r *Registry) optionalAuth() fiber.Handler {
	authenticated := r.authMw.Middleware()
	return func(c fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return authenticated(c)
	}
}
