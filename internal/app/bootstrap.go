package app

import (
	"fmt"
	"strings"

	"skill-compass/internal/config"
	"skill-compass/internal/delivery/http/handler"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(container)
	return app, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware().Middleware())
	app.Use(middleware.NewAccessLogMiddleware(nil).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(),
		handler.NewAuthHandler(c.Auth),
		handler.NewProfileHandler(c.Profile),
		handler.NewInterviewHandler(c.Interview),
		handler.NewAssessmentHandler(c.Assessment),
		handler.NewFeedbackHandler(c.Feedback, c.QuestionBank),
		handler.NewAdminHandler(c.Admin),
		middleware.NewAuthMiddleware(c.JWT),
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
