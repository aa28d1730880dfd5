package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"field-survey-bot/internal/bootstrap"
	"field-survey-bot/internal/config"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const notFoundHTML = "<h1>Risorsa non trovata</h1>"

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // Telegram updates are small
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestLogger(container.Logger))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
			"active_sessions": container.Sessions.Count(),
		}))
	})

	// Routes
	registerRoutes(app, cfg, container)

	// Static
	if cfg.App.StaticDir != "" {
		app.Static("/", cfg.App.StaticDir)
	}
	app.Use(notFound(cfg.App.StaticDir))

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	auth := serverutils.NewJwtMiddleware(cfg.App.JWTSecret)

	c.TelegramController.RegisterRoutes(app, auth)
	if c.ReportController != nil {
		c.ReportController.RegisterRoutes(app, auth)
	}
}

func requestLogger(l logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		l.Info("HTTP", "Request", map[string]interface{}{
			"method":   ctx.Method(),
			"url":      ctx.OriginalURL(),
			"status":   ctx.Response().StatusCode(),
			"duration": time.Since(start).String(),
		})
		return err
	}
}

// notFound answers unknown API routes with JSON and everything else with
// the site's error page.
func notFound(staticDir string) fiber.Handler {
	errorPage := filepath.Join(staticDir, "error.html")
	return func(ctx *fiber.Ctx) error {
		if strings.HasPrefix(ctx.Path(), "/api/") {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Api non disponibile"))
		}
		if staticDir != "" {
			if _, err := os.Stat(errorPage); err == nil {
				ctx.Status(fiber.StatusNotFound)
				return ctx.SendFile(errorPage)
			}
		}
		ctx.Status(fiber.StatusNotFound).Type("html")
		return ctx.SendString(notFoundHTML)
	}
}
