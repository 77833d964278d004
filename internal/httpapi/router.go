// Package httpapi is the HTTP Surface: it wires every endpoint onto the orchestrator, the
// Persistence Adapter, and the streaming substrate.
package httpapi

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"underwriting-engine/internal/config"
	appmiddleware "underwriting-engine/internal/middleware"
	"underwriting-engine/internal/orchestrator"
	"underwriting-engine/internal/persist"
	"underwriting-engine/internal/wshub"
)

// Server holds every dependency the route handlers close over.
type Server struct {
	cfg   *config.Config
	orch  *orchestrator.Orchestrator
	store *persist.Store
	hub   *wshub.Hub
}

func NewServer(cfg *config.Config, orch *orchestrator.Orchestrator, store *persist.Store) *Server {
	return &Server{
		cfg:   cfg,
		orch:  orch,
		store: store,
		hub:   wshub.NewHub(orch, store),
	}
}

// NewApp builds the Fiber app with the full middleware chain and route table.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Underwriting Engine v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(appmiddleware.ErrorResponse{Error: "request_error", Detail: err.Error()})
		},
	})

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(appmiddleware.ErrorHandler)
	app.Use(appmiddleware.PerformanceMiddleware)

	prom := fiberprometheus.New("underwriting-engine")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(limiter.New(limiter.Config{
		Max:        s.cfg.RateLimitGlobalMax,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "rate_limited", "detail": "Too many requests, slow down"})
		},
	}))

	agentLimiter := limiter.New(limiter.Config{
		Max:        s.cfg.RateLimitAgentMax,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "rate_limited", "detail": "Underwriting pipeline rate limit exceeded"})
		},
	})

	reportLimiter := limiter.New(limiter.Config{
		Max:        s.cfg.RateLimitReportMax,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "rate_limited", "detail": "Report query rate limit exceeded"})
		},
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("🏢 Underwriting Engine")
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "live"})
	})
	app.Get("/health/ready", s.handleHealthReady)

	if s.cfg.EnableWebSocket {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/:clientId", websocket.New(s.hub.HandleConnection))
	}

	api := app.Group("/api/v1/underwriting")
	api.Get("/health", s.handleHealth)
	api.Post("/process", agentLimiter, s.handleProcess)
	api.Post("/process/stream", agentLimiter, s.handleProcessStream)
	api.Post("/process/file", agentLimiter, s.handleProcessFile)
	api.Get("/agents", s.handleAgents)
	api.Get("/sample-data", s.handleSampleData)
	api.Post("/demo", agentLimiter, s.handleDemo)
	api.Get("/reports", reportLimiter, s.handleReports)
	api.Get("/reports/:appId", reportLimiter, s.handleReportByID)
	api.Get("/reports/:appId/all", reportLimiter, s.handleReportAllVersions)
	api.Get("/dashboard-data", reportLimiter, s.handleDashboardData)

	return app
}
