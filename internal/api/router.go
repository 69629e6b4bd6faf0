package api

import (
	"supportdesk/internal/api/handlers"
	"supportdesk/pkg/auth"
	"supportdesk/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	incidentHandler *handlers.IncidentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	jwtManager *auth.JWTManager,
	uploadDir string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if uploadDir != "" {
		app.Static("/uploads", uploadDir)
	}

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	chat := protected.Group("/chat")
	chat.Post("/sessions", chatHandler.CreateSession)
	chat.Get("/sessions/:id", chatHandler.GetSession)
	chat.Post("/sessions/:id/messages", chatHandler.SendMessage)
	chat.Get("/sessions/:id/messages", chatHandler.GetMessages)
	chat.Post("/sessions/:id/close", chatHandler.CloseSession)

	protected.Get("/knowledge-base", chatHandler.ListKnowledgeBase)

	incidents := protected.Group("/incidents")
	incidents.Post("", incidentHandler.CreateIncident)
	incidents.Get("", incidentHandler.ListIncidents)
	incidents.Get("/export/csv", incidentHandler.ExportIncidents)
	incidents.Get("/:id", incidentHandler.GetIncident)
	incidents.Patch("/:id/status", incidentHandler.UpdateStatus)
	incidents.Post("/:id/attachments", incidentHandler.UploadAttachment)

	protected.Get("/analytics/dashboard", analyticsHandler.Dashboard)

	return app
}
