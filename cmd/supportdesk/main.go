package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"supportdesk/internal/api"
	"supportdesk/internal/api/handlers"
	"supportdesk/internal/repository"
	"supportdesk/internal/service"
	"supportdesk/pkg/auth"
	"supportdesk/pkg/config"
	"supportdesk/pkg/logger"
	"supportdesk/pkg/postgres"
	"supportdesk/pkg/redisclient"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting SupportDesk service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.InitSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Redis is optional; without it history reads go to Postgres.
	var cache service.TranscriptCache
	redisClient, err := redisclient.NewClient(ctx, &cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, history cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache = repository.NewHistoryCache(redisClient, appLogger)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	sessionRepo := repository.NewSessionRepository(db, appLogger)
	messageRepo := repository.NewMessageRepository(db, appLogger)
	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	incidentRepo := repository.NewIncidentRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	generator := buildGenerator(cfg, appLogger)
	if generator != nil {
		defer generator.Close()
	}

	chatService := service.NewChatService(sessionRepo, messageRepo, userRepo, knowledgeRepo, cache, generator, cfg.Chat, appLogger)
	kbService := service.NewKBService(knowledgeRepo, appLogger)
	incidentService := service.NewIncidentService(incidentRepo, cfg.Chat.UploadDir, appLogger)
	analyticsService := service.NewAnalyticsService(incidentRepo, sessionRepo, messageRepo, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, kbService, appLogger)
	incidentHandler := handlers.NewIncidentHandler(incidentService, chatService, appLogger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, chatHandler, incidentHandler, analyticsHandler, jwtManager, cfg.Chat.UploadDir, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

// buildGenerator selects the response strategy. A nil return means every
// turn is answered by the deterministic responder.
func buildGenerator(cfg *config.Config, appLogger *zap.Logger) service.Generator {
	mode := strings.ToLower(cfg.Chat.GeneratorMode)
	if mode == "mock" {
		appLogger.Info("Generator mode: mock")
		return nil
	}
	if cfg.GigaChat.APIKey == "" {
		appLogger.Warn("GIGACHAT_API_KEY is empty, falling back to mock responses")
		return nil
	}

	generator, err := service.NewGigaChatGenerator(&cfg.GigaChat, cfg.Chat.GenerateTimeout, appLogger)
	if err != nil {
		appLogger.Warn("GigaChat init failed, falling back to mock responses", zap.Error(err))
		return nil
	}
	appLogger.Info("Generator mode: gigachat")
	return generator
}
