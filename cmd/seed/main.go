package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"supportdesk/internal/models"
	"supportdesk/internal/repository"
	"supportdesk/internal/service"
	"supportdesk/pkg/config"
	"supportdesk/pkg/logger"
	"supportdesk/pkg/postgres"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type seedCatalog struct {
	Entries []seedEntry `yaml:"entries"`
}

type seedEntry struct {
	KBID           string                 `yaml:"kb_id"`
	Title          string                 `yaml:"title"`
	Category       string                 `yaml:"category"`
	RequiredFields []models.RequiredField `yaml:"required_fields"`
	SolutionSteps  string                 `yaml:"solution_steps"`
	Symptoms       []string               `yaml:"symptoms"`
	Tags           []string               `yaml:"tags"`
	SuccessRate    float64                `yaml:"success_rate"`
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.InitSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	kbService := service.NewKBService(knowledgeRepo, appLogger)

	appLogger.Info("Starting knowledge base seeding")

	entries := loadCatalog(appLogger)
	seeded, err := kbService.Seed(ctx, entries)
	if err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}

	appLogger.Info("Seeding finished", zap.Int("entries", seeded))
}

// loadCatalog reads the catalog file next to this command. Without the
// file the built-in catalog is used.
func loadCatalog(appLogger *zap.Logger) []*models.KBEntry {
	path := filepath.Join("cmd", "seed", "catalog.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		appLogger.Info("Catalog file not found, using built-in catalog", zap.String("path", path))
		return service.DefaultCatalog()
	}

	var catalog seedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		appLogger.Fatal("Malformed catalog file", zap.String("path", path), zap.Error(err))
	}
	if len(catalog.Entries) == 0 {
		appLogger.Info("Catalog file is empty, using built-in catalog", zap.String("path", path))
		return service.DefaultCatalog()
	}

	entries := make([]*models.KBEntry, 0, len(catalog.Entries))
	for _, e := range catalog.Entries {
		entries = append(entries, &models.KBEntry{
			KBID:           e.KBID,
			Title:          e.Title,
			Category:       e.Category,
			RequiredFields: e.RequiredFields,
			SolutionSteps:  e.SolutionSteps,
			Symptoms:       e.Symptoms,
			Tags:           e.Tags,
			SuccessRate:    e.SuccessRate,
		})
	}

	appLogger.Info("Catalog file loaded", zap.String("path", path), zap.Int("entries", len(entries)))
	return entries
}
