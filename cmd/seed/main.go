package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/seed"
	"ridersclub/backend/pkg/crypto"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	fixturesPath := flag.String("fixtures", "", "fixtures file (defaults to seed.fixtures_path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	path := *fixturesPath
	if path == "" {
		path = cfg.Seed.FixturesPath
	}
	if path == "" {
		path = "fixtures.yaml"
	}
	fx, err := seed.LoadFixtures(path)
	if err != nil {
		logger.Fatal("failed to load fixtures", zap.String("path", path), zap.Error(err))
	}

	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(repository.NewRepositories(db), crypto.NewHasher(crypto.DefaultCost), logger)
	report, err := seeder.Run(ctx, fx, seed.Admin{
		Phone:    cfg.Seed.AdminPhone,
		Password: cfg.Seed.AdminPassword,
		Email:    cfg.Seed.AdminEmail,
	})
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seeding completed",
		zap.Int("zones", report.Zones),
		zap.Int("categories", report.Categories),
		zap.Int("benefits", report.Benefits),
		zap.Int("events", report.Events),
		zap.Bool("admin_created", report.AdminNew),
	)
}
