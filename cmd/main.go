package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/events"
	"ridersclub/backend/internal/handler"
	"ridersclub/backend/internal/jobs"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/crypto"
	jwtpkg "ridersclub/backend/pkg/jwt"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 3. Connect to the database
	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.AutoMigrateEnabled() {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	} else if err := model.SetupJoinTables(db); err != nil {
		logger.Fatal("failed to register join tables", zap.Error(err))
	}

	// 5. Token revocation store (Redis or in-memory)
	var denylist repository.TokenDenylist
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		denylist = repository.NewRedisTokenDenylist(redisClient)
		logger.Info("using Redis token denylist")
	case "", "memory":
		denylist = repository.NewMemoryTokenDenylist()
		logger.Info("using in-memory token denylist")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Outbound integrations
	publisher, err := events.NewPublisher(cfg.Events, logger)
	if err != nil {
		logger.Fatal("failed to set up event publisher", zap.String("backend", cfg.Events.Backend), zap.Error(err))
	}
	defer publisher.Close()

	mailer, err := service.NewMailSender(cfg.Mail)
	if err != nil {
		logger.Fatal("failed to set up mail sender", zap.Error(err))
	}
	if mailer == nil {
		logger.Info("mail disabled, review notifications will not be sent")
	}

	// 7. Services
	repos := repository.NewRepositories(db)
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	hasher := crypto.NewHasher(crypto.DefaultCost)

	authService := service.NewAuthService(repos, denylist, jwtManager, hasher, cfg.Auth.PasswordMinLength, logger)
	membershipService := service.NewMembershipService(repos, hasher, publisher, mailer, cfg.Auth.ApplicationPasswordMinLength, logger)
	zoneService := service.NewZoneService(repos.Zones)
	riderService := service.NewRiderService(repos)
	eventService := service.NewEventService(repos, publisher, logger)
	postService := service.NewPostService(repos)
	benefitService := service.NewBenefitService(repos, publisher, logger)
	noticeService := service.NewNoticeService(repos.Notices)

	// 8. Background jobs
	scheduler := jobs.NewScheduler(logger)
	if cfg.Jobs.EventSweeperEnabled {
		if err := scheduler.Add("event-sweeper", cfg.Jobs.EventSweeperSpec, jobs.EventSweeper(eventService, logger)); err != nil {
			logger.Fatal("failed to schedule event sweeper", zap.Error(err))
		}
		scheduler.Start()
		logger.Info("event sweeper scheduled", zap.String("spec", cfg.Jobs.EventSweeperSpec))
	}

	// 9. Handlers and router
	media := dto.NewMedia(cfg.Media.BaseURL, cfg.Media.URLPrefix)
	router := handler.SetupRouter(cfg, logger, authService, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, media),
		Zones:        handler.NewZoneHandler(zoneService),
		Applications: handler.NewApplicationHandler(membershipService, media),
		Riders:       handler.NewRiderHandler(riderService, media),
		Events:       handler.NewEventHandler(eventService, riderService, media),
		Posts:        handler.NewPostHandler(postService, media),
		Benefits:     handler.NewBenefitHandler(benefitService, media),
		Notices:      handler.NewNoticeHandler(noticeService),
		Users:        handler.NewUserHandler(service.NewUserService(repos.Users)),
		Health:       handler.NewHealthHandler(repos),
	})

	// 10. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 11. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
