package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/onetoc/onetoc-backend/config"
	"github.com/onetoc/onetoc-backend/db"
	"github.com/onetoc/onetoc-backend/handlers"
	"github.com/onetoc/onetoc-backend/live"
	"github.com/onetoc/onetoc-backend/repositories"
	api "github.com/onetoc/onetoc-backend/routes"
	"github.com/onetoc/onetoc-backend/services"
	"github.com/onetoc/onetoc-backend/storage"
	"github.com/onetoc/onetoc-backend/timer"
)

const schedulerInterval = 1 * time.Minute // How often the stale-match sweep runs

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Хранилище видео (Cloudflare R2). Без кредов поднимаемся с заглушкой,
	// загрузка видео при этом отключена.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2Bucket,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader = storage.NewDisabledUploader()
		logger.Warn("R2 credentials missing, video uploads disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	actionRepo := repositories.NewPostgresActionRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	infoRepo := repositories.NewPostgresMatchInfoRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	timerStore := repositories.NewPostgresTimerStore(dbConn)
	logger.Info("Repositories initialized")

	// Серверный таймер матча
	clock := clockwork.NewRealClock()
	timerKeeper := timer.NewKeeper(timerStore, clock, logger)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(clubRepo, teamRepo, actionRepo, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	actionService := services.NewActionService(actionRepo)
	matchService := services.NewMatchService(matchRepo, infoRepo, uploader, timerStore, logger)
	infoService := services.NewMatchInfoService(infoRepo)
	eventService := services.NewEventService(eventRepo, actionRepo, matchRepo, infoRepo, timerKeeper, wsHub, logger)
	lineupService := services.NewLineupService(lineupRepo, playerRepo, matchRepo)
	overviewService := services.NewOverviewService(matchService, infoService, eventService)
	logger.Info("Services initialized")

	// Планировщик: закрывает матчи с забытым таймером
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("Stale match scheduler started", slog.Duration("interval", schedulerInterval))

		// Run once immediately at startup, then on ticker
		if err := matchService.AutoFinishStaleMatches(context.Background()); err != nil {
			logger.Error("Scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := matchService.AutoFinishStaleMatches(context.Background()); err != nil {
				logger.Error("Scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	routeHandlers := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey, clock),
		Team:      handlers.NewTeamHandler(teamService),
		Player:    handlers.NewPlayerHandler(playerService),
		Action:    handlers.NewActionHandler(actionService),
		Match:     handlers.NewMatchHandler(matchService, overviewService),
		Event:     handlers.NewEventHandler(eventService),
		MatchInfo: handlers.NewMatchInfoHandler(infoService),
		Lineup:    handlers.NewLineupHandler(lineupService),
		Timer:     handlers.NewTimerHandler(timerKeeper),
		WebSocket: handlers.NewWebSocketHandler(wsHub, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := api.InitRoutes(routeHandlers, []byte(cfg.JWTSecretKey))
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
