// Package main - точка входа HTTP-сервера StepClass Hub.
//
// Сервер обслуживает:
// - CRUD дневных записей упражнений с синхронной выдачей бейджей
// - Статистику по студенту за периоды day/week/month
// - Сводный и категорийный рейтинги, пересчитываемые на каждый запрос
// - Каталог бейджей и бейджи студента
// - Аутентификацию с отзываемыми сессиями
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stepclass/stepclass-hub/config"
	"github.com/stepclass/stepclass-hub/internal/application/command"
	"github.com/stepclass/stepclass-hub/internal/application/query"
	"github.com/stepclass/stepclass-hub/internal/infrastructure/auth"
	"github.com/stepclass/stepclass-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/stepclass/stepclass-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/stepclass/stepclass-hub/internal/interface/http"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/retry"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Output:    os.Stdout,
		AddCaller: cfg.App.Debug,
	}).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logger.Err(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	var conn *postgres.Connection
	startup := retry.StartupRetrier()
	err := startup.Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return err
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()
	log.Info("postgres connected")

	if cfg.Database.AutoMigrate {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (sessions)
	// ─────────────────────────────────────────────────────────────────────────
	redisClient, err := redisstore.NewClient(ctx, redisstore.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("redis connected")

	sessions := redisstore.NewSessionStore(redisClient)

	// ─────────────────────────────────────────────────────────────────────────
	// Wiring
	// ─────────────────────────────────────────────────────────────────────────
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	studentRepo := postgres.NewStudentRepository(conn)
	exerciseRepo := postgres.NewExerciseRepository(conn)
	badgeRepo := postgres.NewBadgeRepository(conn)

	clock := timeutil.RealClock{}

	awardBadges := command.NewAwardBadgesHandler(badgeRepo, exerciseRepo, clock, log)

	var evaluator command.BadgeEvaluator = awardBadges
	if !cfg.Features.IsEnabled(config.FeatureBadgeEvaluation) {
		log.Warn("badge evaluation disabled by feature flag")
		evaluator = noopEvaluator{}
	}

	recordExercise := command.NewRecordExerciseHandler(exerciseRepo, evaluator, log)
	login := command.NewLoginHandler(studentRepo, tokens, sessions, cfg.Auth.TokenTTL, log)

	deps := httpapi.Dependencies{
		RecordExerciseHandler: recordExercise,
		LoginHandler:          login,
		GetLeaderboardHandler: query.NewGetLeaderboardHandler(studentRepo, exerciseRepo, badgeRepo, clock, log),
		GetStatisticsHandler:  query.NewGetStatisticsHandler(exerciseRepo, clock, log),
		GetRecordsHandler:     query.NewGetRecordsHandler(exerciseRepo, clock, log),
		GetBadgesHandler:      query.NewGetBadgesHandler(badgeRepo, log),
		TokenManager:          tokens,
		Sessions:              sessions,
		HealthChecker:         conn.Ping,
		Logger:                log,
	}

	server := httpapi.NewServer(httpapi.Config{
		Host:               cfg.HTTP.Host,
		Port:               cfg.HTTP.Port,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:     1 << 20,
		EnableCORS:         cfg.HTTP.EnableCORS,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	}, deps)

	// ─────────────────────────────────────────────────────────────────────────
	// Lifecycle
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// noopEvaluator satisfies the badge pipeline when evaluation is switched off.
type noopEvaluator struct{}

func (noopEvaluator) Handle(_ context.Context, cmd command.AwardBadgesCommand) (*command.AwardBadgesResult, error) {
	return &command.AwardBadgesResult{StudentID: cmd.StudentID}, nil
}
