package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kidwise/api/internal/config"
	"github.com/kidwise/api/internal/content"
	"github.com/kidwise/api/internal/database"
	"github.com/kidwise/api/internal/eventbus"
	"github.com/kidwise/api/internal/handlers"
	"github.com/kidwise/api/internal/llm"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/repository"
	"github.com/kidwise/api/internal/telemetry"
	"github.com/kidwise/api/internal/usage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) error {
	logger.Info("KidWise API starting",
		zap.String("version", version),
		zap.String("environment", cfg.Environment),
	)

	shutdownTelemetry, err := telemetry.InitTracer(ctx, "kidwise-api", cfg.OTLPEndpoint)
	if err != nil {
		// The collector is optional.
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	if migrate {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.NewPostgres(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	d := deps{DBPing: db.Ping}

	rdb, err := database.NewRedis(connectCtx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, logout will not revoke tokens", zap.Error(err))
	} else {
		defer rdb.Close()
		d.Revocations = rdb
		d.Revoker = rdb
		d.RedisPing = rdb.Ping
	}

	events, err := eventbus.Connect(cfg.NATSURL, logger)
	if err != nil {
		logger.Warn("NATS unavailable, domain events disabled", zap.Error(err))
		events = eventbus.Noop()
	}
	defer events.Close()
	d.Events = events

	completer, err := llm.New(llm.Config{
		Provider: cfg.AIProvider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
		Timeout:  cfg.AITimeout,
	}, logger)
	if err != nil {
		return err
	}

	breaker := middleware.NewCircuitBreaker()
	breaker.OnStateChange = func(from, to middleware.CircuitState) {
		logger.Warn("AI circuit changed state", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	d.Breaker = breaker

	d.Generator = content.NewOrchestrator(llm.WithBreaker(completer, breaker), content.Options{
		MaxOutputTokens: cfg.AIMaxOutputTokens,
		Retry: content.RetryPolicy{
			MaxRetries: cfg.AIMaxRetries,
			BaseDelay:  cfg.AIBaseRetryDelay,
		},
	}, logger)

	pool := db.Pool()
	d.Users = repository.NewUserRepository(pool)
	d.Children = repository.NewChildRepository(pool)
	d.Questions = repository.NewQuestionRepository(pool)
	d.Plans = repository.NewPlanRepository(pool)
	d.Usage = usage.NewService(repository.NewGenerationLogRepository(pool), cfg.AIProvider, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, d, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited gracefully")
	return nil
}

var _ handlers.TokenRevoker = (*database.Redis)(nil)
