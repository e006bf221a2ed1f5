// Package main implements the Ideenboard server, an HTTP facade over a
// Dataverse environment for managing digitalization ideas and board
// meetings. Authentication uses the OAuth 2.0 device flow, with the
// credential record held in a shared file or Redis cache.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/authflow"
	"github.com/sgsw/ideenboard/internal/dataverse"
	"github.com/sgsw/ideenboard/internal/employees"
	"github.com/sgsw/ideenboard/internal/ideas"
	"github.com/sgsw/ideenboard/internal/meetings"
	"github.com/sgsw/ideenboard/internal/tokenstore"
)

// Version is set by the build process
var Version = "dev"

func main() {
	// Local development convenience, a missing .env file is fine
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	var store tokenstore.Store
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parsing Redis URL")
		}
		redisClient = redis.NewClient(redisOpts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("connecting to Redis")
		}
		cancel()

		store = tokenstore.NewRedisStore(redisClient)
		logger.Info().Msg("using Redis credential store")
	} else {
		store = tokenstore.NewFileStore(cfg.TokenCachePath, logger)
		logger.Info().Str("path", cfg.TokenCachePath).Msg("using file credential store")
	}

	manager := authflow.NewManager(authflow.Config{
		Tenant:        cfg.DataverseTenantID,
		ClientID:      cfg.DataverseClientID,
		Resource:      cfg.DataverseBaseURL,
		RefreshBuffer: cfg.TokenRefreshBuffer,
	}, store, logger)

	client := dataverse.NewClient(cfg.DataverseBaseURL, manager, logger)

	employeeService := employees.NewService(client, cfg.EmployeeCacheTTL, logger)
	defer employeeService.Close()

	srv := newServer(cfg, logger, manager,
		client,
		ideas.NewService(client, logger),
		meetings.NewService(client, logger),
		employeeService,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().Int("port", cfg.Port).Str("version", Version).Msg("server listening")
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal().Err(err).Msg("server failed")

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("starting shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutting down server")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("closing server")
			}
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("closing Redis connection")
			}
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
