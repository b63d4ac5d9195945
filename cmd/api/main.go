// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"baro/internal/adapter/storage"
	"baro/internal/adapter/weather"
	"baro/internal/config"
	"baro/internal/server"
	feedbackService "baro/internal/service/feedback"
	partyService "baro/internal/service/party"
	"baro/internal/service/recommend"
	reputationService "baro/internal/service/reputation"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Environment)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer natsConn.Close()

	// Initialize storage adapters
	facilityStore := storage.NewFacilityStore(db)
	partyStore := storage.NewPartyStore(db)
	feedbackStore := storage.NewFeedbackStore(db)
	reputationStore := storage.NewReputationStore(db)
	chatStore := storage.NewChatStore(db)

	// Initialize the weather gate
	weatherGate := weather.NewGate(weather.Config{
		BaseURL:         cfg.Weather.BaseURL,
		RequestTimeout:  cfg.Weather.RequestTimeout,
		MaxPrecipMm:     cfg.Weather.MaxPrecipMm,
		MinTemperatureC: cfg.Weather.MinTemperatureC,
		MaxTemperatureC: cfg.Weather.MaxTemperatureC,
	})

	// Initialize services
	recommender := recommend.NewFacilityRecommender(
		facilityStore,
		facilityStore,
		facilityStore,
		weatherGate,
		recommend.Config{
			DefaultLimit:  cfg.Recommend.DefaultLimit,
			MaxDistanceKm: cfg.Recommend.MaxDistanceKm,
		},
	)

	partyLifecycle := partyService.NewLifecycleService(partyStore, uuid.NewString)
	partyFinder := partyService.NewProximityFinder(partyStore, partyService.FinderConfig{
		DefaultLimit:  cfg.Party.DefaultLimit,
		MaxDistanceKm: cfg.Party.MaxDistanceKm,
	})

	mannerUpdater := reputationService.NewMannerUpdater(reputationStore)

	ratingService := feedbackService.NewRatingService(
		feedbackStore,
		mannerUpdater,
		natsConn,
		clockwork.NewRealClock(),
		feedbackService.Config{
			EventsTopic: cfg.Feedback.EventsTopic,
			WindowDays:  cfg.Feedback.WindowDays,
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg,
		natsConn,
		recommender,
		partyLifecycle,
		partyFinder,
		ratingService,
		chatStore,
	)

	// Start HTTP server
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// setupLogging configures the global logger
func setupLogging(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
