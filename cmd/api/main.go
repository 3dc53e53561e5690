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
	"github.com/rs/zerolog/log"

	"github.com/emmanuelmensahx/specialist-engine/internal/adapters/events"
	"github.com/emmanuelmensahx/specialist-engine/internal/adapters/roster"
	"github.com/emmanuelmensahx/specialist-engine/internal/adapters/store"
	"github.com/emmanuelmensahx/specialist-engine/internal/api/handlers"
	"github.com/emmanuelmensahx/specialist-engine/internal/api/routes"
	"github.com/emmanuelmensahx/specialist-engine/internal/application/services"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/providers"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
	redisclient "github.com/emmanuelmensahx/specialist-engine/internal/infrastructure/clients/redis"
	"github.com/emmanuelmensahx/specialist-engine/internal/infrastructure/observability"
	"github.com/emmanuelmensahx/specialist-engine/pkg/config"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("specialist-engine", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the specialist roster (record store)
	var specialistRepo repositories.SpecialistRepository
	if cfg.Engine.RosterPath != "" {
		specialistRepo, err = roster.LoadFile(cfg.Engine.RosterPath)
	} else {
		specialistRepo, err = roster.LoadEmbedded()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load specialist roster")
	}

	// Redis is optional: without it the engine runs fully in-process
	var redisClient *redisclient.Client
	if cfg.Store.Driver == "redis" {
		redisClient, err = redisclient.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis client, falling back to memory store")
		}
	}

	// Availability persistence
	var availabilityStore repositories.AvailabilityStore
	switch {
	case cfg.Store.Driver == "badger":
		availabilityStore, err = store.NewBadgerStore(cfg.Store.BadgerPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open badger store")
		}
		log.Info().Str("path", cfg.Store.BadgerPath).Msg("availability persisted to badger")
	case redisClient != nil:
		availabilityStore = store.NewRedisStore(redisClient)
		log.Info().Msg("availability persisted to redis")
	default:
		availabilityStore = store.NewMemoryStore()
		log.Info().Msg("availability held in memory only")
	}
	defer availabilityStore.Close()

	// Change notifier
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		eventBus = events.NewMemoryEventBus()
	}

	// Availability tracker
	trackerOpts := []services.TrackerOption{}
	if cfg.Simulation.Seed != 0 {
		trackerOpts = append(trackerOpts, services.WithRandomSeed(cfg.Simulation.Seed))
	}
	tracker, err := services.NewAvailabilityTracker(ctx, specialistRepo, availabilityStore, eventBus, trackerOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize availability tracker")
	}

	// Availability simulation
	var scheduler *services.SimulationScheduler
	if cfg.Simulation.Enabled {
		scheduler = services.NewSimulationScheduler(tracker)
		if err := scheduler.Start(ctx, cfg.Simulation.StatusInterval, cfg.Simulation.PresenceInterval); err != nil {
			log.Fatal().Err(err).Msg("failed to start availability simulation")
		}
	}

	// Recommendation engine
	recommender := services.NewRecommendationService(
		specialistRepo,
		tracker,
		services.NewSpecialtyMatcher(),
		services.NewGeoIndex(),
	)
	recommender.SetMaxResults(cfg.Engine.MaxResults)

	// Handlers and routes
	router := routes.NewRouter(
		handlers.NewSpecialistHandler(recommender),
		handlers.NewAvailabilityHandler(tracker),
		handlers.NewSSEHandler(eventBus),
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis client")
		}
	}

	log.Info().Msg("server stopped")
}
