package main

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/repositories/postgres"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Exit codes for the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal arrives. Deferred cleanups run before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage, Postgres when configured, Badger otherwise
	var (
		store        contract.IUnitOfWorkFactory
		db           *badger.DB
		blocked      = config.Words()
		debugWorkers []contract.Worker
	)
	if config.UsePostgres() {
		pool, err := postgres.NewPool(ctx, config.DatabaseURL, config.DBMaxConns)
		if err != nil {
			return exitRuntime, err
		}
		defer pool.Close()
		pgStore, err := postgres.NewChatStore(pool, log, postgres.WithSchema(config.DBSchema))
		if err != nil {
			return exitConfig, err
		}
		if err := pgStore.Migrate(ctx); err != nil {
			return exitRuntime, err
		}
		store = pgStore
		log.Info("Using PostgreSQL store", "schema", config.DBSchema)
	} else {
		db, err = badger.Open(badgerOptions(ctx, config, log))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		badgerStore, err := repositories.NewChatStore(db, log)
		if err != nil {
			return exitRuntime, err
		}
		defer func() { _ = badgerStore.Close() }()
		store = badgerStore

		stored, err := repositories.LoadCensoredWords(db)
		if err != nil {
			return exitRuntime, err
		}
		blocked = append(blocked, stored...)
		log.Info("Using BadgerDB store", "path", config.BadgerFilepath)
	}

	// 3. Domain components
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	moderator, err := moderation.NewModerator(blocked, charReplacement, log)
	if err != nil {
		return exitRuntime, err
	}
	broker := runtime.NewEventBroker(log,
		runtime.WithAckTimeout(config.AckTimeout),
		runtime.WithMetrics(metrics))
	coordinator := services.NewChatCoordinator(log, store, broker,
		services.WithModerator(moderator),
		services.WithCoordinatorMetrics(metrics))
	tokens := auth.NewTokens(config.JWTSecret)
	authService := services.NewAuthService(store, tokens, config.AuthTokenDuration)

	// 4. Transport
	gateway := ws.NewGateway(log, broker, coordinator,
		ws.WithPollInterval(config.PollInterval),
		ws.WithRateLimit(config.WSRatePerSec, int(math.Ceil(config.WSRatePerSec))),
		ws.WithMetrics(metrics))
	server := workers.NewHTTPServerWorker(log, config.Addr(), ws.NewRouter(log, gateway, tokens, authService, registry))
	if _, err := server.Listen(); err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.Addr(), err)
	}

	if db != nil && log.Enabled(ctx, slog.LevelDebug) {
		addr := fmt.Sprintf("localhost:%d", config.DebugPort)
		log.Info("Debug Badger inspector available", "url", "http://"+addr+"/debug/badger?prefix=user:")
		debugWorkers = append(debugWorkers, workers.NewHTTPServerWorker(log, addr, debugMux(db)))
	}

	// 5. Supervision, blocks until the signal
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(server, workers.NewTelemetryWorker(log, config.TelemetryInterval, broker, metrics))
	sup.Add(debugWorkers...)

	log.Info("Relay started", "addr", config.Addr(), "ack_timeout", config.AckTimeout)
	sup.Run(ctx)
	log.Info("Program stopped cleanly")
	return exitOK, nil
}

func badgerOptions(ctx context.Context, config internal.Config, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
