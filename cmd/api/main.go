package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/roadbite/roadbite/internal/capability"
	"github.com/roadbite/roadbite/internal/config"
	"github.com/roadbite/roadbite/internal/gateway"
	"github.com/roadbite/roadbite/internal/handler"
	"github.com/roadbite/roadbite/internal/memory"
	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/internal/routing"
	"github.com/roadbite/roadbite/internal/service/engine"
	"github.com/roadbite/roadbite/internal/service/turns"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personas := persona.Seed()
	if cfg.PersonasFile != "" {
		personas, err = persona.ApplyOverrides(cfg.PersonasFile, personas)
		if err != nil {
			log.Fatalf("failed to apply persona overrides: %v", err)
		}
		log.Printf("applied persona overrides from %s", cfg.PersonasFile)
	}
	personaStore := persona.NewMemoryStore(personas)

	// Optional Redis mirror for session routing state.
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warning: redis unreachable at %s: %v", cfg.Redis.Addr, err)
			log.Println("continuing with in-memory session routing only")
		} else {
			log.Printf("session routing mirrored to redis at %s", cfg.Redis.Addr)
		}
	}

	sessionRouter := routing.New(personaStore, rdb)
	orders := gateway.NewOrderClient(cfg.Orders.BaseURL, cfg.Orders.Timeout)
	executor := capability.NewExecutor(orders, sessionRouter)
	memoryStore := memory.NewStore()

	if !cfg.Model.Enabled() {
		log.Fatalf("model provider %q has no usable credentials, set GEMINI_API_KEY or ARK_API_KEY + ARK_MODEL", cfg.Model.Provider)
	}

	// Each persona gets its own model instance; capability binding is
	// per-instance state.
	engines := make([]*engine.Engine, 0, len(personas))
	for _, p := range personas {
		chatModel, err := cfg.Model.NewChatModel(ctx)
		if err != nil {
			log.Fatalf("failed to initialize chat model for persona %s: %v", p.ID, err)
		}
		eng, err := engine.New(p, chatModel, executor, memoryStore, engine.Config{
			MaxToolRounds: cfg.Engine.MaxToolRounds,
			HistoryLimit:  cfg.Engine.HistoryLimit,
		})
		if err != nil {
			log.Fatalf("failed to build engine for persona %s: %v", p.ID, err)
		}
		engines = append(engines, eng)
	}
	log.Printf("initialized %d persona engines with provider %s", len(engines), cfg.Model.Provider)

	coordinator := turns.New(sessionRouter, engine.NewRegistry(engines...))
	router := handler.NewRouter(personaStore, coordinator)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Roadbite backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
