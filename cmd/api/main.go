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

	"github.com/jwebster45206/fading-suns/internal/config"
	"github.com/jwebster45206/fading-suns/internal/handlers"
	"github.com/jwebster45206/fading-suns/internal/logger"
	"github.com/jwebster45206/fading-suns/internal/middleware"
	"github.com/jwebster45206/fading-suns/internal/services/events"
	"github.com/jwebster45206/fading-suns/internal/storage"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Fading Suns API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"default_locale", cfg.DefaultLocale)

	locale, err := i18n.ParseTag(cfg.DefaultLocale)
	if err != nil {
		log.Error("Invalid default locale", "locale", cfg.DefaultLocale, "error", err)
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, storage.Options{
		DataDir:      cfg.DataDir,
		HistoryLimit: cfg.RollHistoryLimit,
		CharacterTTL: cfg.CharacterTTL,
	}, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	templates, err := storage.LoadTemplates(storageCtx, store)
	if err != nil {
		log.Error("Failed to load character templates", "error", err)
		os.Exit(1)
	}
	for _, spec := range templates {
		if err := spec.Validate(); err != nil {
			log.Warn("Invalid character template", "name", spec.Name, "error", err)
		}
	}
	log.Info("Character templates loaded", "count", len(templates))

	broadcaster := events.NewBroadcaster(store.Client(), log)
	resolver := roll.NewResolver(nil)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	charactersHandler := handlers.NewCharactersHandler(log, store, broadcaster, locale)
	mux.Handle("/v1/characters", charactersHandler)
	mux.Handle("/v1/characters/", charactersHandler)

	rollsHandler := handlers.NewRollsHandler(log, store, resolver, broadcaster, locale)
	mux.Handle("/v1/rolls/", rollsHandler)

	mux.Handle("/v1/reference", handlers.NewReferenceHandler(log, locale))

	mux.Handle("/v1/events/characters/", handlers.NewEventsHandler(store.Client(), log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(mux),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE stream stays open
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Server is shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
