// main is the entry point of the students admin panel.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Build the students API client and the admin controller
//  4. Set up browser sessions and register the panel routes
//  5. Serve until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-admin --config=config/admin.yaml
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/aanand-mishra/students-hub/internal/admin"
	"github.com/aanand-mishra/students-hub/internal/client"
	"github.com/aanand-mishra/students-hub/internal/config"
	"github.com/aanand-mishra/students-hub/internal/http/handlers/panel"
	"github.com/aanand-mishra/students-hub/internal/logging"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoadAdmin()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := logging.Setup(cfg.Env)

	log.Info("starting students-admin",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.Int("page_size", cfg.PageSize),
	)

	// ── 3. API Client + Controller ────────────────────────────────────────
	api, err := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		log.Error("failed to build api client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ctrl := admin.NewController(api, cfg.LoginURL, log)

	// ── 4. Sessions + Routes ──────────────────────────────────────────────
	sessions := scs.New()
	sessions.Lifetime = cfg.Session.Lifetime
	sessions.Cookie.Name = cfg.Session.CookieName
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.Session.Secure

	registry := panel.NewRegistry(cfg.PageSize)
	handler := panel.New(ctrl, sessions, registry, log)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 5. Serve ──────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, log, registry, cfg.Session.Lifetime)

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// pruneSessions drops admin sessions whose cookie can no longer be valid.
func pruneSessions(ctx context.Context, log *slog.Logger, registry *panel.Registry, lifetime time.Duration) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Prune(lifetime); n > 0 {
				log.Debug("pruned idle admin sessions",
					slog.Int("pruned", n),
					slog.Int("live", registry.Len()))
			}
		}
	}
}
