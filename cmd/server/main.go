package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/stagerig/rigsim/backend-go/internal/asset"
	"github.com/stagerig/rigsim/backend-go/internal/auth"
	"github.com/stagerig/rigsim/backend-go/internal/config"
	"github.com/stagerig/rigsim/backend-go/internal/db"
	"github.com/stagerig/rigsim/backend-go/internal/db/dbgen"
	"github.com/stagerig/rigsim/backend-go/internal/export"
	"github.com/stagerig/rigsim/backend-go/internal/groups"
	mw "github.com/stagerig/rigsim/backend-go/internal/middleware"
	"github.com/stagerig/rigsim/backend-go/internal/rigs"
	"github.com/stagerig/rigsim/backend-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	rigGroups := groups.Defaults()
	if cfg.GroupsFile != "" {
		rigGroups, err = groups.Load(cfg.GroupsFile)
		if err != nil {
			slog.Error("load groups", "error", err, "path", cfg.GroupsFile)
			os.Exit(1)
		}
	}

	photos, err := asset.NewStore(cfg.PhotoDir)
	if err != nil {
		slog.Error("open photo store", "error", err, "dir", cfg.PhotoDir)
		os.Exit(1)
	}

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	rigService := rigs.NewService(queries)
	rigHandler := rigs.NewHandler(rigService)

	exportHandler := export.NewHandler(photos, cfg.Stage())

	hub := session.NewHub(logger)
	sessions := &sessionHandler{
		hub:     hub,
		auth:    authService,
		rigs:    rigService,
		groups:  rigGroups,
		stage:   cfg.Stage(),
		origins: originPatterns(cfg.Origins()),
		log:     logger,
	}

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.Len())
	}).Methods("GET")

	// Photo export (public, the editor works without an account)
	r.HandleFunc("/export/photo", exportHandler.ExportPhoto).Methods("POST")
	r.PathPrefix("/photos/").Handler(photos.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/rigs", rigHandler.List).Methods("GET")
	api.HandleFunc("/rigs", rigHandler.Create).Methods("POST")
	api.HandleFunc("/rigs/{rigId}", rigHandler.Get).Methods("GET")
	api.HandleFunc("/rigs/{rigId}", rigHandler.Delete).Methods("DELETE")
	api.HandleFunc("/rigs/{rigId}/scene", rigHandler.GetScene).Methods("GET")
	api.HandleFunc("/rigs/{rigId}/scene", rigHandler.PutScene).Methods("PUT")

	// WebSocket endpoints
	r.HandleFunc("/ws/session", sessions.Anonymous)
	r.HandleFunc("/ws/rig/{rigId}", sessions.Rig)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r), // outside the router so preflights skip route matching
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Stop sessions first so bound rigs are autosaved
		if err := hub.Stop(shutdownCtx); err != nil {
			slog.Error("stop sessions", "error", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originPatterns turns allowed origins into the host patterns the websocket
// handshake checks.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
