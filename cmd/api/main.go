package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canine-registry/internal/adapters/auth/jwtauth"
	"canine-registry/internal/adapters/storage/postgres"
	"canine-registry/internal/platform/config"
	"canine-registry/internal/platform/logger"
	"canine-registry/internal/ports/auth"
	"canine-registry/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	var verifier auth.AuthVerifier
	if cfg.JWTSigningKey != "" {
		v, err := jwtauth.NewVerifier(cfg.JWTSigningKey)
		if err != nil {
			log.Error("jwt verifier init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = v
	} else {
		log.Warn("no JWT_SIGNING_KEY: running in dev mode with debug headers", nil)
	}

	// Con DB_DSN configurada, la DB tiene que estar: nunca degradamos en
	// silencio a storage en memoria.
	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("database open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		db = opened
		defer db.Close()
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("no DB_DSN: using in-memory storage", nil)
	}

	r := router.NewRouter(router.Options{AuthVerifier: verifier, DB: db})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"err": err.Error()})
		return
	}
	log.Info("server stopped", nil)
}
