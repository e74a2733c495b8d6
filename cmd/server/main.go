package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"voice-notes/internal/auth"
	"voice-notes/internal/config"
	"voice-notes/internal/db"
	"voice-notes/internal/handlers"
	"voice-notes/internal/resources"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "server configuration file")
	addr := flag.String("addr", "", "listen address, overrides configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTP.Address = *addr
	}
	log := mustMakeLogger(cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Error("cannot create data directory", "error", err)
		os.Exit(1)
	}
	database, err := db.New(log, cfg.DBPath)
	if err != nil {
		log.Error("cannot open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Error("cannot generate jwt secret", "error", err)
			os.Exit(1)
		}
		cfg.JWTSecret = hex.EncodeToString(secret)
		log.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	a := auth.New(database, log, cfg.JWTSecret, cfg.JWTTTL)
	svc := resources.New(database, log)
	h := handlers.New(svc, a, log, cfg.HTTP.Timeout, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler: h.Routes(ctx, handlers.RouteOptions{
			CORSOrigins: cfg.CORSOrigins,
			RateLimit:   cfg.RateLimit.Enabled,
			RPS:         cfg.RateLimit.RPS,
			Burst:       cfg.RateLimit.Burst,
			IPHeader:    cfg.HTTP.IPHeader,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("voice-notes http server", "address", server.Addr, "version", version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
