package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/micro-watch/host-presence/internal/config"
	"github.com/micro-watch/host-presence/internal/engine"
	httpapi "github.com/micro-watch/host-presence/internal/http"
	"github.com/micro-watch/host-presence/internal/logging"
	"github.com/micro-watch/host-presence/internal/notify"
	"github.com/micro-watch/host-presence/internal/resolver"
	"github.com/micro-watch/host-presence/internal/session"
	"github.com/micro-watch/host-presence/internal/storage"
	"github.com/micro-watch/host-presence/internal/surface"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	channels, err := config.LoadChannels(cfg.ChannelsPath)
	if err != nil {
		logger.Error("failed to load channel configuration", "path", cfg.ChannelsPath, "err", err)
		os.Exit(1)
	}
	notifiers, err := channels.Build()
	if err != nil {
		logger.Error("invalid channel configuration", "err", err)
		os.Exit(1)
	}
	dispatcher := notify.NewDispatcher(notifiers, logger)

	var history *storage.Repository
	if cfg.DBPath != "" {
		if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
			logger.Error("failed to create db directory", "err", err)
			os.Exit(1)
		}
		history, err = storage.New(ctx, cfg.DBPath, logger)
		if err != nil {
			logger.Error("failed to initialize storage", "err", err)
			os.Exit(1)
		}
		defer history.Close()
	}

	hub := httpapi.NewHub(logger)
	surfaces := surface.Multi{surface.NewHeadless(logger), hub}

	var engineHistory engine.History
	if history != nil {
		engineHistory = history
	}
	eng := engine.New(cfg.Identity(), resolver.New(), surfaces, dispatcher, engineHistory, logger)
	go eng.Run(ctx)

	launcher := session.New(session.Config{
		User:         cfg.SSHUser,
		IdentityFile: cfg.SSHIdentityFile,
	}, logger)

	var apiHistory httpapi.History
	if history != nil {
		apiHistory = history
	}
	api := httpapi.New(eng, apiHistory, launcher, hub, cfg.Headless, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr, "host", cfg.Host, "headless", cfg.Headless)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
