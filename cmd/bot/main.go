// Package main initializes and starts the hoyolink bot: configuration,
// logging, the user store, the upstream adapters, the Telegram poller
// and the health-check HTTP server.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/hoyolink/hoyolink/internal/bot"
	"github.com/hoyolink/hoyolink/internal/config"
	"github.com/hoyolink/hoyolink/internal/db"
	"github.com/hoyolink/hoyolink/internal/enka"
	"github.com/hoyolink/hoyolink/internal/gameapi"
	"github.com/hoyolink/hoyolink/internal/logger"
	"github.com/hoyolink/hoyolink/internal/server/handler/http"
	"github.com/hoyolink/hoyolink/internal/store"
	"github.com/hoyolink/hoyolink/internal/telegram"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// A missing token cannot run degraded.
	if options.BotToken == "" {
		zapLogger.Fatal("missing BOT_TOKEN")
	}

	// Pick the user store engine: Postgres when a DSN is configured,
	// the JSON file otherwise.
	var userStore store.Repository
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		userStore = store.NewPostgresStore(postgresDB)
		zapLogger.Info("using postgres user store")
	} else {
		fileStore, err := store.NewFileStore(options.DataFile)
		if err != nil {
			zapLogger.Fatal("cannot init users file", zap.Error(err))
		}
		userStore = fileStore
		zapLogger.Info("using file user store", zap.String("path", options.DataFile))
	}

	// Upstream adapters.
	fetcher := enka.NewFetcher(options.EnkaBase, zapLogger)
	newClient := func(payload gameapi.AuthPayload, uid string) gameapi.Client {
		return gameapi.NewHoyoClient(payload, uid)
	}

	// Command layer.
	commands := bot.New(userStore, fetcher, newClient, options.PurgeOnRelink, zapLogger)

	// Health server for platform probes.
	statusHandler := http.NewStatusHandler(userStore, cmp.Or(version, "N/A"))
	router := http.NewRouter(statusHandler, zapLogger)
	go func() {
		zapLogger.Info("starting health server", zap.String("addr", options.Port))
		if err := nethttp.ListenAndServe(options.Port, router); err != nil {
			zapLogger.Error("health server stopped", zap.Error(err))
		}
	}()

	// Long poll Telegram until the process is stopped.
	api := telegram.New(options.BotToken)
	poller := telegram.NewPoller(api, commands, zapLogger)

	zapLogger.Info("starting telegram poller")
	poller.Run(context.Background())
}
