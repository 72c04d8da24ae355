package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/speedsyndicate/ledger/internal/auth"
	"github.com/speedsyndicate/ledger/internal/bus"
	"github.com/speedsyndicate/ledger/internal/config"
	"github.com/speedsyndicate/ledger/internal/ledger"
	"github.com/speedsyndicate/ledger/internal/notify"
	"github.com/speedsyndicate/ledger/internal/server"
	"github.com/speedsyndicate/ledger/internal/share"
	"github.com/speedsyndicate/ledger/internal/storage"
	"github.com/speedsyndicate/ledger/internal/storage/failover"
	"github.com/speedsyndicate/ledger/internal/storage/memory"
	"github.com/speedsyndicate/ledger/internal/storage/sqlite"
	"github.com/speedsyndicate/ledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// A broken persistent backend is not fatal: the process runs
	// volatile-only and the failover wrapper reports degraded.
	var primary storage.Store
	if sqliteStore, err := sqlite.New(cfg.DBPath); err != nil {
		slog.Warn("persistent store unavailable, running volatile-only", "database", cfg.DBPath, "error", err)
	} else {
		primary = sqliteStore
		slog.Info("persistent store initialized", "database", cfg.DBPath)
	}

	local := memory.New()
	if cfg.SeedSampleData {
		local.Reset(memory.Sample())
		slog.Info("sample ledger data loaded")
	}

	store := failover.New(primary, local)
	defer store.Close()

	changeBus := bus.New()
	gate := share.NewGate(store)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	if cfg.DiscordBotToken != "" && cfg.DiscordChannelID != "" {
		notifier, err := notify.NewDiscord(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			slog.Warn("Discord notifier disabled", "error", err)
		} else {
			defer notifier.Close()
			// Re-fetch on every change: the notification carries no
			// payload, only "something changed".
			changeBus.Subscribe(func() {
				ctx := context.Background()
				equipment, err := store.ListEquipment(ctx)
				if err != nil {
					return
				}
				incomes, err := store.ListIncomes(ctx)
				if err != nil {
					return
				}
				trades, err := store.ListTrades(ctx)
				if err != nil {
					return
				}
				notifier.BalanceChanged(ledger.Compute(equipment, incomes, trades))
			})
			slog.Info("Discord notifier enabled", "channel_id", cfg.DiscordChannelID)
		}
	}

	srv := server.New(store, gate, changeBus, authenticator, jwtManager)

	// h2c serves HTTP/2 without TLS for local and reverse-proxied runs.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	slog.Info("ledger server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
