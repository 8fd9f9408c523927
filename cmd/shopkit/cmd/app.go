package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/adapter/outbound/state"
	"github.com/xcursocr/shopkit/internal/config"
	"github.com/xcursocr/shopkit/internal/domain/cart"
	"github.com/xcursocr/shopkit/internal/domain/session"
	"github.com/xcursocr/shopkit/internal/service"
)

// app is the dependency root: every command builds one, runs one operation,
// and exits. The stores are explicit values wired here, not package globals,
// so state ownership is visible in one place.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *state.FileStateStore
	sessions *session.Store
	cart     *cart.Cart
	client   *rest.Client
	auth     *service.AuthService
	catalog  *service.CatalogService
	carts    *service.CartService
}

// buildApp loads config, hydrates the stores from state.json, and wires the
// REST client and services together.
func buildApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Debug("loaded config", "file", configFile)
	}

	// Resolve state file path: CLI flag > env var > config.
	statePath := stateFilePath
	if statePath == "" {
		statePath = os.Getenv("SHOPKIT_STATE_PATH")
	}
	if statePath == "" {
		statePath = cfg.State.Path
	}

	store := state.NewFileStateStore(statePath, logger)
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	sessions := session.NewStore(store, logger)
	sessions.Hydrate(st.AccessToken, st.RefreshToken, st.User)
	// The load has settled; from here on authentication decisions are valid.
	sessions.MarkHydrated()

	basket := cart.New(store, logger)
	basket.Hydrate(st.Cart)

	metrics := rest.NewMetrics(prometheus.NewRegistry())
	client := rest.NewClient(cfg.API.BaseURL, sessions,
		rest.WithTimeout(cfg.RequestTimeout()),
		rest.WithLogger(logger),
		rest.WithMetrics(metrics),
		rest.WithProactiveRefresh(func(access string) bool {
			return session.ExpiresSoon(access, time.Now())
		}),
		rest.WithSessionExpiredHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run `shopkit login` to sign in again.")
		}),
	)

	catalogSvc, err := service.NewCatalogService(client, cfg.CatalogCacheTTL(), logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
		cart:     basket,
		client:   client,
		auth:     service.NewAuthService(client, sessions, logger),
		catalog:  catalogSvc,
		carts:    service.NewCartService(catalogSvc, basket, logger),
	}, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printPayload renders v as indented JSON on stdout. Used by every command
// when --json is set.
func printPayload(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
