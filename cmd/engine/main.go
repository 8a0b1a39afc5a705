package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/events"
	"github.com/JFdC77/job-search-assistant/internal/httpapi"
	"github.com/JFdC77/job-search-assistant/internal/notify"
	"github.com/JFdC77/job-search-assistant/internal/scheduler"
	"github.com/JFdC77/job-search-assistant/internal/search"
	"github.com/JFdC77/job-search-assistant/internal/secrets"
	"github.com/JFdC77/job-search-assistant/internal/store"
)

// keepRuns is how many past searches stay in the run history.
const keepRuns = 50

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()})))

	if err := run(); err != nil {
		slog.Error("engine: fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir; sqlite and the config file are not shared.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine is already using %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	loadCfg := func() (config.Config, error) {
		return loadConfig(userCfgPath, filepath.Join(dataDir, "keywords.yml"))
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	storeDir := dataDir
	if cfg.App.DataDir != "" {
		storeDir = cfg.App.DataDir
	}
	dsn := cfg.Database.DSN
	if cfg.Database.Driver != store.DriverPgx && dsn == "" {
		dsn = filepath.Join(storeDir, "jobsearch.db")
	}
	db, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if n, err := db.PruneRuns(ctx, keepRuns); err != nil {
		slog.Warn("store: prune runs", "err", err)
	} else if n > 0 {
		slog.Info("store: pruned runs", "deleted", n)
	}

	hub := events.NewHub()
	svc := search.NewService(search.Options{
		Store:    db,
		Hub:      hub,
		Notifier: newNotifier(cfg),
		Creds:    secrets.ForSource,
	})

	go scheduler.Every(ctx, cfg.RefreshInterval(), "search", func(ctx context.Context) error {
		_, err := svc.Run(ctx, cfgVal.Load().(config.Config))
		if errors.Is(err, search.ErrRunning) {
			return nil
		}
		return err
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Store:          db,
		Hub:            hub,
		Search:         svc,
		CfgVal:         &cfgVal,
		UserCfgPath:    userCfgPath,
		LoadCfg:        loadCfg,
		SetSecret:      secrets.Set,
		DeleteSecret:   secrets.Delete,
		AllowedOrigins: splitList(os.Getenv("JOBSEARCH_ALLOWED_ORIGINS")),
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := shutdownToken(dataDir)
	if err != nil {
		return err
	}
	router.Post("/shutdown", shutdownHandler(token, srv))

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		return err
	}
	slog.Info("engine: listening", "addr", "http://"+ln.Addr().String(), "data_dir", dataDir, "config", userCfgPath, "db", cfg.Database.Driver)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	_ = db.Checkpoint(context.Background())
	slog.Info("engine: stopped")
	return nil
}

// loadConfig reads config.yml and applies keywords.yml and the environment.
func loadConfig(path, keywordsPath string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := config.OverlayKeywords(&cfg, keywordsPath); err != nil {
		return cfg, fmt.Errorf("keywords overlay: %w", err)
	}
	if err := config.OverlayEnv(&cfg, os.Getenv); err != nil {
		return cfg, fmt.Errorf("env overlay: %w", err)
	}

	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		slog.Warn("config: warning", "msg", w)
	}
	if !vr.OK() {
		return cfg, errors.New(strings.Join(vr.Errors, "; "))
	}
	return cfg, nil
}

func newNotifier(cfg config.Config) notify.Notifier {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if !cfg.Notify.Enabled || token == "" {
		return notify.Nop{}
	}
	tg, err := notify.NewTelegram(token, cfg.Notify.ChatID, cfg.Notify.MinScore)
	if err != nil {
		slog.Warn("notify: telegram disabled", "err", err)
		return notify.Nop{}
	}
	return tg
}

func resolveDataDir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("JOBSEARCH_DATA_DIR")); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "job-search-assistant"), nil
}

func logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(os.Getenv("JOBSEARCH_LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
