package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/i18n"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/sources/users"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
	"github.com/MrSnakeDoc/shelf/internal/store/sqlite"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	kv      store.KV
	storage *bookmarks.Storage
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.NewWithFile(cfg.LogLevel, cfg.PrettyLog, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})

	userIDs, err := users.Resolve(cfg.UsersFile, cfg.UserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load user ids: %w", err)
	}
	loggerClient.Info("user ids loaded", logger.Strings("user_ids", userIDs))

	// Open the storage backend early - fail fast if unavailable
	kv, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	storage := bookmarks.NewStorage(kv, userIDs, loggerClient)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	defaultLang, ok := i18n.ParseTag(cfg.DefaultLang)
	if !ok {
		loggerClient.Warn("unsupported default language, using English",
			logger.String("lang", cfg.DefaultLang))
		defaultLang = language.English
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Store:           kv,
		Storage:         storage,
		Validate:        validator.New(validator.WithRequiredStructEnabled()),
		StrictURLs:      cfg.StrictURLs,
		Location:        loc,
		DefaultLang:     defaultLang,
	}

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		server:  httpserver.New(cfg, loggerClient, d),
		kv:      kv,
		storage: storage,
	}, nil
}

// openStore builds the configured key-value backend.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, error) {
	switch cfg.StoreBackend {
	case store.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		s, err := redisstore.Connect(ctx, redisstore.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		log.Info("Redis initialized successfully")
		return s, nil
	case store.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("SQLite store opened", logger.String("path", cfg.SQLitePath))
		return s, nil
	default:
		log.Warn("using in-memory store, bookmarks are lost on restart")
		return memory.New(), nil
	}
}

// resetUsers clears the lists of the configured reset ids.
func (a *App) resetUsers(ctx context.Context) error {
	for _, id := range a.cfg.ResetUsers {
		if err := a.storage.ClearData(ctx, id); err != nil {
			return fmt.Errorf("failed to reset user %s: %w", id, err)
		}
		a.logger.Info("user bookmarks reset at startup", logger.String("user_id", id))
	}
	return nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting Shelf v%s on %s (store=%s)", version.Version, a.cfg.ListenPort, a.cfg.StoreBackend)
	a.logger.Infof("Shelf %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.resetUsers(ctx); err != nil {
		a.closeStore()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.closeStore()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.closeStore()
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeStore()
	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}

func (a *App) closeStore() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.cfg.StoreBackend, err)
		return
	}
	a.logger.Infof("✅ %s store closed cleanly", a.cfg.StoreBackend)
}
