// Package botapp собирает приложение: источник снимка хранилища,
// кеш диалогов, сервис подписок, телеграм-бота и служебный
// HTTP-сервер с /health и /metrics.
package botapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/bot"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/cache"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/config"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/migrations"
	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/storage"
)

// App объединяет компоненты приложения и управляет их жизненным циклом.
type App struct {
	bot    *bot.Bot
	server *http.Server
	store  *storage.Store
	logger *slog.Logger

	closeSource func() error
}

// New создаёт приложение по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "botapp.New"

	var (
		source      storage.SnapshotSource
		closeSource func() error
	)
	switch cfg.Kind {
	case "postgres":
		pg, err := storage.NewPostgresSource(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(pg.DB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		source = pg
		closeSource = pg.Close
	case "file", "":
		source = storage.NewFileSource(cfg.DataFile)
	default:
		return nil, fmt.Errorf("%s: unknown storage kind %q", op, cfg.Kind)
	}

	store := storage.Open(source, cfg.PlanList(), logger)

	var sessionCache cache.Cache
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sessionCache = redisCache
	} else {
		sessionCache = cache.NewMemory()
	}

	service := services.NewSubscriptionService(store, logger, cfg.TimezoneOffsetHours)

	tgBot, err := bot.New(cfg, service, sessionCache, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		bot:         tgBot,
		server:      srv,
		store:       store,
		logger:      logger,
		closeSource: closeSource,
	}, nil
}

// Run запускает бота и служебный сервер, блокирует до отмены контекста
// либо ошибки сервера, затем гасит оба компонента.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("ops server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	go a.bot.Start()

	select {
	case err := <-errCh:
		a.bot.Stop()
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
		a.bot.Stop()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := a.server.Shutdown(timeoutCtx)
		if a.closeSource != nil {
			if cerr := a.closeSource(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
}
