package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/subosito/gotenv"

	"github.com/ksenieor-creator/telegram-bot/internal/bot"
	"github.com/ksenieor-creator/telegram-bot/internal/config"
	"github.com/ksenieor-creator/telegram-bot/internal/holidays"
	httpx "github.com/ksenieor-creator/telegram-bot/internal/infra/http"
	"github.com/ksenieor-creator/telegram-bot/internal/infra/logger"
	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/metrics"
	"github.com/ksenieor-creator/telegram-bot/internal/session"
	"github.com/ksenieor-creator/telegram-bot/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище: Postgres, если задан DSN, иначе JSON-файл рядом с ботом.
	var store ledger.Store
	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		if err := runMigrations(dsn); err != nil {
			log.Error("migrations failed", "err", err)
			return
		}
		log.Info("migrations applied")

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Error("db connect failed", "err", err)
			return
		}
		defer pool.Close()
		store = storage.NewPGStore(pool)
		log.Info("storage: postgres")
	} else {
		store = storage.NewFileStore(cfg.Storage.File)
		log.Info("storage: file", "path", cfg.Storage.File)
	}

	led := ledger.New(store, log)
	if err := led.Load(ctx); err != nil {
		log.Error("ledger load failed", "err", err)
		return
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	led.SetFlushErrorHook(m.FlushErrors.Inc)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, reg)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram connect failed", "err", err)
		return
	}
	log.Info("telegram connected", "bot", api.Self.UserName)

	timeout := time.Duration(cfg.Quote.TimeoutMinutes) * time.Minute
	sessions := session.NewManager(session.NewTimerScheduler(), timeout, log)
	sessions.SetClock(func() time.Time { return time.Now().In(loc) })

	tgBot := bot.New(api, log, led, sessions, holidays.NewRussia(), m,
		cfg.Telegram.AdminChatID, loc)

	go func() {
		if err := tgBot.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()
	log.Info("бот запущен")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
