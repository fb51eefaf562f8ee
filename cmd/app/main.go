package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-broadcast-bot/internal/application"
	"telegram-broadcast-bot/internal/config"
	tele "telegram-broadcast-bot/internal/infra/adapters/telegram"
	pg "telegram-broadcast-bot/internal/infra/db/postgres"
	"telegram-broadcast-bot/internal/infra/i18n"
	"telegram-broadcast-bot/internal/infra/logging"
	"telegram-broadcast-bot/internal/infra/metrics"
	red "telegram-broadcast-bot/internal/infra/redis"
	"telegram-broadcast-bot/internal/infra/web"
	"telegram-broadcast-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema init failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	adminRepo := pg.NewAdminRepo(pool)
	groupRepo := pg.NewGroupRepo(pool)
	settingRepo := pg.NewSettingRepo(pool)
	wizardStates := red.NewWizardStateRepo(redisClient, cfg.Redis.StateTTL)
	relaySessions := red.NewRelaySessionRepo(redisClient)

	// ---- i18n ----
	bundle, err := i18n.NewBundle(i18n.LocalesFS, "en")
	if err != nil {
		logger.Fatal().Err(err).Msg("loading locales failed")
	}

	// ---- Telegram (gateway first; the usecases deliver through it) ----
	bot, err := tele.NewBot(&cfg.Bot, bundle, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}

	// ---- Use cases ----
	accessUC := usecase.NewAccessUseCase(cfg.Bot.RootAdminID, adminRepo, userRepo, settingRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	groupUC := usecase.NewGroupUseCase(groupRepo, logger)
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, groupRepo, bot, logger)
	wizardUC := usecase.NewWizardUseCase(wizardStates, groupRepo, broadcastUC, logger)
	relayUC := usecase.NewRelayUseCase(relaySessions, accessUC, broadcastUC, bot, logger)

	facade := application.NewBotFacade(accessUC, userUC, groupUC, broadcastUC, wizardUC, relayUC)
	bot.Bind(facade)

	go func() {
		if err := bot.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("polling stopped")
			cancel()
		}
	}()

	// ---- Ops server (health + metrics) ----
	opsServer := web.NewServer(cfg.Ops.Port, map[string]web.Pinger{
		"postgres": pool,
		"redis":    redisClient,
	}, logger)
	go func() {
		if err := opsServer.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()
	bot.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown failed")
	}
}
