package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/capture"
	"telegram-reminder-bot/internal/config"
	"telegram-reminder-bot/internal/delivery"
	"telegram-reminder-bot/internal/handlers"
	"telegram-reminder-bot/internal/logger"
	"telegram-reminder-bot/internal/scheduler"
	"telegram-reminder-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Error("opening database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Error("connecting to telegram", "error", err)
		os.Exit(1)
	}
	log.Info("authorized", "username", bot.Self.UserName)

	h := handlers.New(bot, db, capture.NewMachine(), log)

	sched, err := scheduler.Start(delivery.New(bot, db, log), cfg.PollInterval)
	if err != nil {
		log.Error("starting scheduler", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	for upd := range updates {
		switch {
		case upd.Message != nil:
			h.HandleMessage(upd.Message)
		case upd.CallbackQuery != nil:
			h.HandleCallback(upd.CallbackQuery)
		}
	}

	// Updates channel closed: we are shutting down. Stop the scan loop
	// before the process exits so no new cycle starts mid-teardown.
	if err := sched.Shutdown(); err != nil {
		log.Error("stopping scheduler", "error", err)
	}
	log.Info("stopped")
}
