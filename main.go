package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/blitzkarten/internal/bot"
	"github.com/example/blitzkarten/internal/catalog"
	"github.com/example/blitzkarten/internal/config"
	"github.com/example/blitzkarten/internal/database"
	"github.com/example/blitzkarten/internal/lesson"
	"github.com/example/blitzkarten/internal/lessonplan"
	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/internal/progress"
	"github.com/example/blitzkarten/internal/scheduler"
	"github.com/example/blitzkarten/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	if err := run(cfg, appLog); err != nil {
		appLog.Error("application stopped with error", "error", err)
		appLog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	// Stop on Ctrl+C or SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Cancelling ctx stops the bot and the event loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, history, closeStore, err := openSettings(cfg, appLog)
	if err != nil {
		return err
	}
	defer closeStore()

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	plan, err := lessonplan.New(cat, progress.New(store, appLog), appLog)
	if err != nil {
		return err
	}
	appLog.Info("lesson plan ready", "language", plan.LanguageName(), "topics", cat.Len())

	lessons := lesson.Embedded(appLog)
	if cfg.LessonsDir != "" {
		lessons = lesson.Dir(cfg.LessonsDir, appLog)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	appLog.Info("authorized on telegram", "account", api.Self.UserName)

	loop := scheduler.NewLoop(64)
	sched := scheduler.New(loop, appLog)
	b := bot.New(api, bot.Options{OwnerChatID: cfg.OwnerChatID, TimeUnit: cfg.TimeUnit, History: history},
		plan, lessons, loop, sched, appLog)

	if cfg.ReminderTime != "" {
		if err := sched.Daily(cfg.ReminderTime, b.SendReminder); err != nil {
			return err
		}
		appLog.Info("daily reminder scheduled", "at", cfg.ReminderTime)
	}
	sched.Start()
	defer sched.Stop()

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	botDone := make(chan error, 1)
	go func() { botDone <- b.Start(ctx) }()

	// Wait for a signal or for the bot to give up
	select {
	case sig := <-sigChan:
		appLog.Info("received signal", "signal", sig.String())
	case err := <-botDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			appLog.Error("bot error", "error", err)
		}
	}

	b.Stop()
	cancel()

	// Let the loop finish the event it is running
	select {
	case <-loopDone:
	case <-time.After(5 * time.Second):
		appLog.Warn("event loop did not stop in time")
	}
	appLog.Info("bot stopped successfully")
	return nil
}

// openSettings picks the key-value backend for progress. Quiz history
// needs a database and is nil in memory mode.
func openSettings(cfg *config.Config, appLog *logger.Logger) (progress.Settings, bot.QuizHistory, func(), error) {
	switch cfg.DBDriver {
	case "memory":
		appLog.Warn("progress is kept in memory and lost on restart")
		return settings.NewMemory(), nil, func() {}, nil
	case "postgres":
		return openDatabase("postgres", cfg.DatabaseURL, appLog)
	default:
		return openDatabase("sqlite3", cfg.DBPath, appLog)
	}
}

func openDatabase(driver, dsn string, appLog *logger.Logger) (progress.Settings, bot.QuizHistory, func(), error) {
	db, err := database.Connect(driver, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := database.NewSettingsRepository(db)
	if all, err := repo.All(); err == nil {
		appLog.Info("settings database ready", "driver", driver, "keys", len(all))
	}
	return repo, database.NewQuizResultRepository(db), func() {
		if err := db.Close(); err != nil {
			appLog.Warn("failed to close database", "error", err)
		}
	}, nil
}

func openCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.German()
	}
	cat, err := catalog.Load(catalog.GermanLanguage, cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.CatalogFile, err)
	}
	return cat, nil
}
