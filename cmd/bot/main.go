package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/C4T-BuT-S4D/metla/internal/config"
	"github.com/C4T-BuT-S4D/metla/internal/janitor"
	"github.com/C4T-BuT-S4D/metla/internal/logging"
	"github.com/C4T-BuT-S4D/metla/internal/settings"
	"github.com/C4T-BuT-S4D/metla/internal/storage"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config.SetupCommon()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	defaultKinds, err := cfg.DefaultMediaKinds()
	if err != nil {
		logrus.Fatalf("Invalid default media types: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)
	if err := store.Migrate(); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	resolver := settings.NewResolver(store, settings.Defaults{
		TTLSeconds:   int(cfg.DefaultTTL / time.Second),
		Enabled:      cfg.DefaultEnabled,
		DeleteAdmins: cfg.DefaultDeleteAdmins,
		MediaTypes:   defaultKinds,
	})

	bot, err := telebot.NewBot(telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message"},
		},
	})
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	scheduler := janitor.NewScheduler(bot)
	jan := janitor.New(cfg, resolver, scheduler, bot)

	bot.Handle("/start", jan.HandleStart)
	bot.Handle("/status", jan.HandleStatus)
	bot.Handle("/setttl", jan.HandleSetTTL)
	bot.Handle("/pause", jan.HandlePause)
	bot.Handle("/resume", jan.HandleResume)
	bot.Handle("/deleteadmins", jan.HandleDeleteAdmins)
	bot.Handle("/types", jan.HandleTypes)

	for _, updateType := range janitor.MediaUpdateTypes {
		bot.Handle(updateType, jan.HandleMedia)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.Start()
	}()

	<-ctx.Done()

	bot.Stop()
	scheduler.Shutdown()

	logrus.Info("waiting for services to finish")
	wg.Wait()
}
