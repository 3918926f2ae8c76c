package main

import (
	"time"

	"github.com/C4T-BuT-S4D/metla/internal/api"
	"github.com/C4T-BuT-S4D/metla/internal/config"
	"github.com/C4T-BuT-S4D/metla/internal/logging"
	"github.com/C4T-BuT-S4D/metla/internal/settings"
	"github.com/C4T-BuT-S4D/metla/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
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
	resolver := settings.NewResolver(store, settings.Defaults{
		TTLSeconds:   int(cfg.DefaultTTL / time.Second),
		Enabled:      cfg.DefaultEnabled,
		DeleteAdmins: cfg.DefaultDeleteAdmins,
		MediaTypes:   defaultKinds,
	})

	service := api.NewService(cfg, store, resolver)
	e := echo.New()
	service.Register(e)

	if err := e.Start(cfg.APIListenAddress); err != nil {
		logrus.Fatalf("API server stopped: %v", err)
	}
}
