package config

import (
	"time"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken    string        `mapstructure:"telegram_token"`
	BotHandleTimeout time.Duration `mapstructure:"bot_handle_timeout"`

	DefaultTTL          time.Duration `mapstructure:"default_ttl"`
	DefaultEnabled      bool          `mapstructure:"default_enabled"`
	DefaultDeleteAdmins bool          `mapstructure:"default_delete_admins"`
	DefaultMediaTypes   string        `mapstructure:"default_media_types"`

	APIListenAddress string `mapstructure:"api_listen_address"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}
	if cfg.TelegramToken == "" {
		logrus.Fatal("telegram token is not set")
	}
	return cfg
}

// DefaultMediaKinds parses the configured default media-type list. An
// unknown kind in the config is a startup error.
func (c *Config) DefaultMediaKinds() (models.MediaKindSet, error) {
	return models.ParseMediaKinds(c.DefaultMediaTypes)
}

func SetupCommon() {
	viper.SetDefault("bot_handle_timeout", "10s")
	viper.SetDefault("default_ttl", "5m")
	viper.SetDefault("default_enabled", true)
	viper.SetDefault("default_delete_admins", false)
	viper.SetDefault("default_media_types", "photo,video,document")
	viper.SetDefault("api_listen_address", ":8080")
	viper.SetEnvPrefix("METLA")

	viper.MustBindEnv("telegram_token")
	viper.MustBindEnv("postgres_dsn")
	viper.AutomaticEnv()
}
