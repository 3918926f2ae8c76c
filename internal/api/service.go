package api

import (
	"net/http"
	"strconv"

	"github.com/C4T-BuT-S4D/metla/internal/config"
	"github.com/C4T-BuT-S4D/metla/internal/settings"
	"github.com/C4T-BuT-S4D/metla/internal/storage"
	"github.com/go-resty/resty/v2"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Service is a read-only ops surface over the settings database: health
// probing plus per-group settings inspection.
type Service struct {
	config   *config.Config
	storage  *storage.Storage
	resolver *settings.Resolver

	client *resty.Client
}

func NewService(cfg *config.Config, storage *storage.Storage, resolver *settings.Resolver) *Service {
	return &Service{
		config:   cfg,
		storage:  storage,
		resolver: resolver,
		client:   resty.New().SetBaseURL("https://api.telegram.org"),
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.GET("/healthz", s.HandleHealth())
	e.GET("/groups", s.HandleListGroups())
	e.GET("/groups/:id", s.HandleGroup())
}

// HandleHealth verifies the bot token against Telegram's getMe endpoint.
func (s *Service) HandleHealth() echo.HandlerFunc {
	type getMeResponse struct {
		OK bool `json:"ok"`
	}

	return func(c echo.Context) error {
		resp, err := s.client.R().
			SetContext(c.Request().Context()).
			SetResult(&getMeResponse{}).
			Get("/bot" + s.config.TelegramToken + "/getMe")
		if err != nil {
			logrus.Errorf("health check request failed: %v", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "telegram unreachable"})
		}

		if resp.StatusCode() != http.StatusOK || !resp.Result().(*getMeResponse).OK {
			logrus.Errorf("health check rejected: %d %s", resp.StatusCode(), string(resp.Body()))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "telegram rejected token"})
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

// HandleListGroups returns every stored settings record. Groups still on
// process-wide defaults have no record and do not appear here.
func (s *Service) HandleListGroups() echo.HandlerFunc {
	return func(c echo.Context) error {
		groups, err := s.storage.ListSettings(c.Request().Context())
		if err != nil {
			logrus.Errorf("failed to list settings: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list settings"})
		}
		return c.JSON(http.StatusOK, groups)
	}
}

// HandleGroup returns the effective settings for one group, defaults
// applied when no record exists.
func (s *Service) HandleGroup() echo.HandlerFunc {
	return func(c echo.Context) error {
		chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
		}

		effective, err := s.resolver.Resolve(c.Request().Context(), chatID)
		if err != nil {
			logrus.Errorf("failed to resolve settings for %d: %v", chatID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve settings"})
		}
		return c.JSON(http.StatusOK, effective)
	}
}
