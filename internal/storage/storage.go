package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate() error {
	if err := s.db.AutoMigrate(&models.GroupSettings{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// GetSettings returns the stored settings for the chat, or (nil, nil) when no
// record exists. Any other failure is returned as an error so callers can
// tell "no record" from "store unreachable".
func (s *Storage) GetSettings(ctx context.Context, chatID int64) (*models.GroupSettings, error) {
	var settings models.GroupSettings
	if err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting settings for chat %d: %w", chatID, err)
	}
	return &settings, nil
}

// UpsertSettings writes the complete record, replacing any existing row for
// the chat. Concurrent upserts for the same chat are last-writer-wins.
func (s *Storage) UpsertSettings(ctx context.Context, settings *models.GroupSettings) error {
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "chat_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"ttl_seconds",
				"enabled",
				"delete_admins",
				"media_types",
				"updated_at",
			}),
		}).
		Create(settings).
		Error; err != nil {
		return fmt.Errorf("upserting settings for chat %d: %w", settings.ChatID, err)
	}
	return nil
}

func (s *Storage) ListSettings(ctx context.Context) ([]*models.GroupSettings, error) {
	var result []*models.GroupSettings
	if err := s.db.
		WithContext(ctx).
		Order("chat_id").
		Find(&result).
		Error; err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return result, nil
}
