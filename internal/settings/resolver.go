package settings

import (
	"context"
	"fmt"

	"github.com/C4T-BuT-S4D/metla/internal/models"
)

// Store is the persistence surface the resolver needs. *storage.Storage
// satisfies it; tests use in-memory stubs.
type Store interface {
	GetSettings(ctx context.Context, chatID int64) (*models.GroupSettings, error)
	UpsertSettings(ctx context.Context, settings *models.GroupSettings) error
}

// Defaults are the process-wide fallback settings, built once from config at
// startup and never mutated afterwards.
type Defaults struct {
	TTLSeconds   int
	Enabled      bool
	DeleteAdmins bool
	MediaTypes   models.MediaKindSet
}

// Resolver produces effective settings for a group: the stored record when
// one exists, the process-wide defaults otherwise.
type Resolver struct {
	store    Store
	defaults Defaults
}

func NewResolver(store Store, defaults Defaults) *Resolver {
	return &Resolver{
		store:    store,
		defaults: defaults,
	}
}

// Resolve never invents settings on store failure: an unreachable store is
// an error, only a genuinely missing record falls back to defaults.
func (r *Resolver) Resolve(ctx context.Context, chatID int64) (*models.GroupSettings, error) {
	stored, err := r.store.GetSettings(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("resolving settings: %w", err)
	}
	if stored != nil {
		return stored, nil
	}

	return &models.GroupSettings{
		ChatID:       chatID,
		TTLSeconds:   r.defaults.TTLSeconds,
		Enabled:      r.defaults.Enabled,
		DeleteAdmins: r.defaults.DeleteAdmins,
		MediaTypes:   r.defaults.MediaTypes.Clone(),
	}, nil
}

// Update reads the current effective settings, applies mutate and writes the
// complete record back. Updates for different chats are independent;
// concurrent updates for the same chat are last-writer-wins.
func (r *Resolver) Update(
	ctx context.Context,
	chatID int64,
	mutate func(*models.GroupSettings),
) (*models.GroupSettings, error) {
	current, err := r.Resolve(ctx, chatID)
	if err != nil {
		return nil, err
	}

	mutate(current)

	if err := r.store.UpsertSettings(ctx, current); err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return current, nil
}
