package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// MinTTLSeconds and MaxTTLSeconds bound the per-group TTL; the command
	// surface validates against them before any record is written.
	MinTTLSeconds = 10
	MaxTTLSeconds = 7 * 86400
)

// MediaKindSet is the set of media kinds targeted for deletion in a group.
// It is stored as a sorted comma-separated string for stability.
type MediaKindSet map[MediaKind]struct{}

func NewMediaKindSet(kinds ...MediaKind) MediaKindSet {
	set := make(MediaKindSet, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

func (s MediaKindSet) Has(kind MediaKind) bool {
	_, ok := s[kind]
	return ok
}

func (s MediaKindSet) Clone() MediaKindSet {
	clone := make(MediaKindSet, len(s))
	for k := range s {
		clone[k] = struct{}{}
	}
	return clone
}

func (s MediaKindSet) sorted() []string {
	kinds := make([]string, 0, len(s))
	for k := range s {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

func (s MediaKindSet) String() string {
	return strings.Join(s.sorted(), ",")
}

// MarshalJSON renders the set as a sorted array.
func (s MediaKindSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.sorted())
}

// Value implements driver.Valuer for gorm.
func (s MediaKindSet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner for gorm.
func (s *MediaKindSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		raw = ""
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported media types column type %T", src)
	}

	parsed, err := ParseMediaKinds(raw)
	if err != nil {
		return fmt.Errorf("parsing stored media types: %w", err)
	}
	*s = parsed
	return nil
}

// GroupSettings is the per-group moderation configuration. A row exists only
// after the first mutating command for the group; before that the resolver
// serves process-wide defaults.
type GroupSettings struct {
	ChatID int64 `gorm:"primaryKey" json:"chat_id"`

	TTLSeconds   int          `json:"ttl_seconds"`
	Enabled      bool         `json:"enabled"`
	DeleteAdmins bool         `json:"delete_admins"`
	MediaTypes   MediaKindSet `gorm:"type:text" json:"media_types"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TTL returns the time-to-live as a duration.
func (s *GroupSettings) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

func (s *GroupSettings) String() string {
	return fmt.Sprintf(
		"GroupSettings(chat=%d, ttl=%ds, enabled=%t, delete_admins=%t, types=%s)",
		s.ChatID,
		s.TTLSeconds,
		s.Enabled,
		s.DeleteAdmins,
		s.MediaTypes,
	)
}
