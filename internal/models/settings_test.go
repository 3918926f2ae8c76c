package models_test

import (
	"testing"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaKindSetValueIsSorted(t *testing.T) {
	set := models.NewMediaKindSet(models.MediaVideo, models.MediaPhoto, models.MediaDocument)

	value, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "document,photo,video", value)
}

func TestMediaKindSetScan(t *testing.T) {
	var set models.MediaKindSet
	require.NoError(t, set.Scan("photo,video_note"))
	assert.True(t, set.Has(models.MediaPhoto))
	assert.True(t, set.Has(models.MediaVideoNote))
	assert.Len(t, set, 2)

	var fromBytes models.MediaKindSet
	require.NoError(t, fromBytes.Scan([]byte("sticker")))
	assert.True(t, fromBytes.Has(models.MediaSticker))

	var empty models.MediaKindSet
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}

func TestMediaKindSetScanRejectsGarbage(t *testing.T) {
	var set models.MediaKindSet
	assert.Error(t, set.Scan("photo,banana"))
	assert.Error(t, set.Scan(42))
}

func TestMediaKindSetClone(t *testing.T) {
	set := models.NewMediaKindSet(models.MediaPhoto)
	clone := set.Clone()
	clone[models.MediaVideo] = struct{}{}

	assert.False(t, set.Has(models.MediaVideo))
	assert.True(t, clone.Has(models.MediaPhoto))
}

func TestGroupSettingsTTL(t *testing.T) {
	s := models.GroupSettings{TTLSeconds: 300}
	assert.Equal(t, "5m0s", s.TTL().String())
}
