package models

import (
	"fmt"
	"strings"

	"gopkg.in/telebot.v4"
)

// MediaKind is a category of message content the bot can target for deletion.
type MediaKind string

const (
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaDocument  MediaKind = "document"
	MediaVoice     MediaKind = "voice"
	MediaSticker   MediaKind = "sticker"
	MediaAnimation MediaKind = "animation"
	MediaVideoNote MediaKind = "video_note"
)

// AllMediaKinds is ordered by classification priority.
var AllMediaKinds = []MediaKind{
	MediaPhoto,
	MediaVideo,
	MediaDocument,
	MediaVoice,
	MediaSticker,
	MediaAnimation,
	MediaVideoNote,
}

func (k MediaKind) String() string {
	return string(k)
}

// Classify returns the media kind carried by the message, probing in
// AllMediaKinds order so that a message nominally matching several probes
// classifies deterministically.
func Classify(msg *telebot.Message) (MediaKind, bool) {
	if msg == nil {
		return "", false
	}

	switch {
	case msg.Photo != nil:
		return MediaPhoto, true
	case msg.Video != nil:
		return MediaVideo, true
	case msg.Document != nil:
		return MediaDocument, true
	case msg.Voice != nil:
		return MediaVoice, true
	case msg.Sticker != nil:
		return MediaSticker, true
	case msg.Animation != nil:
		return MediaAnimation, true
	case msg.VideoNote != nil:
		return MediaVideoNote, true
	}

	return "", false
}

// InvalidKindsError names every token that is not a valid media kind.
type InvalidKindsError struct {
	Tokens []string
}

func (e *InvalidKindsError) Error() string {
	return fmt.Sprintf("invalid media types: %s", strings.Join(e.Tokens, ", "))
}

// ParseMediaKinds parses a comma-separated list of media kinds. Empty tokens
// are skipped, so "photo,,video" and "photo, video" are both accepted.
func ParseMediaKinds(raw string) (MediaKindSet, error) {
	valid := make(map[MediaKind]struct{}, len(AllMediaKinds))
	for _, k := range AllMediaKinds {
		valid[k] = struct{}{}
	}

	set := make(MediaKindSet)
	var invalid []string
	seenInvalid := make(map[string]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		kind := MediaKind(token)
		if _, ok := valid[kind]; !ok {
			if _, seen := seenInvalid[token]; !seen {
				seenInvalid[token] = struct{}{}
				invalid = append(invalid, token)
			}
			continue
		}
		set[kind] = struct{}{}
	}

	if len(invalid) > 0 {
		return nil, &InvalidKindsError{Tokens: invalid}
	}
	return set, nil
}
