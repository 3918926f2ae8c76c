package models

import (
	"fmt"
	"time"
)

// PendingDeletion is an in-flight scheduled deletion. It lives only in
// memory: a process restart abandons all pending deletions.
type PendingDeletion struct {
	ID        string
	ChatID    int64
	MessageID string

	TTL         time.Duration
	ScheduledAt time.Time
}

// MessageSig makes PendingDeletion a telebot.Editable so it can be passed
// to Bot.Delete directly.
func (p *PendingDeletion) MessageSig() (string, int64) {
	return p.MessageID, p.ChatID
}

func (p *PendingDeletion) String() string {
	return fmt.Sprintf("PendingDeletion(%s, chat=%d, message=%s, ttl=%s)", p.ID, p.ChatID, p.MessageID, p.TTL)
}
