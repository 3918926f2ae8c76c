package janitor

import (
	"sync"
	"time"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Deleter issues delete-message requests. telebot.API satisfies it.
type Deleter interface {
	Delete(msg telebot.Editable) error
}

type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeSkipped Outcome = "skipped"
)

// Scheduler runs pending deletions: each scheduled message gets its own
// goroutine that waits the TTL and then fires a single best-effort delete
// attempt. There is no retry and no cancellation; a settings change after
// scheduling does not revoke deletions already in flight.
type Scheduler struct {
	deleter Deleter

	mu      sync.Mutex
	pending map[string]*models.PendingDeletion

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewScheduler(deleter Deleter) *Scheduler {
	return &Scheduler{
		deleter: deleter,
		pending: make(map[string]*models.PendingDeletion),
		done:    make(chan struct{}),
	}
}

// Schedule registers a pending deletion and returns without blocking. The
// delete attempt fires no earlier than ttl after this call.
func (s *Scheduler) Schedule(chatID int64, messageID string, ttl time.Duration) *models.PendingDeletion {
	pd := &models.PendingDeletion{
		ID:          uuid.New().String(),
		ChatID:      chatID,
		MessageID:   messageID,
		TTL:         ttl,
		ScheduledAt: time.Now(),
	}

	s.mu.Lock()
	s.pending[pd.ID] = pd
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(pd)

	return pd
}

func (s *Scheduler) run(pd *models.PendingDeletion) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.pending, pd.ID)
		s.mu.Unlock()
	}()

	logger := logrus.WithFields(logrus.Fields{
		"deletion_id": pd.ID,
		"chat_id":     pd.ChatID,
		"message_id":  pd.MessageID,
	})
	logger.Debugf("deletion scheduled in %s", pd.TTL)

	timer := time.NewTimer(pd.TTL)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.done:
		logger.Debug("scheduler shutting down, abandoning pending deletion")
		return
	}

	outcome, err := s.attempt(pd)
	if err != nil {
		// Best-effort semantics: the message may already be gone, the bot
		// may lack rights, the chat may no longer exist. Never retried,
		// never escalated.
		logger.Debugf("delete attempt failed: %v", err)
	}
	logger.Debugf("deletion finished: %s", outcome)
}

func (s *Scheduler) attempt(pd *models.PendingDeletion) (Outcome, error) {
	if err := s.deleter.Delete(pd); err != nil {
		return OutcomeSkipped, err
	}
	return OutcomeDeleted, nil
}

// Pending returns the number of deletions currently waiting on their TTL.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown abandons all pending waits and blocks until their goroutines
// exit. Abandoned deletions are lost, matching the restart behavior.
func (s *Scheduler) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
