package janitor

import (
	"context"
	"strconv"

	"github.com/C4T-BuT-S4D/metla/internal/config"
	"github.com/C4T-BuT-S4D/metla/internal/settings"
	"gopkg.in/telebot.v4"
)

// Janitor watches group messages and schedules qualifying media for
// deletion after the group's TTL.
type Janitor struct {
	config    *config.Config
	resolver  *settings.Resolver
	scheduler *Scheduler
	bot       telebot.API
}

func New(cfg *config.Config, resolver *settings.Resolver, scheduler *Scheduler, bot telebot.API) *Janitor {
	return &Janitor{
		config:    cfg,
		resolver:  resolver,
		scheduler: scheduler,
		bot:       bot,
	}
}

// MediaUpdateTypes are the telebot endpoints HandleMedia should be
// registered for.
var MediaUpdateTypes = []string{
	telebot.OnPhoto,
	telebot.OnVideo,
	telebot.OnDocument,
	telebot.OnVoice,
	telebot.OnSticker,
	telebot.OnAnimation,
	telebot.OnVideoNote,
}

func (j *Janitor) HandleMedia(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.config.BotHandleTimeout)
	defer cancel()

	uc := NewUpdateContext(ctx, c)

	msg := uc.Message()
	if msg == nil || !isGroupChat(uc.Chat()) {
		uc.L().Debug("ignoring media outside of group chats")
		return nil
	}

	groupSettings, err := j.resolver.Resolve(uc, uc.Chat().ID)
	if err != nil {
		// Settings are uncertain, so the message stays.
		uc.L().Errorf("failed to resolve settings, leaving message alone: %v", err)
		return nil
	}

	kind, eligible, err := Eligible(msg, groupSettings, j.bot)
	if err != nil {
		// Fail open: an oracle that can't classify the author must not
		// cost anyone their message.
		uc.L().Warnf("membership lookup failed, leaving message alone: %v", err)
		return nil
	}
	if !eligible {
		uc.L().Debug("message is not eligible for deletion")
		return nil
	}

	pd := j.scheduler.Schedule(uc.Chat().ID, strconv.Itoa(msg.ID), groupSettings.TTL())
	uc.L().Infof("scheduled %s deletion %s in %s", kind, pd.ID, pd.TTL)
	return nil
}
