package janitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"gopkg.in/telebot.v4"
)

const (
	startReply = "Auto-delete bot active.\n" +
		"Admin commands:\n" +
		"/setttl <seconds|10m|2h|1d>\n" +
		"/types <photo,video,document,...>\n" +
		"/pause | /resume\n" +
		"/deleteadmins on|off\n" +
		"/status"

	adminOnlyReply    = "This command is for group admins only."
	storeFailureReply = "Failed to update settings, please try again later."

	setTTLUsageReply = "Usage: /setttl 300  OR  /setttl 10m  OR  /setttl 2h"
	badTTLReply      = "Bad TTL format. Examples: /setttl 300, /setttl 10m, /setttl 2h"
	ttlRangeReply    = "TTL must be between 10 seconds and 7 days."

	deleteAdminsUsageReply = "Usage: /deleteadmins on  OR  /deleteadmins off"
)

func (j *Janitor) handlerContext(c telebot.Context) (*UpdateContext, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), j.config.BotHandleTimeout)
	return NewUpdateContext(ctx, c), cancel
}

// reply is fire-and-forget: a failed confirmation is logged but never
// escalated.
func (j *Janitor) reply(uc *UpdateContext, text string) error {
	if err := uc.TC().Reply(text); err != nil {
		uc.L().Warnf("failed to reply: %v", err)
	}
	return nil
}

// requireAdmin gates mutating commands. A membership lookup failure counts
// as not authorized.
func (j *Janitor) requireAdmin(uc *UpdateContext) bool {
	if uc.Chat() == nil || uc.Sender() == nil {
		return false
	}

	member, err := uc.Bot().ChatMemberOf(uc.Chat(), uc.Sender())
	if err != nil {
		uc.L().Warnf("admin check failed, rejecting command: %v", err)
		return false
	}
	return isAdminRole(member.Role)
}

func (j *Janitor) HandleStart(c telebot.Context) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	return j.reply(uc, startReply)
}

func (j *Janitor) HandleStatus(c telebot.Context) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	groupSettings, err := j.resolver.Resolve(uc, uc.Chat().ID)
	if err != nil {
		uc.L().Errorf("failed to resolve settings: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	return j.reply(uc, fmt.Sprintf(
		"Current settings:\n"+
			"- Enabled: %t\n"+
			"- TTL: %d seconds (%s)\n"+
			"- Delete admins: %t\n"+
			"- Media types: %s",
		groupSettings.Enabled,
		groupSettings.TTLSeconds,
		groupSettings.TTL(),
		groupSettings.DeleteAdmins,
		kindsList(groupSettings.MediaTypes),
	))
}

func (j *Janitor) HandleSetTTL(c telebot.Context) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	if !j.requireAdmin(uc) {
		return j.reply(uc, adminOnlyReply)
	}

	args := uc.TC().Args()
	if len(args) == 0 {
		return j.reply(uc, setTTLUsageReply)
	}

	ttl, err := ParseTTL(args[0])
	if err != nil {
		uc.L().Debugf("rejecting ttl argument %q: %v", args[0], err)
		return j.reply(uc, badTTLReply)
	}
	if ttl < models.MinTTLSeconds || ttl > models.MaxTTLSeconds {
		return j.reply(uc, ttlRangeReply)
	}

	if _, err := j.resolver.Update(uc, uc.Chat().ID, func(s *models.GroupSettings) {
		s.TTLSeconds = ttl
	}); err != nil {
		uc.L().Errorf("failed to update ttl: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	return j.reply(uc, fmt.Sprintf("TTL set to %d seconds.", ttl))
}

func (j *Janitor) HandlePause(c telebot.Context) error {
	return j.setEnabled(c, false, "Auto-delete paused for this group.")
}

func (j *Janitor) HandleResume(c telebot.Context) error {
	return j.setEnabled(c, true, "Auto-delete resumed for this group.")
}

func (j *Janitor) setEnabled(c telebot.Context, enabled bool, confirmation string) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	if !j.requireAdmin(uc) {
		return j.reply(uc, adminOnlyReply)
	}

	if _, err := j.resolver.Update(uc, uc.Chat().ID, func(s *models.GroupSettings) {
		s.Enabled = enabled
	}); err != nil {
		uc.L().Errorf("failed to update enabled flag: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	return j.reply(uc, confirmation)
}

func (j *Janitor) HandleDeleteAdmins(c telebot.Context) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	if !j.requireAdmin(uc) {
		return j.reply(uc, adminOnlyReply)
	}

	args := uc.TC().Args()
	if len(args) == 0 {
		return j.reply(uc, deleteAdminsUsageReply)
	}
	arg := strings.ToLower(args[0])
	if arg != "on" && arg != "off" {
		return j.reply(uc, deleteAdminsUsageReply)
	}
	value := arg == "on"

	if _, err := j.resolver.Update(uc, uc.Chat().ID, func(s *models.GroupSettings) {
		s.DeleteAdmins = value
	}); err != nil {
		uc.L().Errorf("failed to update delete_admins: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	return j.reply(uc, fmt.Sprintf("Delete admins set to %t.", value))
}

func (j *Janitor) HandleTypes(c telebot.Context) error {
	uc, cancel := j.handlerContext(c)
	defer cancel()

	if !j.requireAdmin(uc) {
		return j.reply(uc, adminOnlyReply)
	}

	args := uc.TC().Args()
	if len(args) == 0 {
		return j.reply(uc, fmt.Sprintf(
			"Usage: /types photo,video,document\nValid: %s",
			validKinds(),
		))
	}

	kinds, err := models.ParseMediaKinds(strings.Join(args, ""))
	if err != nil {
		var invalidErr *models.InvalidKindsError
		if errors.As(err, &invalidErr) {
			return j.reply(uc, fmt.Sprintf(
				"Invalid types: %s\nValid: %s",
				strings.Join(invalidErr.Tokens, ", "),
				validKinds(),
			))
		}
		uc.L().Errorf("failed to parse media types: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	if _, err := j.resolver.Update(uc, uc.Chat().ID, func(s *models.GroupSettings) {
		s.MediaTypes = kinds
	}); err != nil {
		uc.L().Errorf("failed to update media types: %v", err)
		return j.reply(uc, storeFailureReply)
	}

	return j.reply(uc, fmt.Sprintf("Media types set: %s", kindsList(kinds)))
}

func kindsList(set models.MediaKindSet) string {
	if len(set) == 0 {
		return "(none)"
	}
	return strings.ReplaceAll(set.String(), ",", ", ")
}

func validKinds() string {
	kinds := make([]string, len(models.AllMediaKinds))
	for i, k := range models.AllMediaKinds {
		kinds[i] = string(k)
	}
	sort.Strings(kinds)
	return strings.Join(kinds, ", ")
}
