package janitor

import (
	"fmt"

	"github.com/C4T-BuT-S4D/metla/internal/models"
	"gopkg.in/telebot.v4"
)

// MemberLookup answers role-membership queries. telebot.API satisfies it.
type MemberLookup interface {
	ChatMemberOf(chat, user telebot.Recipient) (*telebot.ChatMember, error)
}

func isGroupChat(chat *telebot.Chat) bool {
	return chat != nil && (chat.Type == telebot.ChatGroup || chat.Type == telebot.ChatSuperGroup)
}

func isAdminRole(role telebot.MemberStatus) bool {
	return role == telebot.Creator || role == telebot.Administrator
}

// Eligible decides whether the message is a deletion candidate under the
// given settings, returning its media kind when it is. The membership lookup
// runs only when admin-authored media is exempt; a lookup failure is
// returned to the caller rather than being mapped to a decision here.
func Eligible(
	msg *telebot.Message,
	settings *models.GroupSettings,
	members MemberLookup,
) (models.MediaKind, bool, error) {
	if msg == nil || !isGroupChat(msg.Chat) {
		return "", false, nil
	}

	if !settings.Enabled {
		return "", false, nil
	}

	kind, ok := models.Classify(msg)
	if !ok || !settings.MediaTypes.Has(kind) {
		return "", false, nil
	}

	if !settings.DeleteAdmins && msg.Sender != nil {
		member, err := members.ChatMemberOf(msg.Chat, msg.Sender)
		if err != nil {
			return "", false, fmt.Errorf("looking up chat member: %w", err)
		}
		if isAdminRole(member.Role) {
			return "", false, nil
		}
	}

	return kind, true, nil
}
