package bot

import (
	"context"
	"time"
)

// Upper bounds of command durations. Discord caps member timeouts at 28 days.
const (
	MaxTimeoutMinutes  = 28 * 24 * 60
	MaxTempbanMinutes  = 365 * 24 * 60
	MaxTempmuteMinutes = 365 * 24 * 60
)

// Update carries exactly one inbound platform event.
type Update struct {
	MemberJoin *MemberJoin
	Message    *Message
	Command    *Command
	ReceivedAt time.Time
}

type MemberJoin struct {
	GuildID string
	UserID  string
	Bot     bool
}

type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	SentAt    time.Time
}

// Command is a parsed slash command invocation. Optional integer options are
// nil when the invoker left them out.
type Command struct {
	Name      string
	GuildID   string
	ChannelID string
	InvokerID string
	UserID    string
	RoleID    string
	Reason    string
	Hours     *int
	Minutes   *int
	Responder Responder
}

// Responder delivers private replies to the invoker of a command.
type Responder interface {
	Reply(ctx context.Context, text string) error
}

func (u *Update) Time() time.Time {
	if u.Message != nil && !u.Message.SentAt.IsZero() {
		return u.Message.SentAt
	}
	if u.ReceivedAt.IsZero() {
		return time.Now()
	}
	return u.ReceivedAt
}

func (u *Update) Kind() string {
	switch {
	case u.Command != nil:
		return "command"
	case u.Message != nil:
		return "message"
	case u.MemberJoin != nil:
		return "member_join"
	default:
		return "unknown"
	}
}

func MentionUser(userID string) string {
	return "<@" + userID + ">"
}

func MentionRole(roleID string) string {
	return "<@&" + roleID + ">"
}
