package entities

import (
	"strings"

	"github.com/wardenbot/warden/pkg/custom"
)

// Ticket is the audit record of one support ticket. The live source of truth
// for open tickets is the guild's channel list; these records exist so a
// history of tickets survives channel deletion.
type Ticket struct {
	// GuildID is the ID of the guild the ticket was opened in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the provisioned ticket channel.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// Username is the handle of the user that opened the ticket. The ticket
	// channel name is derived from it.
	Username string `json:"username" bson:"username"`

	// Reason is the category or reason tag selected when opening.
	Reason string `json:"reason" bson:"reason"`

	// Open is whether the ticket is still open.
	Open bool `json:"open" bson:"open"`

	// ClosedBy is the ID of the user that closed the ticket, if closed.
	ClosedBy string `json:"closed_by,omitempty" bson:"closed_by,omitempty"`

	// OpenedAt is the time the ticket was opened.
	OpenedAt custom.Datetime `json:"opened_at" bson:"opened_at"`

	// ClosedAt is the time the ticket was closed, if closed.
	ClosedAt custom.Datetime `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Name returns the derived channel name for the ticket.
func (t *Ticket) Name() string {
	return "ticket-" + strings.ToLower(t.Username)
}
