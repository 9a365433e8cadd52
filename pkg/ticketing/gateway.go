// Package ticketing implements the ticket lifecycle: locating a user's open
// ticket by its derived channel name, provisioning a new ticket channel, and
// the delayed close with transcript capture.
package ticketing

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
)

const (
	// OpenTicketButtonID is the component ID for the open ticket button.
	OpenTicketButtonID = "ticket_open_button"

	// CloseTicketButtonID is the component ID for the close ticket button.
	CloseTicketButtonID = "ticket_close_button"

	// CategorySelectID is the component ID for the ticket category menu.
	CategorySelectID = "ticket_category_select"
)

// Gateway is the slice of the platform session the ticketing package uses.
type Gateway interface {
	// GuildChannels returns the guild's current channel list.
	GuildChannels(guildID string) ([]*discordgo.Channel, error)

	// GuildChannelCreateComplex creates a channel in a guild.
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// ChannelDelete deletes a channel.
	ChannelDelete(channelID string) (*discordgo.Channel, error)

	// ChannelMessages returns up to limit messages, newest first.
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string) ([]*discordgo.Message, error)

	// ChannelMessageSendComplex sends a message to a channel.
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
}

// Recorder receives audit events for tickets. Implementations must tolerate
// being called for tickets they have never seen.
type Recorder interface {
	// RecordOpen records that a ticket has been opened.
	RecordOpen(ctx context.Context, t *Ticket) error

	// RecordClose records that a ticket has been closed and by whom.
	RecordClose(ctx context.Context, guildID, channelID, closedBy string) error
}
