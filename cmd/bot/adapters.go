package main

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/custom"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/ticketing"
)

// sessionGateway narrows the discord session to the interfaces the domain
// packages consume.
type sessionGateway struct {
	s *discordgo.Session
}

func (g *sessionGateway) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	return g.s.GuildChannels(guildID)
}

func (g *sessionGateway) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return g.s.GuildChannelCreateComplex(guildID, data)
}

func (g *sessionGateway) ChannelDelete(channelID string) (*discordgo.Channel, error) {
	return g.s.ChannelDelete(channelID)
}

func (g *sessionGateway) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string) ([]*discordgo.Message, error) {
	return g.s.ChannelMessages(channelID, limit, beforeID, afterID, aroundID)
}

func (g *sessionGateway) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return g.s.ChannelMessageSendComplex(channelID, data)
}

func (g *sessionGateway) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return g.s.InteractionRespond(i, resp)
}

func (g *sessionGateway) InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error) {
	return g.s.InteractionResponseEdit(i, edit)
}

// auditRecorder bridges ticket lifecycle events into the audit store.
type auditRecorder struct {
	dal dataaccess.ITicketDal
}

func (r *auditRecorder) RecordOpen(ctx context.Context, t *ticketing.Ticket) error {
	return r.dal.SaveTicket(ctx, &entities.Ticket{
		GuildID:   t.GuildID,
		ChannelID: t.ChannelID,
		UserID:    t.UserID,
		Username:  t.Username,
		Reason:    t.Reason,
		Open:      true,
		OpenedAt:  custom.Datetime(t.OpenedAt),
	})
}

func (r *auditRecorder) RecordClose(ctx context.Context, guildID, channelID, closedBy string) error {
	return r.dal.MarkClosed(ctx, guildID, channelID, closedBy)
}
