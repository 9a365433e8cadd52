package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/config"
	"github.com/wardenbot/warden/pkg/interactions"
	"github.com/wardenbot/warden/pkg/messages"
	"github.com/wardenbot/warden/pkg/ticketing"
)

const (
	// SetupCmdName is the command for posting the bot's panels.
	SetupCmdName = "setup"

	// TicketPanelCmdName is the sub command for posting the ticket panel.
	TicketPanelCmdName = "ticket_panel"

	// VerifyPanelCmdName is the sub command for posting the verify panel.
	VerifyPanelCmdName = "verify_panel"
)

// TicketEmoji is the emoji used on the open ticket button. (Envelope with arrow)
const TicketEmoji = "\U0001F4E9"

// setupCmd is the command for posting the ticket and verify panels.
var setupCmd = &discordgo.ApplicationCommand{
	Name:        SetupCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for setting up the bot's panels.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        TicketPanelCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This posts the ticket panel in the current channel.",
		},
		{
			Name:        VerifyPanelCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This posts the verify panel in the current channel.",
		},
	},
}

func setupCmdHandler(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error {
	ok, err := isPrivileged(a, i.Member.User.ID, i.ChannelID)
	if err != nil {
		return err
	}
	if !ok {
		respondEphemeral(r, messages.ErrNotPrivileged)
		return nil
	}

	switch sub := i.ApplicationCommandData().Options[0].Name; sub {
	case TicketPanelCmdName:
		if err := sendTicketPanel(a, i.ChannelID); err != nil {
			return err
		}
	case VerifyPanelCmdName:
		if err := sendVerifyPanel(a, i.ChannelID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown setup sub command %q", sub)
	}

	respondEphemeral(r, "Panel posted.")
	return nil
}

// sendTicketPanel posts the ticket panel: an embed, the reason menu and the
// open button.
func sendTicketPanel(a IApp, channelID string) error {
	panel := a.Config().Panel

	title := panel.Title
	if title == "" {
		title = "Support Tickets"
	}
	description := panel.Description
	if description == "" {
		description = "Need help? Pick a reason below or press the button to open a ticket."
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       panel.Colour.Int(),
	}
	if panel.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: panel.Footer}
	}

	options := make([]discordgo.SelectMenuOption, 0, len(a.Config().Ticketing.Reasons))
	for _, reason := range a.Config().Ticketing.Reasons {
		options = append(options, discordgo.SelectMenuOption{
			Label:       reason.Label,
			Value:       reason.Id,
			Description: reason.Description,
		})
	}

	message := &discordgo.MessageSend{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    ticketing.CategorySelectID,
						Placeholder: "Select a reason",
						Options:     options,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Open Ticket", TicketEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: ticketing.OpenTicketButtonID,
					},
				},
			},
		},
	}

	if _, err := a.Session().ChannelMessageSendComplex(channelID, message); err != nil {
		return fmt.Errorf("error sending ticket panel: %w", err)
	}
	return nil
}

// openTicketFromSelect opens a ticket for the reason picked from the panel
// menu.
func openTicketFromSelect(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error {
	reason := ""
	if values := i.MessageComponentData().Values; len(values) > 0 {
		reason = reasonLabel(a.Config(), values[0])
	}
	return openTicket(a, i, r, reason)
}

// openTicketFromButton opens a ticket with the default reason.
func openTicketFromButton(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error {
	return openTicket(a, i, r, "")
}

func openTicket(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder, reason string) error {
	if reason == "" {
		reason = "General Support"
	}

	// Channel provisioning can outlast the initial-response window.
	r.Defer(true)

	res, err := a.Ticketing().Open(context.Background(), ticketing.OpenRequest{
		GuildID:  i.GuildID,
		UserID:   i.Member.User.ID,
		Username: i.Member.User.Username,
		Reason:   reason,
	})
	if err != nil {
		return err
	}

	if res.Existing {
		r.Update(&discordgo.InteractionResponseData{
			Content: fmt.Sprintf(messages.TicketExists, res.Channel.ID),
		})
		return nil
	}

	TotalTicketsOpened.Inc()

	r.Update(&discordgo.InteractionResponseData{
		Content: fmt.Sprintf(messages.TicketCreated, res.Channel.ID),
	})
	return nil
}

// closeTicketHandler schedules the deletion of the ticket channel the close
// button lives in.
func closeTicketHandler(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error {
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}

	if !ticketing.IsTicketChannel(channel.Name) {
		respondEphemeral(r, messages.TicketNotAChannel)
		return nil
	}

	delay := int(a.Ticketing().CloseDelay().Seconds())
	r.Respond(&discordgo.InteractionResponseData{
		Content: fmt.Sprintf(messages.TicketClosing, delay),
	})

	a.Ticketing().Close(context.Background(), ticketing.CloseRequest{
		GuildID:     i.GuildID,
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		ClosedByID:  i.Member.User.ID,
	})

	TotalTicketsClosed.Inc()
	return nil
}

func reasonLabel(cfg *config.Config, value string) string {
	for _, reason := range cfg.Ticketing.Reasons {
		if reason.Id == value {
			return reason.Label
		}
	}
	return value
}
