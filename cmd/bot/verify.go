package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/interactions"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/messages"
)

// VerifyButtonID is the component ID for the verify button.
const VerifyButtonID = "verify_button"

// VerifyEmoji is the emoji used on the verify button. (Check mark)
const VerifyEmoji = "✅"

// sendVerifyPanel posts the verify panel: an embed and the verify button.
func sendVerifyPanel(a IApp, channelID string) error {
	verify := a.Config().Verify

	title := verify.Title
	if title == "" {
		title = "Verification"
	}
	description := verify.Description
	if description == "" {
		description = "Press the button below to verify yourself and unlock the server."
	}

	message := &discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       title,
			Description: description,
			Color:       verify.Colour.Int(),
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Verify", VerifyEmoji),
						Style:    discordgo.SuccessButton,
						CustomID: VerifyButtonID,
					},
				},
			},
		},
	}

	if _, err := a.Session().ChannelMessageSendComplex(channelID, message); err != nil {
		return fmt.Errorf("error sending verify panel: %w", err)
	}
	return nil
}

// verifyHandler grants the configured verify role to the pressing member.
func verifyHandler(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error {
	roleID := a.Config().Verify.RoleId
	if roleID == "" {
		a.Log().Warn("Verify button pressed but no verify role is configured")
		respondEphemeral(r, messages.VerifyFailed)
		return nil
	}

	if err := a.Session().GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, roleID); err != nil {
		a.Log().Error("Error granting verify role",
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, i.Member.User.ID),
			slog.String(logging.KeyError, err.Error()),
		)
		respondEphemeral(r, messages.VerifyFailed)
		return nil
	}

	a.Sink().Notice("%s <@%s> has been verified.", VerifyEmoji, i.Member.User.ID)
	respondEphemeral(r, messages.VerifyGranted)
	return nil
}
