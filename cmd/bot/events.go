package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// memberJoinedHandler announces new members on the log channel.
func memberJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildMemberAdd) {
	return func(_ *discordgo.Session, g *discordgo.GuildMemberAdd) {
		if g.User == nil || g.User.Bot {
			return
		}
		a.Log().Info(fmt.Sprintf("Member %s joined guild %s", g.User.Username, g.GuildID))
		a.Sink().Notice("\U0001F4E5 %s (<@%s>) joined the server.", g.User.Username, g.User.ID)
	}
}

// memberLeftHandler announces departures on the log channel.
func memberLeftHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildMemberRemove) {
	return func(_ *discordgo.Session, g *discordgo.GuildMemberRemove) {
		if g.User == nil || g.User.Bot {
			return
		}
		a.Log().Info(fmt.Sprintf("Member %s left guild %s", g.User.Username, g.GuildID))
		a.Sink().Notice("\U0001F4E4 %s (<@%s>) left the server.", g.User.Username, g.User.ID)
	}
}

// messageDeleteHandler reports deleted messages on the log channel. The
// previous content is only available when the message was still cached.
func messageDeleteHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(_ *discordgo.Session, m *discordgo.MessageDelete) {
		before := m.BeforeDelete
		if before == nil || before.Author == nil || before.Author.Bot {
			return
		}

		content := before.Content
		if content == "" {
			content = "[no text content]"
		}
		a.Sink().Notice("\U0001F5D1 Message by <@%s> deleted in <#%s>: %s", before.Author.ID, m.ChannelID, content)
	}
}
