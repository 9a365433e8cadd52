package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/interactions"
)

func respondEphemeral(r *interactions.Responder, content string) {
	r.Respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// isPrivileged reports whether the caller may use a privileged command, either
// through the manage-server permission or the configured allow-list.
func isPrivileged(a IApp, userID, channelID string) (bool, error) {
	perms, err := a.Session().UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, fmt.Errorf("error getting user permissions: %w", err)
	}

	manage := perms&discordgo.PermissionManageServer != 0
	return a.Gate().IsPrivileged(userID, manage), nil
}
