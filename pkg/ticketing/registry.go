package ticketing

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
)

// namePrefix is the prefix of every derived ticket channel name.
const namePrefix = "ticket-"

// DerivedName returns the deterministic, lowercase channel name for a user's
// ticket. Two tickets for the same derived name cannot coexist.
func DerivedName(username string) string {
	return namePrefix + strings.ToLower(username)
}

// Registry locates a user's open ticket channel. It keeps no state of its
// own: every lookup recomputes from the guild's live channel list, so the
// answer is always consistent with the platform at the cost of a linear scan.
// Guild channel counts are small, so the scan is acceptable.
type Registry struct {
	gw Gateway
}

// NewRegistry creates a registry over the given gateway.
func NewRegistry(gw Gateway) *Registry {
	return &Registry{
		gw: gw,
	}
}

// FindOpen returns the user's open ticket channel in the guild, or nil when
// the user has none.
func (r *Registry) FindOpen(guildID, username string) (*discordgo.Channel, error) {
	name := DerivedName(username)

	channels, err := r.gw.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing guild channels: %w", err)
	}

	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}
