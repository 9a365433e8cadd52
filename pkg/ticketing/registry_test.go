package ticketing

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestDerivedName(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{name: "Lowercase", username: "wolf", want: "ticket-wolf"},
		{name: "MixedCase", username: "WoLf", want: "ticket-wolf"},
		{name: "Uppercase", username: "ADMIN", want: "ticket-admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DerivedName(tt.username))
		})
	}
}

func TestFindOpen(t *testing.T) {
	gw := newFakeGateway()
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c1", Name: "general", Type: discordgo.ChannelTypeGuildText})
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c2", Name: "ticket-wolf", Type: discordgo.ChannelTypeGuildText})
	reg := NewRegistry(gw)

	// Matches regardless of the username's case.
	ch, err := reg.FindOpen("guild-1", "Wolf")
	require.NoError(t, err)
	require.NotNil(t, ch)
	require.Equal(t, "c2", ch.ID)

	// No ticket channel for this user.
	ch, err = reg.FindOpen("guild-1", "someone")
	require.NoError(t, err)
	require.Nil(t, ch)

	// Unknown guild has no channels at all.
	ch, err = reg.FindOpen("guild-2", "wolf")
	require.NoError(t, err)
	require.Nil(t, ch)
}

func TestFindOpenIgnoresNonTextChannels(t *testing.T) {
	gw := newFakeGateway()
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c1", Name: "ticket-wolf", Type: discordgo.ChannelTypeGuildCategory})
	reg := NewRegistry(gw)

	ch, err := reg.FindOpen("guild-1", "wolf")
	require.NoError(t, err)
	require.Nil(t, ch)
}

func TestIsTicketChannel(t *testing.T) {
	require.True(t, IsTicketChannel("ticket-wolf"))
	require.True(t, IsTicketChannel("Ticket-Wolf"))
	require.False(t, IsTicketChannel("general"))
	require.False(t, IsTicketChannel("tickets"))
}
