package ticketing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDerivedNameChannel(t *testing.T) {
	sched := new(manualScheduler)
	rec := new(fakeRecorder)
	c, gw := newTestController(t, newFakeGateway(), sched, rec, Config{
		CategoryID:     "cat-1",
		HandlerRoleIDs: []string{"role-1", "role-2"},
	})

	res, err := c.Open(context.Background(), OpenRequest{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Wolf",
		Reason:   "billing",
	})
	require.NoError(t, err)
	require.False(t, res.Existing)
	require.Equal(t, "ticket-wolf", res.Channel.Name)
	require.Equal(t, "cat-1", res.Channel.ParentID)
	require.Equal(t, 1, gw.createdCount())

	// Intro message posted into the new channel with the requester's mention
	// and the close control.
	intro := gw.sent[res.Channel.ID]
	require.Len(t, intro, 1)
	require.Contains(t, intro[0].Content, "<@user-1>")
	require.NotEmpty(t, intro[0].Components)

	// Creation notice forwarded to the log sink.
	require.Len(t, gw.sent["log-channel"], 1)

	// Audit record written.
	require.Len(t, rec.opened, 1)
	require.Equal(t, "billing", rec.opened[0].Reason)
}

func TestOpenReturnsExistingTicket(t *testing.T) {
	sched := new(manualScheduler)
	gw := newFakeGateway()
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c1", Name: "ticket-wolf", Type: discordgo.ChannelTypeGuildText})
	c, gw := newTestController(t, gw, sched, nil, Config{})

	res, err := c.Open(context.Background(), OpenRequest{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "wolf",
		Reason:   "general",
	})
	require.NoError(t, err)
	require.True(t, res.Existing)
	require.Equal(t, "c1", res.Channel.ID)

	// No additional channel was created.
	require.Equal(t, 0, gw.createdCount())
}

func TestOpenChannelCreationFailureIsTerminal(t *testing.T) {
	sched := new(manualScheduler)
	gw := newFakeGateway()
	gw.createErr = errors.New("missing permissions")
	c, gw := newTestController(t, gw, sched, nil, Config{})

	res, err := c.Open(context.Background(), OpenRequest{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "wolf",
	})
	require.Error(t, err)
	require.Nil(t, res)

	// Nothing was posted anywhere.
	require.Empty(t, gw.sent)
}

func TestOpenSurvivesIntroPostFailure(t *testing.T) {
	sched := new(manualScheduler)
	gw := newFakeGateway()
	gw.sendErr = errors.New("cannot send")
	c, gw := newTestController(t, gw, sched, nil, Config{})

	// The channel is created and reported even though the intro post failed;
	// it is not rolled back.
	res, err := c.Open(context.Background(), OpenRequest{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "wolf",
	})
	require.NoError(t, err)
	require.False(t, res.Existing)
	require.Equal(t, 1, gw.createdCount())
}

func TestConcurrentOpensCreateOneChannel(t *testing.T) {
	sched := new(manualScheduler)
	c, gw := newTestController(t, newFakeGateway(), sched, nil, Config{})

	// Two near-simultaneous open requests for the same user. Creation is
	// serialised per derived name, so the loser of the race must find the
	// winner's channel instead of creating a second one.
	var wg sync.WaitGroup
	results := make([]*OpenResult, 2)
	errs := make([]error, 2)
	for idx := 0; idx < 2; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = c.Open(context.Background(), OpenRequest{
				GuildID:  "guild-1",
				UserID:   "user-1",
				Username: "wolf",
			})
		}(idx)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	require.Equal(t, 1, gw.createdCount())
	require.Equal(t, results[0].Channel.ID, results[1].Channel.ID)
	require.NotEqual(t, results[0].Existing, results[1].Existing)
}

func TestCloseDeletesAfterDelay(t *testing.T) {
	sched := new(manualScheduler)
	rec := new(fakeRecorder)
	gw := newFakeGateway()
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c1", Name: "ticket-wolf", Type: discordgo.ChannelTypeGuildText})
	c, gw := newTestController(t, gw, sched, rec, Config{})

	c.Close(context.Background(), CloseRequest{
		GuildID:     "guild-1",
		ChannelID:   "c1",
		ChannelName: "ticket-wolf",
		ClosedByID:  "user-2",
	})

	// Scheduled with the grace delay; nothing deleted until it expires.
	require.Equal(t, []time.Duration{DefaultCloseDelay}, sched.delays)
	require.Empty(t, gw.deleted)

	sched.fire()

	require.Equal(t, []string{"c1"}, gw.deleted)
	require.Equal(t, []string{"c1"}, rec.closed)

	// Transcript attachment forwarded to the log sink before deletion.
	require.Len(t, gw.sent["log-channel"], 1)
	require.Len(t, gw.sent["log-channel"][0].Files, 1)
}

func TestCloseDeletesExactlyOnceWhenTranscriptFails(t *testing.T) {
	sched := new(manualScheduler)
	gw := newFakeGateway()
	gw.addChannel("guild-1", &discordgo.Channel{ID: "c1", Name: "ticket-wolf", Type: discordgo.ChannelTypeGuildText})
	gw.historyErr = errors.New("missing access")
	c, gw := newTestController(t, gw, sched, nil, Config{})

	c.Close(context.Background(), CloseRequest{
		GuildID:     "guild-1",
		ChannelID:   "c1",
		ChannelName: "ticket-wolf",
		ClosedByID:  "user-2",
	})
	sched.fire()

	// Channel removal is not blocked by transcript failure.
	require.Equal(t, []string{"c1"}, gw.deleted)
	require.Empty(t, gw.sent["log-channel"])
}

func TestCloseCancel(t *testing.T) {
	sched := new(manualScheduler)
	c, gw := newTestController(t, newFakeGateway(), sched, nil, Config{})

	cancel := c.Close(context.Background(), CloseRequest{ChannelID: "c1"})
	cancel()

	require.Equal(t, 1, sched.cancelled)
	require.Empty(t, gw.deleted)
}

func TestCloseDelayOverride(t *testing.T) {
	sched := new(manualScheduler)
	c, _ := newTestController(t, newFakeGateway(), sched, nil, Config{CloseDelay: 10 * time.Second})

	require.Equal(t, 10*time.Second, c.CloseDelay())
	c.Close(context.Background(), CloseRequest{ChannelID: "c1"})
	require.Equal(t, []time.Duration{10 * time.Second}, sched.delays)
}
