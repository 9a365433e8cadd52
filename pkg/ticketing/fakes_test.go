package ticketing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/logsink"
)

// fakeGateway is an in-memory stand-in for the platform session.
type fakeGateway struct {
	mu sync.Mutex

	// channels is the live channel list per guild.
	channels map[string][]*discordgo.Channel

	// created and deleted record the mutating calls in order.
	created []*discordgo.Channel
	deleted []string

	// sent records messages per channel ID.
	sent map[string][]*discordgo.MessageSend

	// history is returned by ChannelMessages, newest first.
	history []*discordgo.Message

	createErr  error
	historyErr error
	sendErr    error

	nextID int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		channels: make(map[string][]*discordgo.Channel),
		sent:     make(map[string][]*discordgo.MessageSend),
	}
}

func (f *fakeGateway) addChannel(guildID string, ch *discordgo.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[guildID] = append(f.channels[guildID], ch)
}

func (f *fakeGateway) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*discordgo.Channel, len(f.channels[guildID]))
	copy(out, f.channels[guildID])
	return out, nil
}

func (f *fakeGateway) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextID++
	ch := &discordgo.Channel{
		ID:       fmt.Sprintf("chan-%d", f.nextID),
		GuildID:  guildID,
		Name:     data.Name,
		Type:     data.Type,
		ParentID: data.ParentID,
	}
	f.channels[guildID] = append(f.channels[guildID], ch)
	f.created = append(f.created, ch)
	return ch, nil
}

func (f *fakeGateway) ChannelDelete(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	for guildID, chs := range f.channels {
		for idx, ch := range chs {
			if ch.ID == channelID {
				f.channels[guildID] = append(chs[:idx], chs[idx+1:]...)
				return ch, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeGateway) ChannelMessages(_ string, _ int, _, _, _ string) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeGateway) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent[channelID] = append(f.sent[channelID], data)
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (f *fakeGateway) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// manualScheduler captures scheduled closes so tests control time.
type manualScheduler struct {
	mu        sync.Mutex
	delays    []time.Duration
	fns       []func()
	cancelled int
}

func (m *manualScheduler) Schedule(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.fns = append(m.fns, fn)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cancelled++
	}
}

// fire runs every scheduled function, simulating the delay expiring.
func (m *manualScheduler) fire() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// fakeRecorder captures audit events.
type fakeRecorder struct {
	mu     sync.Mutex
	opened []*Ticket
	closed []string
}

func (r *fakeRecorder) RecordOpen(_ context.Context, t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, t)
	return nil
}

func (r *fakeRecorder) RecordClose(_ context.Context, _, channelID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, channelID)
	return nil
}

func newTestController(t *testing.T, gw *fakeGateway, sched Scheduler, rec Recorder, cfg Config) (*Controller, *fakeGateway) {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	sink := logsink.New(l, gw, "log-channel")
	return NewController(l, gw, sched, sink, rec, cfg), gw
}
