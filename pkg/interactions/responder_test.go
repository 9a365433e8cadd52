package interactions

import (
	"errors"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/logging"
)

type fakeSender struct {
	initialCalls []*discordgo.InteractionResponse
	editCalls    []*discordgo.WebhookEdit
	respondErr   error
	editErr      error
}

func (f *fakeSender) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.initialCalls = append(f.initialCalls, resp)
	return f.respondErr
}

func (f *fakeSender) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error) {
	f.editCalls = append(f.editCalls, edit)
	return nil, f.editErr
}

func newTestResponder(t *testing.T, sender ResponseSender) *Responder {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return NewResponder(l, sender, &discordgo.Interaction{ID: "1"})
}

func TestRespondTwiceSendsOneInitialReply(t *testing.T) {
	sender := new(fakeSender)
	r := newTestResponder(t, sender)

	r.Respond(&discordgo.InteractionResponseData{Content: "first"})
	r.Respond(&discordgo.InteractionResponseData{Content: "second"})

	// Exactly one initial reply and one edit, never two initial replies.
	require.Len(t, sender.initialCalls, 1)
	require.Len(t, sender.editCalls, 1)
	require.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, sender.initialCalls[0].Type)
	require.Equal(t, "second", *sender.editCalls[0].Content)
}

func TestDeferThenUpdate(t *testing.T) {
	sender := new(fakeSender)
	r := newTestResponder(t, sender)

	r.Defer(true)
	require.Equal(t, StateDeferred, r.State())

	r.Update(&discordgo.InteractionResponseData{Content: "done"})

	require.Len(t, sender.initialCalls, 1)
	require.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, sender.initialCalls[0].Type)
	require.Len(t, sender.editCalls, 1)
	require.Equal(t, "done", *sender.editCalls[0].Content)
}

func TestDeferAfterRespondIsNoop(t *testing.T) {
	sender := new(fakeSender)
	r := newTestResponder(t, sender)

	r.Respond(&discordgo.InteractionResponseData{Content: "hello"})
	r.Defer(false)

	require.Len(t, sender.initialCalls, 1)
	require.Equal(t, StateReplied, r.State())
}

func TestUpdateBeforeInitialResponseIsDropped(t *testing.T) {
	sender := new(fakeSender)
	r := newTestResponder(t, sender)

	r.Update(&discordgo.InteractionResponseData{Content: "too early"})

	require.Empty(t, sender.initialCalls)
	require.Empty(t, sender.editCalls)
	require.Equal(t, StateUnanswered, r.State())
}

func TestPlatformFailuresAreSwallowed(t *testing.T) {
	sender := &fakeSender{
		respondErr: errors.New("interaction expired"),
		editErr:    errors.New("unknown webhook"),
	}
	r := newTestResponder(t, sender)

	require.NotPanics(t, func() {
		r.Respond(&discordgo.InteractionResponseData{Content: "first"})
		r.Update(&discordgo.InteractionResponseData{Content: "second"})
	})

	// The failed initial reply still consumed the single initial response.
	require.Equal(t, StateReplied, r.State())
	require.Len(t, sender.initialCalls, 1)
	require.Len(t, sender.editCalls, 1)
}
