// Package interactions enforces the platform's response discipline for a
// single interaction: exactly one initial response (a reply or a deferred
// acknowledgement), then edits only.
package interactions

import (
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/besteffort"
)

// ResponseSender is the slice of the platform session the responder uses.
type ResponseSender interface {
	// InteractionRespond sends the initial response for an interaction.
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error

	// InteractionResponseEdit edits the existing response of an interaction.
	InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error)
}

// State is the response state of an interaction.
type State int

const (
	// StateUnanswered means no initial response has been attempted yet.
	StateUnanswered State = iota

	// StateReplied means an initial reply has been attempted.
	StateReplied

	// StateDeferred means a deferred acknowledgement has been attempted.
	StateDeferred
)

// Responder tracks the response state of one interaction. Regardless of how
// callers sequence Respond, Defer and Update, at most one initial response
// call reaches the platform. Delivery is best-effort: a platform failure is
// logged and swallowed, it never fails the surrounding workflow.
type Responder struct {
	l      *slog.Logger
	sender ResponseSender
	i      *discordgo.Interaction

	mu    sync.Mutex
	state State
}

// NewResponder creates a responder for one inbound interaction.
func NewResponder(l *slog.Logger, sender ResponseSender, i *discordgo.Interaction) *Responder {
	return &Responder{
		l:      l,
		sender: sender,
		i:      i,
	}
}

// State returns the current response state.
func (r *Responder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Respond sends the initial reply if the interaction is unanswered. If an
// initial response has already been attempted, the payload is delivered as an
// edit instead, so a second Respond never produces a second initial reply.
func (r *Responder) Respond(data *discordgo.InteractionResponseData) {
	r.mu.Lock()
	if r.state != StateUnanswered {
		r.mu.Unlock()
		r.Update(data)
		return
	}

	// The state advances even when the send fails (e.g. the interaction has
	// expired): the platform may have recorded the response anyway, and a
	// retry as a fresh initial reply would fail regardless.
	r.state = StateReplied
	r.mu.Unlock()

	besteffort.Do(r.l, "interaction_respond", func() error {
		return r.sender.InteractionRespond(r.i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		})
	})
}

// Defer sends a deferred acknowledgement if the interaction is unanswered.
// Use it before work that can exceed the platform's initial-response window,
// then deliver the outcome with Update.
func (r *Responder) Defer(ephemeral bool) {
	r.mu.Lock()
	if r.state != StateUnanswered {
		r.mu.Unlock()
		return
	}
	r.state = StateDeferred
	r.mu.Unlock()

	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	besteffort.Do(r.l, "interaction_defer", func() error {
		return r.sender.InteractionRespond(r.i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: data,
		})
	})
}

// Update edits the existing response. It is a no-op when no initial response
// has been attempted; callers sequence Respond or Defer first.
func (r *Responder) Update(data *discordgo.InteractionResponseData) {
	r.mu.Lock()
	if r.state == StateUnanswered {
		r.mu.Unlock()
		r.l.Warn("Update called on an unanswered interaction, dropping payload")
		return
	}
	r.mu.Unlock()

	edit := &discordgo.WebhookEdit{}
	if data.Content != "" {
		edit.Content = &data.Content
	}
	if len(data.Embeds) > 0 {
		edit.Embeds = &data.Embeds
	}
	if len(data.Components) > 0 {
		edit.Components = &data.Components
	}

	besteffort.Do(r.l, "interaction_update", func() error {
		_, err := r.sender.InteractionResponseEdit(r.i, edit)
		return err
	})
}
