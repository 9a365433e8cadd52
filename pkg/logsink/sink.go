// Package logsink sends audit notices and file attachments to the configured
// log channel. Delivery is fire-and-forget: failures are logged and ignored,
// and notices over the rate limit are dropped rather than queued.
package logsink

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/besteffort"
	"golang.org/x/time/rate"
)

// Sender is the slice of the platform session the sink uses.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
}

// Sink is a fire-and-forget writer to the configured log channel. A Sink with
// no channel configured discards everything.
type Sink struct {
	l         *slog.Logger
	send      Sender
	channelID string

	// lim bounds how fast the sink posts to the platform. Audit notices are
	// not worth tripping the platform's own rate limits over.
	lim *rate.Limiter
}

// New creates a sink for the given log channel. An empty channelID disables
// the sink.
func New(l *slog.Logger, send Sender, channelID string) *Sink {
	return &Sink{
		l:         l,
		send:      send,
		channelID: channelID,
		lim:       rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Enabled reports whether a log channel is configured.
func (s *Sink) Enabled() bool {
	return s.channelID != ""
}

// Notice posts a plain-text notice to the log channel.
func (s *Sink) Notice(format string, args ...any) {
	if !s.Enabled() {
		return
	}
	if !s.lim.Allow() {
		s.l.Debug("Log sink rate limit hit, dropping notice")
		return
	}

	besteffort.Do(s.l, "log_sink_notice", func() error {
		_, err := s.send.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
			Content: fmt.Sprintf(format, args...),
		})
		return err
	})
}

// File posts a note with a file attachment to the log channel.
func (s *Sink) File(note, filename string, contents io.Reader) {
	if !s.Enabled() {
		return
	}
	if !s.lim.Allow() {
		s.l.Debug("Log sink rate limit hit, dropping attachment")
		return
	}

	besteffort.Do(s.l, "log_sink_file", func() error {
		_, err := s.send.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
			Content: note,
			Files: []*discordgo.File{
				{
					Name:        filename,
					ContentType: "text/plain",
					Reader:      contents,
				},
			},
		})
		return err
	})
}
