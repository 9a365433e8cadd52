package ticketing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/besteffort"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/logsink"
)

const (
	// DefaultCloseDelay is the grace period between the close action and the
	// channel deletion. It gives the closing notice time to render; it is not
	// a correctness requirement.
	DefaultCloseDelay = 5 * time.Second

	// DefaultTranscriptLimit is how many recent messages a transcript covers.
	DefaultTranscriptLimit = 100

	// CloseEmoji is the emoji used on the close button. (Padlock)
	CloseEmoji = "\U0001F510"
)

// memberTextPermissions are the permissions granted to the requester and the
// handler roles on a ticket channel.
const memberTextPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// Ticket is one open support channel.
type Ticket struct {
	// GuildID is the guild the ticket belongs to.
	GuildID string

	// ChannelID is the provisioned channel.
	ChannelID string

	// UserID is the owning user.
	UserID string

	// Username is the owning user's handle; the channel name derives from it.
	Username string

	// Reason is the selected reason or category tag.
	Reason string

	// OpenedAt is when the ticket was opened.
	OpenedAt time.Time
}

// Config is the ticketing configuration, fixed at construction.
type Config struct {
	// CategoryID is the parent category for ticket channels. Empty means no
	// category.
	CategoryID string

	// HandlerRoleIDs are granted visibility and send on every ticket channel.
	HandlerRoleIDs []string

	// MentionRoleIDs are mentioned in the intro message of every ticket.
	MentionRoleIDs []string

	// CloseDelay overrides DefaultCloseDelay when positive.
	CloseDelay time.Duration

	// TranscriptLimit overrides DefaultTranscriptLimit when positive.
	TranscriptLimit int
}

// Controller orchestrates the ticket lifecycle. It is the sole mutator of
// tickets; the underlying channels are owned by the platform and referenced
// by ID only.
type Controller struct {
	l     *slog.Logger
	gw    Gateway
	reg   *Registry
	sched Scheduler
	sink  *logsink.Sink

	// rec is the optional audit recorder. Nil disables auditing.
	rec Recorder

	cfg   Config
	locks *nameLocks
}

// NewController creates a ticket lifecycle controller. rec may be nil.
func NewController(l *slog.Logger, gw Gateway, sched Scheduler, sink *logsink.Sink, rec Recorder, cfg Config) *Controller {
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.TranscriptLimit <= 0 {
		cfg.TranscriptLimit = DefaultTranscriptLimit
	}

	return &Controller{
		l:     l,
		gw:    gw,
		reg:   NewRegistry(gw),
		sched: sched,
		sink:  sink,
		rec:   rec,
		cfg:   cfg,
		locks: newNameLocks(),
	}
}

// CloseDelay returns the configured grace period before channel deletion.
func (c *Controller) CloseDelay() time.Duration {
	return c.cfg.CloseDelay
}

// IsTicketChannel reports whether a channel name is a derived ticket name.
func IsTicketChannel(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), namePrefix)
}

// OpenRequest asks for a ticket to be opened.
type OpenRequest struct {
	GuildID  string
	UserID   string
	Username string
	Reason   string
}

// OpenResult is the outcome of an open request.
type OpenResult struct {
	// Channel is the ticket channel, newly created or pre-existing.
	Channel *discordgo.Channel

	// Existing is true when the user already had an open ticket and no
	// channel was created.
	Existing bool
}

// Open opens a ticket for the requesting user, unless one already exists.
// Creation is serialised per (guild, derived-name), so two concurrent
// requests for the same user cannot both pass the duplicate check. A failure
// to create the channel is terminal for the attempt; failures after creation
// (intro post, log notice, audit) do not roll the channel back.
func (c *Controller) Open(ctx context.Context, req OpenRequest) (*OpenResult, error) {
	key := req.GuildID + "/" + DerivedName(req.Username)
	c.locks.lock(key)
	defer c.locks.unlock(key)

	existing, err := c.reg.FindOpen(req.GuildID, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking for an open ticket: %w", err)
	}
	if existing != nil {
		return &OpenResult{Channel: existing, Existing: true}, nil
	}

	ch, err := c.gw.GuildChannelCreateComplex(req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 DerivedName(req.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket opened by %s: %s", req.Username, req.Reason),
		ParentID:             c.cfg.CategoryID,
		PermissionOverwrites: c.channelOverwrites(req.GuildID, req.UserID),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	c.l.Info("Ticket opened",
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyUserID, req.UserID),
		slog.String(logging.KeyChannelID, ch.ID),
	)

	// The channel is usable without the intro message, so a failed post does
	// not fail the open.
	besteffort.Do(c.l, "ticket_intro_message", func() error {
		_, err := c.gw.ChannelMessageSendComplex(ch.ID, c.introMessage(req))
		return err
	})

	c.sink.Notice("Ticket opened by <@%s> (%s): <#%s>", req.UserID, req.Reason, ch.ID)

	if c.rec != nil {
		besteffort.Do(c.l, "ticket_audit_open", func() error {
			return c.rec.RecordOpen(ctx, &Ticket{
				GuildID:   req.GuildID,
				ChannelID: ch.ID,
				UserID:    req.UserID,
				Username:  req.Username,
				Reason:    req.Reason,
				OpenedAt:  time.Now().UTC(),
			})
		})
	}

	return &OpenResult{Channel: ch}, nil
}

func (c *Controller) channelOverwrites(guildID, userID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The requester can see and use the ticket.
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberTextPermissions,
		},
	}

	// Each handler role gets the same access as the requester.
	for _, roleID := range c.cfg.HandlerRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberTextPermissions,
		})
	}
	return overwrites
}

func (c *Controller) introMessage(req OpenRequest) *discordgo.MessageSend {
	content := fmt.Sprintf("<@%s>", req.UserID)
	for _, roleID := range c.cfg.MentionRoleIDs {
		content += fmt.Sprintf(" <@&%s>", roleID)
	}

	return &discordgo.MessageSend{
		Content: content,
		Embed: &discordgo.MessageEmbed{
			Title:       "Ticket",
			Description: fmt.Sprintf("**Reason:** %s\n\nDescribe your issue and a staff member will be with you shortly.", req.Reason),
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Close", CloseEmoji),
						Style:    discordgo.DangerButton,
						CustomID: CloseTicketButtonID,
					},
				},
			},
		},
	}
}

// CloseRequest asks for a ticket channel to be closed.
type CloseRequest struct {
	GuildID     string
	ChannelID   string
	ChannelName string

	// ClosedByID is the user invoking the close action.
	ClosedByID string
}

// Close schedules the channel for deletion after the grace delay and returns
// a cancel function for the pending close. At expiry the recent history is
// exported as a transcript and forwarded to the log sink; the channel is then
// deleted whether or not the transcript steps succeeded.
func (c *Controller) Close(ctx context.Context, req CloseRequest) (cancel func()) {
	c.l.Info("Ticket close scheduled",
		slog.String(logging.KeyChannelID, req.ChannelID),
		slog.String(logging.KeyUserID, req.ClosedByID),
	)

	return c.sched.Schedule(c.cfg.CloseDelay, func() {
		c.finishClose(ctx, req)
	})
}

func (c *Controller) finishClose(ctx context.Context, req CloseRequest) {
	// Transcript capture and forwarding are nice to have; the channel
	// deletion below is the operation's actual goal and must not be blocked.
	besteffort.Do(c.l, "ticket_transcript", func() error {
		msgs, err := c.gw.ChannelMessages(req.ChannelID, c.cfg.TranscriptLimit, "", "", "")
		if err != nil {
			return fmt.Errorf("error fetching channel history: %w", err)
		}

		path, err := writeTranscriptFile(req.ChannelName, BuildTranscript(msgs))
		if err != nil {
			return err
		}
		defer func() {
			_ = os.Remove(path)
		}()

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("error opening transcript file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()

		c.sink.File(
			fmt.Sprintf("Transcript of #%s, closed by <@%s>", req.ChannelName, req.ClosedByID),
			filepath.Base(path),
			f,
		)
		return nil
	})

	if _, err := c.gw.ChannelDelete(req.ChannelID); err != nil {
		c.l.Error("Error deleting ticket channel",
			slog.String(logging.KeyChannelID, req.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}

	c.l.Info("Ticket closed",
		slog.String(logging.KeyChannelID, req.ChannelID),
		slog.String(logging.KeyUserID, req.ClosedByID),
	)

	if c.rec != nil {
		besteffort.Do(c.l, "ticket_audit_close", func() error {
			return c.rec.RecordClose(ctx, req.GuildID, req.ChannelID, req.ClosedByID)
		})
	}
}
