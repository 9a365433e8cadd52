package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/messages"
)

const (
	// PingCmdName replies with the round trip to the gateway.
	PingCmdName = "ping"

	// GuessCmdName is the number guessing game.
	GuessCmdName = "guess"

	// ClearCmdName bulk deletes recent messages in the channel.
	ClearCmdName = "clear"

	// BanCmdName bans the mentioned member.
	BanCmdName = "ban"

	// KickCmdName kicks the mentioned member.
	KickCmdName = "kick"
)

// guessUpper is the inclusive upper bound of the guessing game.
const guessUpper = 10

// defaultClearCount is used when clear is invoked without a count.
const defaultClearCount = 10

// maxClearCount is the most messages one clear invocation removes. The bulk
// delete endpoint caps at 100.
const maxClearCount = 100

// messageCreateHandler handles the prefix commands. Anything not starting
// with the configured prefix is ignored.
func messageCreateHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if !strings.HasPrefix(m.Content, a.Config().Prefix) {
			return
		}

		fields := strings.Fields(strings.TrimPrefix(m.Content, a.Config().Prefix))
		if len(fields) == 0 {
			return
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		var err error
		switch cmd {
		case PingCmdName:
			err = pingCmd(a, m)
		case GuessCmdName:
			err = guessCmd(a, m, args)
		case ClearCmdName:
			err = privilegedCmd(a, m, func() error { return clearCmd(a, m, args) })
		case BanCmdName:
			err = privilegedCmd(a, m, func() error { return banCmd(a, m, args) })
		case KickCmdName:
			err = privilegedCmd(a, m, func() error { return kickCmd(a, m, args) })
		default:
			return
		}

		if err != nil {
			a.Log().Error("Error processing command",
				slog.String(logging.KeyCommand, cmd),
				slog.String(logging.KeyUserID, m.Author.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			if _, serr := a.Session().ChannelMessageSend(m.ChannelID, messages.ErrUserErrorProcessing); serr != nil {
				a.Log().Error("Error sending error reply", slog.String(logging.KeyError, serr.Error()))
			}
		}
	}
}

// privilegedCmd runs fn only when the author passes the privilege gate.
func privilegedCmd(a IApp, m *discordgo.MessageCreate, fn func() error) error {
	ok, err := isPrivileged(a, m.Author.ID, m.ChannelID)
	if err != nil {
		return err
	}
	if !ok {
		_, err := a.Session().ChannelMessageSend(m.ChannelID, messages.ErrNotPrivileged)
		return err
	}
	return fn()
}

func pingCmd(a IApp, m *discordgo.MessageCreate) error {
	reply := fmt.Sprintf("Pong! %dms", a.Session().HeartbeatLatency().Milliseconds())
	_, err := a.Session().ChannelMessageSend(m.ChannelID, reply)
	return err
}

func guessCmd(a IApp, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		_, err := a.Session().ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("Guess a number between 1 and %d, e.g. `%s%s 4`.", guessUpper, a.Config().Prefix, GuessCmdName))
		return err
	}

	guess, err := strconv.Atoi(args[0])
	if err != nil || guess < 1 || guess > guessUpper {
		_, err := a.Session().ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("That is not a number between 1 and %d.", guessUpper))
		return err
	}

	answer := rand.Intn(guessUpper) + 1
	reply := fmt.Sprintf("I was thinking of %d. Better luck next time!", answer)
	if guess == answer {
		reply = fmt.Sprintf("Correct, it was %d. Well done <@%s>!", answer, m.Author.ID)
	}
	_, err = a.Session().ChannelMessageSend(m.ChannelID, reply)
	return err
}

func clearCmd(a IApp, m *discordgo.MessageCreate, args []string) error {
	count := defaultClearCount
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			_, err := a.Session().ChannelMessageSend(m.ChannelID, "Usage: clear [count]")
			return err
		}
		count = parsed
	}
	if count > maxClearCount {
		count = maxClearCount
	}

	msgs, err := a.Session().ChannelMessages(m.ChannelID, count, m.ID, "", "")
	if err != nil {
		return fmt.Errorf("error fetching messages: %w", err)
	}

	ids := make([]string, 0, len(msgs)+1)
	// Remove the invoking message as well.
	ids = append(ids, m.ID)
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}

	if err := a.Session().ChannelMessagesBulkDelete(m.ChannelID, ids); err != nil {
		return fmt.Errorf("error bulk deleting messages: %w", err)
	}

	a.Sink().Notice("<@%s> cleared %d messages in <#%s>.", m.Author.ID, len(ids)-1, m.ChannelID)
	return nil
}

func banCmd(a IApp, m *discordgo.MessageCreate, args []string) error {
	if len(m.Mentions) == 0 {
		_, err := a.Session().ChannelMessageSend(m.ChannelID, "Usage: ban @member [reason]")
		return err
	}
	target := m.Mentions[0]
	reason := moderationReason(args)

	if err := a.Session().GuildBanCreateWithReason(m.GuildID, target.ID, reason, 0); err != nil {
		return fmt.Errorf("error banning member: %w", err)
	}

	a.Sink().Notice("<@%s> banned <@%s>: %s", m.Author.ID, target.ID, reason)
	_, err := a.Session().ChannelMessageSend(m.ChannelID, fmt.Sprintf("Banned %s.", target.Username))
	return err
}

func kickCmd(a IApp, m *discordgo.MessageCreate, args []string) error {
	if len(m.Mentions) == 0 {
		_, err := a.Session().ChannelMessageSend(m.ChannelID, "Usage: kick @member [reason]")
		return err
	}
	target := m.Mentions[0]
	reason := moderationReason(args)

	if err := a.Session().GuildMemberDeleteWithReason(m.GuildID, target.ID, reason); err != nil {
		return fmt.Errorf("error kicking member: %w", err)
	}

	a.Sink().Notice("<@%s> kicked <@%s>: %s", m.Author.ID, target.ID, reason)
	_, err := a.Session().ChannelMessageSend(m.ChannelID, fmt.Sprintf("Kicked %s.", target.Username))
	return err
}

// moderationReason strips the leading mention and joins the rest as the
// reason.
func moderationReason(args []string) string {
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "<@") {
			continue
		}
		rest = append(rest, arg)
	}
	if len(rest) == 0 {
		return "No reason provided"
	}
	return strings.Join(rest, " ")
}
