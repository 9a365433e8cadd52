package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"
	"github.com/wardenbot/warden/pkg/interactions"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/messages"
	"github.com/wardenbot/warden/pkg/request"
)

// commandProcessor handles one slash command or component interaction. The
// responder is shared with the dispatcher, so an error response after a defer
// lands as an edit rather than a second initial reply.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate, r *interactions.Responder) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(l *slog.Logger, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches inbound interactions to the registered
// processors: slash commands by command name, components by custom ID.
func interactionHandler(a IApp, commands, components map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var name string
		var processor commandProcessor

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
			processor = commands[name]
		case discordgo.InteractionMessageComponent:
			name = i.MessageComponentData().CustomID
			processor = components[name]
		default:
			return
		}

		a.Log().Debug("Handling interaction", slog.String(logging.KeyCommand, name))

		r := a.Responder(i)

		if processor == nil {
			a.Log().Error("No processor found for interaction", slog.String(logging.KeyCommand, name))
			respondError(i, r)
			return
		}

		now := time.Now().UTC()
		defer func() {
			DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(now).Seconds())
		}()

		if err := processor(a, i, r); err != nil {
			a.Log().Error("Error processing interaction",
				slog.String(logging.KeyCommand, name),
				slog.String(logging.KeyError, err.Error()),
			)
			respondError(i, r)
		}
	}
}

// respondError reports a generic failure to the user. The responder turns it
// into an edit when the interaction was already acknowledged.
func respondError(i *discordgo.InteractionCreate, r *interactions.Responder) {
	r.Respond(&discordgo.InteractionResponseData{
		Content: messages.ErrUserErrorProcessing,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
