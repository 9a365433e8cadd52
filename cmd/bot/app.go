package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wardenbot/warden/pkg/auth"
	"github.com/wardenbot/warden/pkg/config"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/dataaccess/connection"
	"github.com/wardenbot/warden/pkg/interactions"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/logsink"
	"github.com/wardenbot/warden/pkg/request"
	"github.com/wardenbot/warden/pkg/ticketing"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Config returns the application configuration.
	Config() *config.Config

	// Ticketing returns the ticket lifecycle controller.
	Ticketing() *ticketing.Controller

	// Gate returns the privilege gate.
	Gate() *auth.Gate

	// Sink returns the log channel sink.
	Sink() *logsink.Sink

	// Responder returns a responder for the given interaction.
	Responder(i *discordgo.InteractionCreate) *interactions.Responder
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// cfg is the application configuration, fixed at startup.
	cfg *config.Config

	// gate guards the privileged commands.
	gate *auth.Gate

	// sink is the log channel sink.
	sink *logsink.Sink

	// ctl is the ticket lifecycle controller.
	ctl *ticketing.Controller

	// tickets is the optional ticket audit store. Nil disables auditing.
	tickets dataaccess.ITicketDal

	// mongoPing reports audit store reachability for the health check. Nil
	// when auditing is disabled.
	mongoPing func(ctx context.Context) error

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router, cfg *config.Config) *App {
	return &App{
		Logger: l,
		r:      r,
		cfg:    cfg,
		gate:   auth.NewGate(cfg.Admins),
	}
}

func (a *App) Run() error {
	a.connectMongo()

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

// connectMongo connects the optional ticket audit store. A missing URI only
// disables auditing; the bot keeps running.
func (a *App) connectMongo() {
	if a.cfg.MongoUri == "" {
		a.Warn("No MongoDB URI provided, ticket auditing is disabled")
		return
	}

	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = a.cfg.MongoUri

	db, err := mongoConn.Connect()
	if err != nil {
		a.Warn("Error connecting to mongo, ticket auditing is disabled", slog.String(logging.KeyError, err.Error()))
		return
	}

	a.tickets = dataaccess.NewTicketDal(a.Log(), db)
	a.mongoPing = func(ctx context.Context) error {
		return db.Ping(ctx, nil)
	}
	a.Debug("Connected to MongoDB")
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + a.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to runServer events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg

	gw := &sessionGateway{s: dg}
	a.sink = logsink.New(a.Log(), gw, a.cfg.LogChannelId)

	var rec ticketing.Recorder
	if a.tickets != nil {
		rec = &auditRecorder{dal: a.tickets}
	}

	a.ctl = ticketing.NewController(a.Log(), gw, ticketing.NewScheduler(), a.sink, rec, ticketing.Config{
		CategoryID:     a.cfg.Ticketing.CategoryId,
		HandlerRoleIDs: a.cfg.Ticketing.HandlerRoles,
		MentionRoleIDs: a.cfg.Ticketing.MentionRoles,
		CloseDelay:     time.Duration(a.cfg.Ticketing.CloseDelaySeconds) * time.Second,
	})
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Log(), a.healthCheck())).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Log())

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Log())
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + a.cfg.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Member joined guild.
	a.s.AddHandler(memberJoinedHandler(a))

	// Member left guild.
	a.s.AddHandler(memberLeftHandler(a))

	// Message deleted.
	a.s.AddHandler(messageDeleteHandler(a))

	// Prefix commands.
	a.s.AddHandler(messageCreateHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandProcessor{
			SetupCmdName: setupCmdHandler,
		},
		// Component Controllers
		map[string]commandProcessor{
			ticketing.CategorySelectID:    openTicketFromSelect,
			ticketing.OpenTicketButtonID:  openTicketFromButton,
			ticketing.CloseTicketButtonID: closeTicketHandler,
			VerifyButtonID:                verifyHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		// Register the setup command.
		if _, err := a.Session().ApplicationCommandCreate(a.cfg.ApplicationId, g.ID, setupCmd); err != nil {
			return fmt.Errorf("error creating setup command for guild %s: %w", g.ID, err)
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		// Delete the setup command.
		if err := a.s.ApplicationCommandDelete(a.cfg.ApplicationId, guild.ID, setupCmd.ID); err != nil {
			return fmt.Errorf("error deleting setup command for guild %s: %w", guild.ID, err)
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Ticketing() *ticketing.Controller {
	return a.ctl
}

func (a *App) Gate() *auth.Gate {
	return a.gate
}

func (a *App) Sink() *logsink.Sink {
	return a.sink
}

func (a *App) Responder(i *discordgo.InteractionCreate) *interactions.Responder {
	return interactions.NewResponder(a.Log(), &sessionGateway{s: a.s}, i.Interaction)
}
