package dataaccess

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wardenbot/warden/pkg/custom"
	"github.com/wardenbot/warden/pkg/dataaccess/monitoring"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ticketDalName     = "ticket_dal"
	ticketsCollection = "tickets"
)

// ITicketDal is the audit store for tickets.
type ITicketDal interface {
	// SaveTicket saves a ticket.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets a ticket by its channel.
	GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// MarkClosed records that a ticket has been closed and by whom.
	MarkClosed(ctx context.Context, guildID, channelID, closedBy string) error

	// ListOpenTickets lists the open tickets recorded for a guild.
	ListOpenTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error)
}

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal(l *slog.Logger, client *mongo.Client) ITicketDal {
	return &ticketDal{
		l:      l.With(slog.String(logging.KeyDal, ticketDalName)),
		client: client,
	}
}

func (d *ticketDal) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(ticketsCollection)
}

func (d *ticketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"guild_id": ticket.GuildID, "channel_id": ticket.ChannelID}
	if _, err := d.collection().UpdateOne(ctx, filter, bson.M{"$set": ticket}, opts); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "get_ticket", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "get_ticket", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	ticket := new(entities.Ticket)
	err := d.collection().FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Decode(ticket)
	if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDal) MarkClosed(ctx context.Context, guildID, channelID, closedBy string) error {
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "mark_closed", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "mark_closed", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	filter := bson.M{"guild_id": guildID, "channel_id": channelID}
	update := bson.M{"$set": bson.M{
		"open":      false,
		"closed_by": closedBy,
		"closed_at": custom.Datetime(time.Now().UTC()),
	}}
	if _, err := d.collection().UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) ListOpenTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error) {
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "list_open_tickets", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "list_open_tickets", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	cur, err := d.collection().Find(ctx, bson.M{"guild_id": guildID, "open": true})
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	defer func() {
		_ = cur.Close(ctx)
	}()

	var tickets []*entities.Ticket
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}
	return tickets, nil
}
