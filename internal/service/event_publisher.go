package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/relentron/website/internal/models"
)

// SubjectEnquiryCreated is published once per stored enquiry
const SubjectEnquiryCreated = "enquiry.created"

// natsConn is the part of *nats.Conn the publisher needs
type natsConn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// EnquiryCreatedEvent is the payload of SubjectEnquiryCreated
type EnquiryCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventPublisher announces accepted enquiries on NATS for downstream consumers
type EventPublisher struct {
	conn natsConn
}

// NewEventPublisher connects to the NATS server at url
func NewEventPublisher(url string) (*EventPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("relentron-website"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &EventPublisher{conn: conn}, nil
}

func (p *EventPublisher) Name() string { return "nats" }

// Notify publishes the event and waits for the server to acknowledge the flush
func (p *EventPublisher) Notify(ctx context.Context, record *models.EnquiryRecord) error {
	payload, err := json.Marshal(EnquiryCreatedEvent{
		ID:        record.ID.Hex(),
		Name:      record.Name,
		Email:     record.Email,
		Service:   record.Service,
		CreatedAt: record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	if err := p.conn.Publish(SubjectEnquiryCreated, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", SubjectEnquiryCreated, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush %s: %w", SubjectEnquiryCreated, err)
	}
	return nil
}

func (p *EventPublisher) Close() {
	p.conn.Close()
}
