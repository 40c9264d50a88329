package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Event is a decision notification. Subject is relative to the publisher's
// prefix.
type Event interface {
	Subject() string
}

type TransactionDecided struct {
	TransactionID uuid.UUID  `json:"transactionId"`
	AccountID     uuid.UUID  `json:"accountId"`
	BankID        uuid.UUID  `json:"bankId"`
	ManagerID     uuid.UUID  `json:"managerId"`
	Type          string     `json:"type"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	BalanceAfter  string     `json:"balanceAfter"`
	TransferID    *uuid.UUID `json:"transferId,omitempty"`
	DecidedAt     time.Time  `json:"decidedAt"`
}

func (TransactionDecided) Subject() string { return "transactions.decided" }

type AccountDecided struct {
	AccountID uuid.UUID `json:"accountId"`
	BankID    uuid.UUID `json:"bankId"`
	ManagerID uuid.UUID `json:"managerId"`
	Status    string    `json:"status"`
	DecidedAt time.Time `json:"decidedAt"`
}

func (AccountDecided) Subject() string { return "accounts.decided" }

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("Publish: marshal: %w", err)
	}
	subject := SubjectFor(p.prefix, e)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("Publish %s: %w", subject, err)
	}
	return nil
}

func SubjectFor(prefix string, e Event) string {
	if prefix == "" {
		return e.Subject()
	}
	return prefix + "." + e.Subject()
}
