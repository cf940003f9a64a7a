package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Lifecycle event subjects. listing.deleted is the cascade signal the
// review service consumes to invalidate review back-references.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// ListingEvent is the payload published on every lifecycle transition.
type ListingEvent struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
