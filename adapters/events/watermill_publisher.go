package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/theweboftrust/wot.id/ports"
)

// AuthEvent is the payload published for auth lifecycle notifications.
type AuthEvent struct {
	Type      string `json:"type"` // "login" or "logout"
	DID       string `json:"did"`
	SessionID string `json:"session_id,omitempty"`
	TokenID   string `json:"token_id,omitempty"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     "wotid.auth",
	}
}

// PublishLogin publishes a login event for a freshly minted session.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, did string, sessionID string) error {
	return p.publish(AuthEvent{
		Type:      "login",
		DID:       did,
		SessionID: sessionID,
	})
}

// PublishLogout publishes a logout event so other instances can drop the session.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, did string, tokenID string) error {
	return p.publish(AuthEvent{
		Type:    "logout",
		DID:     did,
		TokenID: tokenID,
	})
}

func (p *WatermillPublisher) publish(event AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
