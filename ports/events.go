package ports

import "context"

// EventPublisher publishes auth lifecycle events to notify other instances
type EventPublisher interface {
	PublishLogin(ctx context.Context, did string, sessionID string) error
	PublishLogout(ctx context.Context, did string, tokenID string) error
}
