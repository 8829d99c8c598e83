package infrastructure

import "context"

// MessagePublisher is the outbound side of ledger event forwarding. NATSClient
// implements it; tests substitute a mock.
type MessagePublisher interface {
	// Publish sends one encoded event envelope to subject
	Publish(ctx context.Context, subject string, data []byte) error
}
