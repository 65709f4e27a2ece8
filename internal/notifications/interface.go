package notifications

import "context"

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert delivers message, returning an error if it was not accepted
	SendAlert(ctx context.Context, message string) error
	// Name identifies the channel in logs and metrics
	Name() string
}
