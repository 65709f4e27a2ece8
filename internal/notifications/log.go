package notifications

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes alerts to the logger instead of a chat. Used for
// dry runs and when no bot token is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (l *LogNotifier) Name() string {
	return "log"
}

func (l *LogNotifier) SendAlert(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.logger.Info().Str("channel", l.Name()).Msg(message)
	return nil
}
