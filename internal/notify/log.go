package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogSender writes notifications to the log instead of delivering them.
// Used for local runs without a mail transport.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a new log sender
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{log: logger.With().Str("component", "LogSender").Logger()}
}

func (s *LogSender) Send(_ context.Context, subject, body string) (string, error) {
	id := uuid.NewString()
	s.log.Info().
		Str("delivery_id", id).
		Str("subject", subject).
		Str("body", body).
		Msg("Notification (not delivered)")
	return id, nil
}
