package sms

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	Send(ctx context.Context, number, code string) error
}

// LogSender writes codes to the log instead of sending real messages.
// Default sink in development when no gateway API key is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{
		log: log.With(zap.String("sms", "log")),
	}
}

func (s *LogSender) Send(ctx context.Context, number, code string) error {
	s.log.Info("SMS code issued",
		zap.String("number", number),
		zap.String("code", code),
	)
	return nil
}
