// Package notifier delivers out-of-band messages (confirmation codes) to an
// external channel. The API server only hands off `{recipient, subject,
// body}`; actual mail/SMS transport lives outside this service.
package notifier

import (
	"context"
	"log/slog"
)

// Message is the delivery job handed to the external channel.
type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes deliveries to the structured log. Development only.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.Info("outbound notification",
		"recipient", msg.Recipient,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
