// Package notify implements outbound notification delivery.
package notify

import (
	"context"

	domain "claimsdesk/internal/domain/notify"
	"claimsdesk/pkg/logger"
)

// LogNotifier writes notifications to the application log instead of
// delivering them. Used until an SMTP gateway is configured, and in
// development.
type LogNotifier struct {
	log *logger.Logger
}

var _ domain.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs the message metadata. The body is not logged because it
// may carry a temporary password.
func (n *LogNotifier) Send(ctx context.Context, msg domain.Message) error {
	n.log.WithContext(ctx).Infow("notification sent",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
