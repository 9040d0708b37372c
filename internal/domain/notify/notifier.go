// Package notify defines the outbound notification contract. Delivery
// (email, message broker) lives in infrastructure.
package notify

import "context"

// Message is one notification to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers messages to users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
