package mailer

import "context"

// Recipient is a named email address
type Recipient struct {
	Name  string
	Email string
}

// Message is one outbound email
type Message struct {
	To          Recipient
	Subject     string
	HTMLContent string
	TextContent string
}

// Service is any service that can deliver email messages
type Service interface {
	// Send delivers the given messages. Delivery is best-effort per
	// message; the returned error covers the batch.
	Send(ctx context.Context, messages ...*Message) error
}
