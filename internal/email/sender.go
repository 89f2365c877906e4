package email

import "context"

// Message is a single outbound email. Text is required, HTML is optional.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message through some provider
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
