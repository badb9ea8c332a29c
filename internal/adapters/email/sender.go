package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one email via an external provider.
type SendRequest struct {
	To      []string
	From    string // e.g. "Demir Spor <noreply@demirspor.example>"
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender sends transactional email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
