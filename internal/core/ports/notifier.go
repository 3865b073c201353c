package ports

import (
	"context"

	"github.com/google/uuid"
)

// EmailSender delivers a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers a single text message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// AdminAlert is a short HTML notice for the admins' channel.
type AdminAlert struct {
	Text string
	// Subject is the user the alert is about. When set, the channel may
	// offer approve and reject actions for that user.
	Subject *uuid.UUID
}

// AdminAlerter pushes alerts to the admins' channel.
type AdminAlerter interface {
	Alert(ctx context.Context, alert AdminAlert) error
}
