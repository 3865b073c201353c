package ports

import (
	"CommunityDirectory/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// Event is a generic wrapper for any event payload
type Event struct {
	Topic string
	Data  interface{}
}

// EventHandler is a function that can handle a specific event
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for our in-process pub/sub system
type EventBus interface {
	// Publish sends an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, data interface{}) error

	// Subscribe registers a handler for a specific topic
	Subscribe(topic string, handler EventHandler)

	// Wait blocks until all in-flight handlers have returned.
	Wait()
}

const (
	TopicOTPIssued      = "otp:issued"
	TopicUserRegistered = "user:registered"
	TopicUserApproved   = "user:approved"
	TopicUserRejected   = "user:rejected"

	// TopicModeratorCallback carries raw Telegram callback queries from
	// the moderator poller to its router.
	TopicModeratorCallback = "telegram:mod:callback_query"
)

// OTPIssuedEvent asks the notifier to deliver a code.
type OTPIssuedEvent struct {
	UserID  *uuid.UUID
	Contact string
	Purpose domain.OTPPurpose
	Code    string
	Reason  string // signup, login, resend, reset
}

// UserRegisteredEvent is published when a profile is completed.
type UserRegisteredEvent struct {
	UserID     uuid.UUID
	Name       string
	Occupation domain.OccupationType
}

// UserDecisionEvent is published after an approve or reject commits.
type UserDecisionEvent struct {
	User DecidedUser
}
