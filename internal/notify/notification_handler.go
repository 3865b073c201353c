package notify

import (
	"context"
	"time"

	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"

	"github.com/rs/zerolog"
)

const sendTimeout = 30 * time.Second

// NotificationHandler turns domain events into emails, texts and admin
// alerts. Delivery runs after the triggering write has committed and its
// failures never reach the caller that published the event.
type NotificationHandler struct {
	email   ports.EmailSender
	sms     ports.SMSSender
	alerter ports.AdminAlerter // nil disables admin alerts
	tmpl    Templates
	devMode bool
	log     zerolog.Logger
}

// NewNotificationHandler creates the handler. alerter may be nil.
func NewNotificationHandler(
	email ports.EmailSender,
	sms ports.SMSSender,
	alerter ports.AdminAlerter,
	tmpl Templates,
	devMode bool,
	baseLogger *zerolog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		email:   email,
		sms:     sms,
		alerter: alerter,
		tmpl:    tmpl,
		devMode: devMode,
		log:     baseLogger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register subscribes the handler to every topic it serves.
func (h *NotificationHandler) Register(bus ports.EventBus) {
	bus.Subscribe(ports.TopicOTPIssued, h.HandleOTPIssued)
	bus.Subscribe(ports.TopicUserApproved, h.HandleUserApproved)
	bus.Subscribe(ports.TopicUserRejected, h.HandleUserRejected)
	if h.alerter != nil {
		bus.Subscribe(ports.TopicUserRegistered, h.HandleUserRegistered)
	}
}

// HandleOTPIssued delivers a code over the channel matching its purpose.
func (h *NotificationHandler) HandleOTPIssued(ctx context.Context, event ports.Event) error {
	evt, ok := event.Data.(ports.OTPIssuedEvent)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'otp:issued' event")
		return nil
	}

	if h.devMode {
		h.log.Info().
			Str("contact", evt.Contact).
			Str("purpose", string(evt.Purpose)).
			Str("code", evt.Code).
			Msg("Dev mode: one-time code issued")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var err error
	switch evt.Purpose {
	case domain.PurposeEmail:
		msg, rerr := h.tmpl.OTPEmail(evt.Code)
		if rerr != nil {
			return rerr
		}
		err = h.email.Send(ctx, evt.Contact, msg.Subject, msg.HTML)
	case domain.PurposePhone:
		err = h.sms.Send(ctx, evt.Contact, h.tmpl.OTPSMS(evt.Code))
	default:
		h.log.Error().Str("purpose", string(evt.Purpose)).Msg("Unknown OTP purpose")
		return nil
	}
	if err != nil {
		h.log.Error().Err(err).Str("purpose", string(evt.Purpose)).Str("reason", evt.Reason).Msg("Failed to deliver one-time code")
		return err
	}
	return nil
}

// HandleUserApproved emails the member that they can now log in.
func (h *NotificationHandler) HandleUserApproved(ctx context.Context, event ports.Event) error {
	evt, ok := event.Data.(ports.UserDecisionEvent)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:approved' event")
		return nil
	}
	msg, err := h.tmpl.ApprovedEmail(evt.User.FirstName)
	if err != nil {
		return err
	}
	return h.sendDecision(ctx, evt.User, msg.Subject, msg.HTML, "approved")
}

// HandleUserRejected emails the former applicant. The row is already gone,
// so everything needed comes from the event.
func (h *NotificationHandler) HandleUserRejected(ctx context.Context, event ports.Event) error {
	evt, ok := event.Data.(ports.UserDecisionEvent)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:rejected' event")
		return nil
	}
	msg, err := h.tmpl.RejectedEmail(evt.User.FirstName)
	if err != nil {
		return err
	}
	return h.sendDecision(ctx, evt.User, msg.Subject, msg.HTML, "rejected")
}

// HandleUserRegistered alerts admins that a profile awaits review.
func (h *NotificationHandler) HandleUserRegistered(ctx context.Context, event ports.Event) error {
	evt, ok := event.Data.(ports.UserRegisteredEvent)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:registered' event")
		return nil
	}
	if h.alerter == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := h.alerter.Alert(ctx, ports.AdminAlert{Text: h.tmpl.RegistrationAlert(evt), Subject: &evt.UserID}); err != nil {
		h.log.Error().Err(err).Str("user_id", evt.UserID.String()).Msg("Failed to alert admins")
		return err
	}
	return nil
}

func (h *NotificationHandler) sendDecision(ctx context.Context, u ports.DecidedUser, subject, body, decision string) error {
	if u.Email == "" {
		h.log.Warn().Str("user_id", u.ID.String()).Str("decision", decision).Msg("No email on file, skipping notification")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := h.email.Send(ctx, u.Email, subject, body); err != nil {
		h.log.Error().Err(err).Str("user_id", u.ID.String()).Str("decision", decision).Msg("Failed to send decision email")
		return err
	}
	h.log.Info().Str("user_id", u.ID.String()).Str("decision", decision).Msg("Decision email sent")
	return nil
}
