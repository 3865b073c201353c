package moderator

import (
	"CommunityDirectory/internal/adapters/telegram"
	"CommunityDirectory/internal/core/domain"
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Decider applies admin decisions. *services.AdminService satisfies it.
type Decider interface {
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) (bool, error)
}

type ApprovalHandler struct {
	log     zerolog.Logger
	decider Decider
	bot     Client
}

func NewApprovalHandler(decider Decider, bot Client, baseLogger *zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		log:     baseLogger.With().Str("component", "approval_handler").Logger(),
		decider: decider,
		bot:     bot,
	}
}

func (h *ApprovalHandler) Prefix() string {
	return telegram.DecisionPrefix
}

func (h *ApprovalHandler) Handle(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	log := h.log.With().Int64("admin_tg_id", cb.From.ID).Logger()

	action, userID, ok := telegram.ParseDecisionCallback(cb.Data)
	if !ok {
		log.Error().Str("data", cb.Data).Msg("Invalid callback data format")
		h.answer(cb.ID, "Unknown action.")
		return nil
	}
	log = log.With().Str("target_user_id", userID.String()).Str("action", action).Logger()

	var err error
	switch action {
	case telegram.ActionApprove:
		err = h.decider.Approve(ctx, userID)
	case telegram.ActionReject:
		var removed bool
		removed, err = h.decider.Reject(ctx, userID)
		if err == nil && !removed {
			err = domain.ErrNotFound
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Warn().Msg("User is no longer pending")
		h.answer(cb.ID, "User is no longer pending.")
		return h.closeAlert(cb, "⚠️ No longer pending")
	case err != nil:
		h.answer(cb.ID, "Could not apply the decision. Try the admin panel.")
		return fmt.Errorf("%s %s: %w", action, userID, err)
	}

	log.Info().Msg("Decision applied from Telegram")
	if action == telegram.ActionApprove {
		h.answer(cb.ID, "Approved.")
		return h.closeAlert(cb, "✅ Approved by "+displayName(cb.From))
	}
	h.answer(cb.ID, "Rejected.")
	return h.closeAlert(cb, "❌ Rejected by "+displayName(cb.From))
}

// answer stops the client-side spinner; failures only cost the toast.
func (h *ApprovalHandler) answer(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.log.Warn().Err(err).Msg("Failed to answer callback query")
	}
}

// closeAlert appends the outcome to the alert and drops its buttons.
func (h *ApprovalHandler) closeAlert(cb *tgbotapi.CallbackQuery, outcome string) error {
	text := outcome
	if cb.Message.Text != "" {
		text = cb.Message.Text + "\n\n" + outcome
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	if _, err := h.bot.Request(edit); err != nil {
		return fmt.Errorf("edit alert: %w", err)
	}
	return nil
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return u.FirstName
}
