package telegram

import (
	"CommunityDirectory/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var _ ports.AdminAlerter = (*tgAlerter)(nil)

// tgAlerter implements AdminAlerter by posting into one admin chat.
type tgAlerter struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	panelURL  string
	decisions bool
	log       zerolog.Logger
}

// Connect creates the Bot API client; it calls getMe, so a bad token
// fails here rather than on the first alert.
func Connect(token, endpoint string, debug bool, baseLogger *zerolog.Logger) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Bot API connected")
	return api, nil
}

// NewAlerter sends to chatID. A non-empty panelURL adds an inline
// button linking to the admin panel. With decisions set, alerts about a
// user also carry approve and reject buttons for the moderator bot.
func NewAlerter(api *tgbotapi.BotAPI, chatID int64, panelURL string, decisions bool, baseLogger *zerolog.Logger) ports.AdminAlerter {
	log := baseLogger.With().Str("component", "tg_alerter").Logger()
	return &tgAlerter{api: api, chatID: chatID, panelURL: panelURL, decisions: decisions, log: log}
}

func (a *tgAlerter) Alert(ctx context.Context, alert ports.AdminAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(a.chatID, alert.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	var rows [][]tgbotapi.InlineKeyboardButton
	if a.decisions && alert.Subject != nil {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", DecisionCallback(ActionApprove, *alert.Subject)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", DecisionCallback(ActionReject, *alert.Subject)),
		))
	}
	if a.panelURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Open admin panel", a.panelURL)))
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if _, err := a.api.Send(msg); err != nil {
		a.log.Error().Err(err).Int64("chat_id", a.chatID).Msg("Failed to send admin alert")
		return err
	}
	return nil
}
