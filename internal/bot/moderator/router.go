package moderator

import (
	"CommunityDirectory/internal/core/ports"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Client is the slice of the Bot API the moderator needs.
// *tgbotapi.BotAPI satisfies it.
type Client interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CallbackHandler handles callback queries whose data starts with Prefix.
type CallbackHandler interface {
	Prefix() string
	Handle(ctx context.Context, cb *tgbotapi.CallbackQuery) error
}

// Router dispatches callback queries from the admin chat to handlers.
type Router struct {
	log              zerolog.Logger
	adminChatID      int64
	callbackHandlers map[string]CallbackHandler
}

func NewRouter(adminChatID int64, bus ports.EventBus, baseLogger *zerolog.Logger) *Router {
	r := &Router{
		log:              baseLogger.With().Str("component", "moderator_router").Logger(),
		adminChatID:      adminChatID,
		callbackHandlers: make(map[string]CallbackHandler),
	}
	bus.Subscribe(ports.TopicModeratorCallback, r.handleEvent)
	return r
}

func (r *Router) RegisterCallbackHandler(handler CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered moderator callback")
}

func (r *Router) handleEvent(ctx context.Context, event ports.Event) error {
	update, ok := event.Data.(tgbotapi.Update)
	if !ok {
		r.log.Error().Msgf("Invalid event data type for %s", event.Topic)
		return nil
	}
	r.HandleUpdate(ctx, &update)
	return nil
}

// HandleUpdate routes one update. Only callbacks on messages in the admin
// chat are honoured; the alert buttons exist nowhere else.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Ignoring non-callback update")
		return
	}

	log := r.log.With().
		Int64("tg_user_id", cb.From.ID).
		Int64("chat_id", cb.Message.Chat.ID).
		Logger()
	ctx = log.WithContext(ctx)

	if cb.Message.Chat.ID != r.adminChatID {
		log.Warn().Msg("Callback from outside the admin chat ignored")
		return
	}

	for prefix, handler := range r.callbackHandlers {
		if strings.HasPrefix(cb.Data, prefix) {
			log.Info().Str("handler", prefix).Msg("Routing to moderator callback handler")
			if err := handler.Handle(ctx, cb); err != nil {
				log.Error().Err(err).Msg("Moderator callback handler failed")
			}
			return
		}
	}

	log.Warn().Str("data", cb.Data).Msg("Moderator bot received unhandled callback")
}
