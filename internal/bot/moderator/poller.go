package moderator

import (
	"CommunityDirectory/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Poller long-polls the Bot API and publishes callback queries to the bus.
type Poller struct {
	api *tgbotapi.BotAPI
	bus ports.EventBus
	log zerolog.Logger
}

func NewPoller(api *tgbotapi.BotAPI, bus ports.EventBus, baseLogger *zerolog.Logger) *Poller {
	return &Poller{
		api: api,
		bus: bus,
		log: baseLogger.With().Str("component", "moderator_poller").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	// getUpdates fails while a webhook is set.
	if _, err := p.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		p.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"callback_query"}
	updates := p.api.GetUpdatesChan(u)

	p.log.Info().Msg("Polling update listener started")

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			p.log.Info().Msg("Polling stopped gracefully")
			return
		case update := <-updates:
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery == nil {
		return
	}
	if err := p.bus.Publish(ctx, ports.TopicModeratorCallback, update); err != nil {
		p.log.Error().Err(err).Msg("Failed to publish callback query")
	}
}
