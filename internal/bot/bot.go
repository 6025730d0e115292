// Package bot wires the Telegram command surface: a small admin-only
// control panel for the running watcher.
package bot

import (
	"context"
	"fmt"
	"time"

	"pumpfun-alert-bot/internal/filter"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// PriceSource supplies the current SOL/USD price and its freshness
// for /status.
type PriceSource interface {
	GetPrice() float64
	GetLastUpdated() time.Time
}

// Handlers backs the bot commands with the watcher's runtime state.
type Handlers struct {
	adminID int64
	state   *filter.State
	price   PriceSource
}

// New builds the Telegram bot and registers the command handlers.
// Every update from anyone but the admin is silently dropped.
func New(token string, adminID int64, state *filter.State, price PriceSource) (*tg.Bot, error) {
	h := &Handlers{
		adminID: adminID,
		state:   state,
		price:   price,
	}

	b, err := tg.New(token,
		tg.WithMiddlewares(h.adminOnly),
		tg.WithDefaultHandler(func(ctx context.Context, b *tg.Bot, update *models.Update) {}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	b.RegisterHandler(tg.HandlerTypeMessageText, "/start", tg.MatchTypePrefix, h.handleStart)
	b.RegisterHandler(tg.HandlerTypeMessageText, "/status", tg.MatchTypePrefix, h.handleStatus)
	b.RegisterHandler(tg.HandlerTypeMessageText, "/socials", tg.MatchTypePrefix, h.handleSocials)

	return b, nil
}

func (h *Handlers) adminOnly(next tg.HandlerFunc) tg.HandlerFunc {
	return func(ctx context.Context, b *tg.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		if update.Message.From.ID != h.adminID {
			logrus.WithField("user_id", update.Message.From.ID).
				Debug("🚫 Ignoring command from non-admin user")
			return
		}
		next(ctx, b, update)
	}
}

func (h *Handlers) handleStart(ctx context.Context, b *tg.Bot, update *models.Update) {
	text := "👋 *Pump.fun alert bot*\n\n" +
		"Watching for new token creations.\n\n" +
		"/status — watcher state\n" +
		"/socials — toggle the socials-required filter"
	h.reply(ctx, b, update, text)
}

func (h *Handlers) handleStatus(ctx context.Context, b *tg.Bot, update *models.Update) {
	h.reply(ctx, b, update, h.statusText())
}

func (h *Handlers) statusText() string {
	mode := "ON"
	if !h.state.RequireSocials() {
		mode = "OFF"
	}
	priceLine := fmt.Sprintf("SOL price: $%.2f", h.price.GetPrice())
	if updated := h.price.GetLastUpdated(); !updated.IsZero() {
		priceLine += fmt.Sprintf(" (updated %s)", updated.Format("15:04:05"))
	}
	return fmt.Sprintf(
		"📊 *Status*\n\nTokens seen: %d\nSocials filter: %s\n%s",
		h.state.SeenCount(), mode, priceLine,
	)
}

func (h *Handlers) handleSocials(ctx context.Context, b *tg.Bot, update *models.Update) {
	text := "🔓 Socials filter disabled, every creation will be announced"
	if h.state.ToggleSocials() {
		text = "🔒 Socials filter enabled, only tokens with a Telegram or Discord link will be announced"
	}
	h.reply(ctx, b, update, text)
}

func (h *Handlers) reply(ctx context.Context, b *tg.Bot, update *models.Update, text string) {
	_, err := b.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		logrus.WithField("error", err.Error()).Error("❌ Failed to send command reply")
	}
}
