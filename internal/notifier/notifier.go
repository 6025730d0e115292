// Package notifier renders creation alerts and delivers them to the
// configured Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pumpfun-alert-bot/internal/enrich"
	"pumpfun-alert-bot/internal/logger"
	"pumpfun-alert-bot/internal/parser"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// Sender is the slice of the Telegram bot the notifier needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// PriceSource supplies the current SOL/USD price for the dev-balance
// line.
type PriceSource interface {
	GetPrice() float64
}

// Notifier delivers formatted alerts. In dry-run mode it logs the
// rendered message instead of sending it.
type Notifier struct {
	sender Sender
	chatID int64
	price  PriceSource
	dryRun bool
}

func New(sender Sender, chatID int64, price PriceSource, dryRun bool) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		price:  price,
		dryRun: dryRun,
	}
}

// Notify renders and sends the alert for one creation. A delivery
// failure is returned for the caller to log; nothing retries, a flaky
// Telegram API must not stall the pipeline.
func (n *Notifier) Notify(ctx context.Context, event *parser.CreationEvent, res enrich.Result) error {
	var solPrice float64
	if n.price != nil {
		solPrice = n.price.GetPrice()
	}
	text := BuildAlert(event, res, solPrice, time.Now())

	if n.dryRun {
		logrus.WithFields(logrus.Fields{
			"mint":   event.Mint.String(),
			"symbol": event.Symbol,
		}).Infof("🧪 Dry run, alert not sent:\n%s", text)
		return nil
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      n.chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: buyKeyboard(event.Mint.String()),
	})
	if err != nil {
		return fmt.Errorf("failed to send alert for %s: %w", logger.ShortSig(event.Mint.String()), err)
	}

	logrus.WithFields(logrus.Fields{
		"symbol": event.Symbol,
		"mint":   logger.ShortSig(event.Mint.String()),
	}).Info("📢 Alert sent")
	return nil
}

// BuildAlert renders the Markdown alert body. Unknown market fields
// render as "?" rather than zero so a seconds-old token is not shown
// with a $0 market cap.
func BuildAlert(event *parser.CreationEvent, res enrich.Result, solPrice float64, now time.Time) string {
	var b strings.Builder

	b.WriteString("🆕 *NEW PUMP.FUN COIN!*\n\n")
	fmt.Fprintf(&b, "CA: `%s`\n", event.Mint.String())
	fmt.Fprintf(&b, "Name: %s (%s)\n\n", event.Name, event.Symbol)

	wealth := "Poor"
	if res.Dev.IsRich {
		wealth = "💰 Rich"
	}
	fmt.Fprintf(&b, "Dev: `%s` (%.2f SOL %s", event.Dev.String(), res.Dev.SolBalance, wealth)
	if solPrice > 0 {
		fmt.Fprintf(&b, ", ≈ $%.0f", res.Dev.SolBalance*solPrice)
	}
	b.WriteString(")\n")

	mc, holders := "?", "?"
	if res.Market.Found {
		mc = logger.FormatMarketCap(res.Market.MarketCapUSD)
		if res.Market.HolderCount > 0 {
			holders = fmt.Sprintf("%d", res.Market.HolderCount)
		}
	}
	fmt.Fprintf(&b, "MC: %s | Holders: %s\n", mc, holders)
	fmt.Fprintf(&b, "Price: $%.8f\n", res.Market.PriceUSD)
	b.WriteString("\n")

	if res.Dev.IsRich {
		b.WriteString("🟢 Low risk\n")
	} else {
		b.WriteString("🔴 Watch dev\n")
	}

	if res.Socials.HasAny() {
		b.WriteString("\n")
		if res.Socials.Telegram != "" {
			fmt.Fprintf(&b, "📱 TG: %s\n", res.Socials.Telegram)
		}
		if res.Socials.Discord != "" {
			fmt.Fprintf(&b, "💬 Discord: %s\n", res.Socials.Discord)
		}
	}

	fmt.Fprintf(&b, "\nTime: %s", now.Format("15:04 MST"))
	return b.String()
}

func buyKeyboard(mint string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{
					Text: "💰 Buy on Jupiter 🚀",
					URL:  "https://jup.ag/tokens/" + mint,
				},
			},
		},
	}
}
