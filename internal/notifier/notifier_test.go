package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"pumpfun-alert-bot/internal/enrich"
	"pumpfun-alert-bot/internal/parser"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gagliardetto/solana-go"
)

type captureSender struct {
	params *bot.SendMessageParams
	calls  int
}

func (c *captureSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	c.params = params
	c.calls++
	return &models.Message{}, nil
}

type fixedPrice struct{ price float64 }

func (f fixedPrice) GetPrice() float64 { return f.price }

func sampleEvent() *parser.CreationEvent {
	return &parser.CreationEvent{
		Signature:   "sig",
		Name:        "Foo Coin",
		Symbol:      "FOO",
		MetadataURI: "https://example.com/meta.json",
		Mint:        solana.NewWallet().PublicKey(),
		Dev:         solana.NewWallet().PublicKey(),
	}
}

func TestBuildAlert(t *testing.T) {
	event := sampleEvent()
	res := enrich.Result{
		Market: enrich.MarketInfo{
			Found:        true,
			MarketCapUSD: 1_500_000,
			HolderCount:  42,
			PriceUSD:     0.00001234,
		},
		Dev:     enrich.DevRisk{SolBalance: 7.5, IsRich: true},
		Socials: enrich.SocialLinks{Telegram: "https://t.me/foo"},
	}

	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	text := BuildAlert(event, res, 200.0, now)

	assert.Contains(t, text, "🆕 *NEW PUMP.FUN COIN!*")
	assert.Contains(t, text, "CA: `"+event.Mint.String()+"`")
	assert.Contains(t, text, "Name: Foo Coin (FOO)")
	assert.Contains(t, text, "Dev: `"+event.Dev.String()+"` (7.50 SOL 💰 Rich, ≈ $1500)")
	assert.Contains(t, text, "MC: $1.5M | Holders: 42")
	assert.Contains(t, text, "Price: $0.00001234")
	assert.Contains(t, text, "🟢 Low risk")
	assert.Contains(t, text, "📱 TG: https://t.me/foo")
	assert.NotContains(t, text, "Discord")
	assert.Contains(t, text, "Time: 14:30 UTC")
}

func TestBuildAlert_UnknownMarket(t *testing.T) {
	event := sampleEvent()
	res := enrich.Result{
		Dev: enrich.DevRisk{SolBalance: 1.0},
	}

	text := BuildAlert(event, res, 0, time.Now())

	assert.Contains(t, text, "MC: ? | Holders: ?")
	assert.Contains(t, text, "Price: $0.00000000")
	assert.Contains(t, text, "Dev: `"+event.Dev.String()+"` (1.00 SOL Poor)")
	assert.NotContains(t, text, "≈ $")
	assert.Contains(t, text, "🔴 Watch dev")
}

func TestNotify_SendsWithBuyButton(t *testing.T) {
	sender := &captureSender{}
	n := New(sender, 12345, fixedPrice{price: 200}, false)

	event := sampleEvent()
	err := n.Notify(context.Background(), event, enrich.Result{})
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)

	assert.Equal(t, int64(12345), sender.params.ChatID)
	assert.Equal(t, models.ParseModeMarkdown, sender.params.ParseMode)

	markup, ok := sender.params.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "https://jup.ag/tokens/"+event.Mint.String(), markup.InlineKeyboard[0][0].URL)
}

type failingSender struct{}

func (failingSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	return nil, errors.New("telegram unavailable")
}

func TestNotify_DeliveryFailurePropagates(t *testing.T) {
	n := New(failingSender{}, 12345, nil, false)

	err := n.Notify(context.Background(), sampleEvent(), enrich.Result{})
	assert.Error(t, err)
}

func TestNotify_DryRunSkipsSender(t *testing.T) {
	sender := &captureSender{}
	n := New(sender, 12345, nil, true)

	err := n.Notify(context.Background(), sampleEvent(), enrich.Result{})
	require.NoError(t, err)
	assert.Equal(t, 0, sender.calls)
}
