package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"pumpfun-alert-bot/internal/enrich"
	"pumpfun-alert-bot/internal/filter"
	"pumpfun-alert-bot/internal/monitor"
	"pumpfun-alert-bot/internal/notifier"
	"pumpfun-alert-bot/internal/parser"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLogs(name, symbol, uri string) []string {
	data := make([]byte, 76+len(uri))
	copy(data, parser.CreateEventDiscriminator)
	copy(data[8:40], name)
	copy(data[40:72], symbol)
	binary.LittleEndian.PutUint32(data[72:76], uint32(len(uri)))
	copy(data[76:], uri)

	return []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		"Program log: Instruction: Create",
		"Program data: " + base64.StdEncoding.EncodeToString(data),
	}
}

type stubResolver struct {
	mint solana.PublicKey
	dev  solana.PublicKey
	err  error
}

func (s *stubResolver) Resolve(ctx context.Context, event *parser.CreationEvent) error {
	if s.err != nil {
		return s.err
	}
	event.Mint = s.mint
	event.Dev = s.dev
	return nil
}

type stubEnricher struct {
	res enrich.Result
}

func (s *stubEnricher) Enrich(ctx context.Context, event *parser.CreationEvent) enrich.Result {
	return s.res
}

type captureNotifier struct {
	mu      sync.Mutex
	events  []*parser.CreationEvent
	results []enrich.Result
	err     error
}

func (c *captureNotifier) Notify(ctx context.Context, event *parser.CreationEvent, res enrich.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	c.results = append(c.results, res)
	return c.err
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func runBatches(p *Pipeline, batches ...*monitor.LogBatch) {
	ch := make(chan *monitor.LogBatch, len(batches))
	for _, b := range batches {
		ch <- b
	}
	close(ch)
	p.Run(context.Background(), ch)
}

func TestPipeline_EndToEnd(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	resolver := &stubResolver{mint: mint, dev: solana.NewWallet().PublicKey()}
	enricher := &stubEnricher{res: enrich.Result{
		Dev:     enrich.DevRisk{SolBalance: 1.0},
		Socials: enrich.SocialLinks{Telegram: "https://t.me/foo"},
	}}
	state := filter.NewState(0)
	sink := &captureNotifier{}

	p := New(resolver, enricher, state, sink)
	runBatches(p,
		&monitor.LogBatch{Signature: "sig1", Logs: createLogs("Foo", "FOO", "https://x/y.json")},
		// Same mint again: must be suppressed.
		&monitor.LogBatch{Signature: "sig2", Logs: createLogs("Foo", "FOO", "https://x/y.json")},
	)

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "Foo", sink.events[0].Name)
	assert.Equal(t, mint, sink.events[0].Mint)
	assert.Equal(t, 1, state.SeenCount())

	text := notifier.BuildAlert(sink.events[0], sink.results[0], 0, time.Now())
	assert.Contains(t, text, "Foo (FOO)")
	assert.Contains(t, text, "📱 TG: https://t.me/foo")
	assert.Contains(t, text, "🔴 Watch dev")
	assert.Contains(t, text, "MC: ? | Holders: ?")
	assert.Contains(t, text, "Price: $0.00000000")
}

func TestPipeline_IgnoresNonCreateBatches(t *testing.T) {
	state := filter.NewState(0)
	sink := &captureNotifier{}

	p := New(&stubResolver{}, &stubEnricher{}, state, sink)
	runBatches(p, &monitor.LogBatch{
		Signature: "sig",
		Logs:      []string{"Program log: Instruction: Buy"},
	})

	assert.Equal(t, 0, sink.count())
	assert.Equal(t, 0, state.SeenCount())
}

func TestPipeline_ResolveFailureDiscardsEvent(t *testing.T) {
	state := filter.NewState(0)
	sink := &captureNotifier{}

	p := New(&stubResolver{err: errors.New("rpc down")}, &stubEnricher{}, state, sink)
	runBatches(p, &monitor.LogBatch{
		Signature: "sig",
		Logs:      createLogs("Foo", "FOO", "https://x/y.json"),
	})

	assert.Equal(t, 0, sink.count())
	assert.Equal(t, 0, state.SeenCount())
}

func TestPipeline_NotifyFailureStillMarksSeen(t *testing.T) {
	state := filter.NewState(0)
	sink := &captureNotifier{err: errors.New("telegram unavailable")}
	resolver := &stubResolver{mint: solana.NewWallet().PublicKey()}
	enricher := &stubEnricher{res: enrich.Result{
		Socials: enrich.SocialLinks{Telegram: "https://t.me/foo"},
	}}

	p := New(resolver, enricher, state, sink)
	runBatches(p, &monitor.LogBatch{
		Signature: "sig",
		Logs:      createLogs("Foo", "FOO", "https://x/y.json"),
	})

	// The send was attempted, the failure is logged, the mint stays
	// seen so the token is not re-announced on a later sighting.
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, 1, state.SeenCount())
}

func TestPipeline_SocialsFilterBlocksBareTokens(t *testing.T) {
	state := filter.NewState(0)
	sink := &captureNotifier{}
	resolver := &stubResolver{mint: solana.NewWallet().PublicKey()}

	p := New(resolver, &stubEnricher{}, state, sink)
	runBatches(p, &monitor.LogBatch{
		Signature: "sig",
		Logs:      createLogs("Foo", "FOO", "https://x/y.json"),
	})

	assert.Equal(t, 0, sink.count())
	// Still marked seen so a later toggle cannot resurrect it.
	assert.Equal(t, 1, state.SeenCount())
}
