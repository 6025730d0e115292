// Package pipeline drives a log batch from decode to alert. Each batch
// is handled in its own goroutine so a slow enrichment never backs up
// the subscription stream.
package pipeline

import (
	"context"
	"sync"

	"pumpfun-alert-bot/internal/enrich"
	"pumpfun-alert-bot/internal/filter"
	"pumpfun-alert-bot/internal/logger"
	"pumpfun-alert-bot/internal/monitor"
	"pumpfun-alert-bot/internal/parser"

	"github.com/sirupsen/logrus"
)

// Resolver fills in the on-chain fields the log payload lacks.
type Resolver interface {
	Resolve(ctx context.Context, event *parser.CreationEvent) error
}

// Enricher gathers best-effort off-chain context for an event.
type Enricher interface {
	Enrich(ctx context.Context, event *parser.CreationEvent) enrich.Result
}

// Notifier delivers the final alert.
type Notifier interface {
	Notify(ctx context.Context, event *parser.CreationEvent, res enrich.Result) error
}

// Pipeline processes log batches end to end.
type Pipeline struct {
	resolver Resolver
	enricher Enricher
	state    *filter.State
	notifier Notifier
	wg       sync.WaitGroup
}

func New(resolver Resolver, enricher Enricher, state *filter.State, notifier Notifier) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		enricher: enricher,
		state:    state,
		notifier: notifier,
	}
}

// Run consumes batches until the channel closes or ctx is cancelled,
// then waits for in-flight events to finish.
func (p *Pipeline) Run(ctx context.Context, batches <-chan *monitor.LogBatch) {
	defer p.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				p.process(ctx, batch)
			}()
		}
	}
}

func (p *Pipeline) process(ctx context.Context, batch *monitor.LogBatch) {
	event := parser.DecodeCreateEvent(batch.Logs, batch.Signature)
	if event == nil {
		return
	}

	logrus.WithFields(logrus.Fields{
		"symbol":    event.Symbol,
		"signature": logger.ShortSig(event.Signature),
	}).Info("🆕 New token creation detected")

	if err := p.resolver.Resolve(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"signature": logger.ShortSig(event.Signature),
			"error":     err.Error(),
		}).Debug("⚠️  Discarding event, transaction resolution failed")
		return
	}

	res := p.enricher.Enrich(ctx, event)

	if !p.state.ShouldNotify(event.Mint.String(), res.Socials) {
		logrus.WithFields(logrus.Fields{
			"symbol": event.Symbol,
			"mint":   logger.ShortSig(event.Mint.String()),
		}).Debug("🔇 Filtered out")
		return
	}

	if err := p.notifier.Notify(ctx, event, res); err != nil {
		logrus.WithError(err).Error("❌ Notification failed")
	}
}
