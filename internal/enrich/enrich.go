// Package enrich gathers best-effort context for a freshly created
// token: off-chain metadata, market data and a dev-wallet check. The
// three fetchers run concurrently, are individually timed out and never
// fail the event — each degrades to its zero value so call sites need
// no error branching.
package enrich

import (
	"context"
	"strings"
	"time"

	"pumpfun-alert-bot/internal/parser"

	"github.com/sourcegraph/conc/pool"
	"resty.dev/v3"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// SocialLinks holds discovered messaging-platform links. An empty
// string means the link is absent, which is a valid terminal value.
type SocialLinks struct {
	Telegram string
	Discord  string
}

// HasAny reports whether at least one social link is present.
func (s SocialLinks) HasAny() bool {
	return s.Telegram != "" || s.Discord != ""
}

// Metadata is the off-chain JSON document behind the token's URI.
type Metadata struct {
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	Description string            `json:"description"`
	ExternalURL string            `json:"external_url"`
	Extensions  map[string]string `json:"extensions"`
}

// MarketInfo is the DexScreener view of the token. Found is false when
// no pair is listed yet or the lookup failed; the numeric fields are
// then zero and rendered as unknown.
type MarketInfo struct {
	Found        bool
	MarketCapUSD float64
	HolderCount  int64
	PriceUSD     float64
	Socials      SocialLinks
}

// DevRisk summarizes the creating wallet. IsRich flags a balance
// strictly above the configured threshold. Treating a funded wallet as
// lower-risk is a heuristic carried over from the original alert rules,
// not a security guarantee.
type DevRisk struct {
	SolBalance float64
	IsRich     bool
}

// Result is the combined enrichment for one creation event. Socials is
// the merged view: per link, the market-data source wins over the
// metadata-derived one.
type Result struct {
	Metadata Metadata
	Market   MarketInfo
	Dev      DevRisk
	Socials  SocialLinks
}

// Enricher runs the three fetchers for an event.
type Enricher struct {
	http          *resty.Client
	balances      BalanceClient
	marketBaseURL string
	richThreshold float64
	metaTimeout   time.Duration
	marketTimeout time.Duration
}

// Options configures an Enricher beyond its clients.
type Options struct {
	RichThresholdSOL float64
	MetadataTimeout  time.Duration
	MarketTimeout    time.Duration
	// MarketBaseURL overrides the DexScreener endpoint, for tests.
	MarketBaseURL string
}

func New(balances BalanceClient, opts Options) *Enricher {
	base := opts.MarketBaseURL
	if base == "" {
		base = dexScreenerBaseURL
	}
	if opts.MetadataTimeout <= 0 {
		opts.MetadataTimeout = 10 * time.Second
	}
	if opts.MarketTimeout <= 0 {
		opts.MarketTimeout = 10 * time.Second
	}
	return &Enricher{
		http:          resty.New(),
		balances:      balances,
		marketBaseURL: base,
		richThreshold: opts.RichThresholdSOL,
		metaTimeout:   opts.MetadataTimeout,
		marketTimeout: opts.MarketTimeout,
	}
}

// Close releases the underlying HTTP client.
func (e *Enricher) Close() error {
	return e.http.Close()
}

// Enrich runs the three fetchers concurrently and waits for all of
// them. Each fetcher owns its timeout; a hung or failing source only
// defaults its own slice of the result.
func (e *Enricher) Enrich(ctx context.Context, event *parser.CreationEvent) Result {
	var res Result

	workers := pool.New().WithMaxGoroutines(3)
	workers.Go(func() {
		res.Metadata = e.FetchMetadata(ctx, event.MetadataURI)
	})
	workers.Go(func() {
		res.Market = e.FetchMarketInfo(ctx, event.Mint.String())
	})
	workers.Go(func() {
		res.Dev = e.FetchDevRisk(ctx, event.Dev)
	})
	workers.Wait()

	res.Socials = mergeSocials(res.Market.Socials, ExtractSocials(res.Metadata))
	return res
}

// ExtractSocials pulls telegram/discord links out of token metadata.
// A structured extensions entry takes precedence over a link scraped
// from the free-text description.
func ExtractSocials(meta Metadata) SocialLinks {
	var socials SocialLinks

	desc := strings.ToLower(meta.Description)
	if strings.Contains(desc, "t.me") || strings.Contains(desc, "telegram") {
		socials.Telegram = firstWordContaining(desc, "t.me")
	}
	if strings.Contains(desc, "discord") {
		socials.Discord = firstWordContainingAny(desc, "discord.gg", "discord.com")
	}

	if tg := meta.Extensions["telegram"]; tg != "" {
		socials.Telegram = tg
	}
	if dc := meta.Extensions["discord"]; dc != "" {
		socials.Discord = dc
	}

	return socials
}

// mergeSocials prefers the market-data link per field, falling back to
// the metadata-derived one.
func mergeSocials(market, meta SocialLinks) SocialLinks {
	merged := market
	if merged.Telegram == "" {
		merged.Telegram = meta.Telegram
	}
	if merged.Discord == "" {
		merged.Discord = meta.Discord
	}
	return merged
}

func firstWordContaining(text, substr string) string {
	for _, w := range strings.Fields(text) {
		if strings.Contains(w, substr) {
			return w
		}
	}
	return ""
}

func firstWordContainingAny(text string, substrs ...string) string {
	for _, w := range strings.Fields(text) {
		for _, substr := range substrs {
			if strings.Contains(w, substr) {
				return w
			}
		}
	}
	return ""
}
