package enrich

import (
	"context"
	"strconv"
	"strings"

	"pumpfun-alert-bot/internal/logger"

	"github.com/sirupsen/logrus"
)

// dexScreenerResponse mirrors the parts of the token endpoint we
// consume. priceUsd arrives as a string in this API.
type dexScreenerResponse struct {
	Pairs []struct {
		FDV         float64 `json:"fdv"`
		HolderCount int64   `json:"holderCount"`
		PriceUsd    string  `json:"priceUsd"`
		Info        struct {
			Socials []struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"socials"`
		} `json:"info"`
	} `json:"pairs"`
}

// FetchMarketInfo looks the mint up on DexScreener. Tokens seconds old
// usually have no pair yet; that and every transport failure come back
// as MarketInfo{Found: false}.
func (e *Enricher) FetchMarketInfo(ctx context.Context, mint string) MarketInfo {
	fetchCtx, cancel := context.WithTimeout(ctx, e.marketTimeout)
	defer cancel()

	var payload dexScreenerResponse
	resp, err := e.http.R().
		SetContext(fetchCtx).
		SetResult(&payload).
		Get(e.marketBaseURL + "/latest/dex/tokens/" + mint)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"mint":  logger.ShortSig(mint),
			"error": err.Error(),
		}).Debug("⚠️  Market data fetch failed")
		return MarketInfo{}
	}

	if resp.StatusCode() != 200 || len(payload.Pairs) == 0 {
		return MarketInfo{}
	}

	pair := payload.Pairs[0]
	info := MarketInfo{
		Found:        true,
		MarketCapUSD: pair.FDV,
		HolderCount:  pair.HolderCount,
	}

	if pair.PriceUsd != "" {
		if price, err := strconv.ParseFloat(pair.PriceUsd, 64); err == nil {
			info.PriceUSD = price
		}
	}

	for _, social := range pair.Info.Socials {
		switch {
		case strings.Contains(social.Type, "telegram"):
			if info.Socials.Telegram == "" {
				info.Socials.Telegram = social.URL
			}
		case strings.Contains(social.Type, "discord"):
			if info.Socials.Discord == "" {
				info.Socials.Discord = social.URL
			}
		}
	}

	return info
}
