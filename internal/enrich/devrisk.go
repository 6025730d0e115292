package enrich

import (
	"context"
	"time"

	"pumpfun-alert-bot/internal/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// BalanceClient is the slice of the RPC client the dev check needs.
type BalanceClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
}

// FetchDevRisk queries the creating wallet's SOL balance and flags it
// as rich when strictly above the threshold. Any failure degrades to a
// zero balance, not-rich.
func (e *Enricher) FetchDevRisk(ctx context.Context, dev solana.PublicKey) DevRisk {
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	balance, err := e.balances.GetBalance(fetchCtx, dev, rpc.CommitmentConfirmed)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"dev":   logger.ShortSig(dev.String()),
			"error": err.Error(),
		}).Debug("⚠️  Dev balance fetch failed")
		return DevRisk{}
	}
	if balance == nil {
		return DevRisk{}
	}

	sol := float64(balance.Value) / 1e9
	return DevRisk{
		SolBalance: sol,
		IsRich:     sol > e.richThreshold,
	}
}
