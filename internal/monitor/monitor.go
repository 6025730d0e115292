// Package monitor streams pump.fun program logs over the Solana
// WebSocket API and hands raw log batches to the pipeline.
package monitor

import (
	"context"
	"strings"
	"time"

	"pumpfun-alert-bot/internal/config"
	"pumpfun-alert-bot/internal/logger"
	"pumpfun-alert-bot/internal/utils"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/sirupsen/logrus"
)

// LogBatch is one transaction's worth of program logs as delivered by
// the logs subscription.
type LogBatch struct {
	Signature string
	Logs      []string
}

// Monitor owns the RPC and WebSocket connections to the chain.
type Monitor struct {
	config         *config.Config
	rpcClient      *rpc.Client
	wsClient       *ws.Client
	pumpFunProgram solana.PublicKey
}

// NewMonitor creates a monitor for the configured pump.fun program.
func NewMonitor(cfg *config.Config, rpcClient *rpc.Client) (*Monitor, error) {
	pumpFunProgram, err := solana.PublicKeyFromBase58(cfg.PumpFunProgramID)
	if err != nil {
		return nil, err
	}

	return &Monitor{
		config:         cfg,
		rpcClient:      rpcClient,
		pumpFunProgram: pumpFunProgram,
	}, nil
}

// Start checks RPC health, then runs the subscription loop until ctx
// is cancelled. Every subscription failure tears the WebSocket down
// and reconnects after a short pause, so a dropped connection never
// kills the watcher.
func (m *Monitor) Start(ctx context.Context, batches chan<- *LogBatch) error {
	logrus.Info("🔌 Connecting to Solana RPC...")

	if _, err := m.rpcClient.GetHealth(ctx); err != nil {
		return err
	}
	logger.LogConnection("Solana RPC", "connected")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("🛑 Context cancelled, stopping log monitoring")
			return nil
		default:
			if err := m.subscribeAndListen(ctx, batches); err != nil {
				// RPC errors can echo the endpoint URL, api key included.
				logrus.WithField("error", utils.SanitizeError(err, m.config.RPCEndpoint)).
					Error("Subscription failed, retrying in 5 seconds...")
				m.closeWebSocket()

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(5 * time.Second):
				}
			}
		}
	}
}

// subscribeAndListen handles a single subscription lifecycle: connect,
// subscribe, pump log batches until the stream errors out.
func (m *Monitor) subscribeAndListen(ctx context.Context, batches chan<- *LogBatch) error {
	if m.wsClient == nil {
		logrus.Info("🔌 Connecting to Solana WebSocket...")
		wsClient, err := ws.Connect(ctx, convertHTTPToWebSocket(m.config.RPCEndpoint))
		if err != nil {
			return err
		}
		m.wsClient = wsClient
		logger.LogConnection("Solana WebSocket", "connected")
	}

	sub, err := m.wsClient.LogsSubscribeMentions(
		m.pumpFunProgram,
		rpc.CommitmentProcessed,
	)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	logrus.Info("✅ Subscribed to pump.fun program logs")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("🛑 Stopping log subscription")
			return nil
		default:
			result, err := sub.Recv(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logrus.WithField("error", utils.SanitizeError(err, m.config.RPCEndpoint)).
					Error("Error receiving log")
				return err
			}
			m.dispatch(result, batches)
		}
	}
}

// dispatch forwards one log result without ever blocking the stream.
// Failed transactions are skipped up front; a full channel drops the
// batch with a warning rather than stalling the subscription.
func (m *Monitor) dispatch(result *ws.LogResult, batches chan<- *LogBatch) {
	if result == nil || result.Value.Err != nil {
		return
	}

	batch := &LogBatch{
		Signature: result.Value.Signature.String(),
		Logs:      result.Value.Logs,
	}

	select {
	case batches <- batch:
	default:
		logrus.WithField("signature", batch.Signature).
			Warn("⚠️  Log channel full, dropping batch")
	}
}

// Close closes the WebSocket connection.
func (m *Monitor) Close() error {
	m.closeWebSocket()
	return nil
}

func (m *Monitor) closeWebSocket() {
	if m.wsClient != nil {
		logrus.Info("🔌 Closing WebSocket connection")
		m.wsClient.Close()
		m.wsClient = nil
	}
}

func convertHTTPToWebSocket(httpEndpoint string) string {
	if strings.HasPrefix(httpEndpoint, "https://") {
		return "wss://" + httpEndpoint[8:]
	} else if strings.HasPrefix(httpEndpoint, "http://") {
		return "ws://" + httpEndpoint[7:]
	}
	return httpEndpoint
}
