// Package main implements a Pump.Fun alert bot that watches Solana for
// new token creations and announces them on Telegram.
//
// The bot operates in four main stages:
// 1. Monitor: Subscribes to Pump.Fun program logs via WebSocket
// 2. Parser/Resolver: Decodes creation events and fetches the transaction
// 3. Enricher: Pulls token metadata, market data and the dev wallet balance
// 4. Notifier: Filters, dedupes and delivers Telegram alerts
//
// Usage:
//   go run cmd/main.go              # Live alert mode
//   go run cmd/main.go --dry-run    # Log alerts instead of sending them
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pumpfun-alert-bot/internal/bot"
	"pumpfun-alert-bot/internal/config"
	"pumpfun-alert-bot/internal/enrich"
	"pumpfun-alert-bot/internal/filter"
	"pumpfun-alert-bot/internal/logger"
	"pumpfun-alert-bot/internal/monitor"
	"pumpfun-alert-bot/internal/notifier"
	"pumpfun-alert-bot/internal/pipeline"
	"pumpfun-alert-bot/internal/resolver"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	tgbot "github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Log alerts instead of sending them to Telegram")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg.DryRun = *dryRun

	logger.Setup(cfg.LogLevel)

	if cfg.DryRun {
		logrus.Info("🧪 Starting Pump.Fun Alert Bot in DRY-RUN MODE")
		logrus.Info("📊 Bot will detect and enrich creations but NOT send Telegram messages")
	} else {
		logrus.Info("🤖 Starting Pump.Fun Alert Bot")
	}
	cfg.LogConfig()

	logrus.Info("🔍 Monitoring Pump.Fun program for new token creations...")

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logrus.Info("🛑 Shutdown signal received, stopping gracefully...")
		cancel()
	}()

	if err := cfg.PriceService.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start price service: %v", err)
	}

	if err := startWatcher(ctx, cfg); err != nil {
		logrus.Fatalf("Failed to start watcher: %v", err)
	}

	<-ctx.Done()
	logrus.Info("✅ All services stopped, shut down complete")
}

// startWatcher wires the pipeline components together and starts them.
//
// The flow:
// Monitor -> Pipeline (decode -> resolve -> enrich -> filter) -> Notifier
func startWatcher(ctx context.Context, cfg *config.Config) error {
	rpcClient := rpc.New(cfg.RPCEndpoint)

	chainMonitor, err := monitor.NewMonitor(cfg, rpcClient)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	pumpFunProgram, err := solana.PublicKeyFromBase58(cfg.PumpFunProgramID)
	if err != nil {
		return fmt.Errorf("invalid pump.fun program ID: %w", err)
	}

	tgBot, state, err := startTelegram(cfg)
	if err != nil {
		return err
	}
	go tgBot.Start(ctx)

	txResolver := resolver.New(rpcClient, pumpFunProgram)
	enricher := enrich.New(rpcClient, enrich.Options{
		RichThresholdSOL: cfg.RichThresholdSOL,
		MetadataTimeout:  cfg.GetMetadataTimeout(),
		MarketTimeout:    cfg.GetMarketTimeout(),
	})
	alerts := notifier.New(tgBot, cfg.AdminID, cfg.PriceService, cfg.DryRun)

	batches := make(chan *monitor.LogBatch, 500)

	go func() {
		defer close(batches)
		defer chainMonitor.Close()
		if err := chainMonitor.Start(ctx, batches); err != nil {
			logrus.WithError(err).Error("Monitor failed")
		}
	}()

	go pipeline.New(txResolver, enricher, state, alerts).Run(ctx, batches)

	logrus.Info("🚀 Alert pipeline started: Monitor → Decode → Enrich → Notify")
	return nil
}

// startTelegram builds the shared filter state and the command bot.
func startTelegram(cfg *config.Config) (*tgbot.Bot, *filter.State, error) {
	state := filter.NewState(cfg.GetSeenTTL())

	b, err := bot.New(cfg.TelegramToken, cfg.AdminID, state, cfg.PriceService)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, state, nil
}
