// Package price maintains a cached SOL/USD price, refreshed in the
// background from CoinGecko. Alerts use it to value the dev wallet,
// so a stale or default price is acceptable and never fatal.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const priceURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"

type Service struct {
	currentPrice float64
	lastUpdated  time.Time
	mutex        sync.RWMutex
	client       *http.Client
}

type coinGeckoResponse struct {
	Solana struct {
		USD float64 `json:"usd"`
	} `json:"solana"`
}

func NewService() *Service {
	return &Service{
		currentPrice: 190.0,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Service) Start(ctx context.Context) error {
	logrus.Info("💰 Starting SOL price service...")

	if err := s.fetchPrice(); err != nil {
		logrus.WithError(err).Warn("Failed to fetch initial SOL price, using default")
	} else {
		logrus.WithField("price", fmt.Sprintf("$%.2f", s.GetPrice())).Info("✅ Initial SOL price fetched")
	}

	go s.updateLoop(ctx)

	return nil
}

func (s *Service) updateLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("🛑 SOL price service stopping")
			return
		case <-ticker.C:
			if err := s.fetchPrice(); err != nil {
				logrus.WithError(err).Warn("Failed to update SOL price")
			} else {
				logrus.WithField("price", fmt.Sprintf("$%.2f", s.GetPrice())).Debug("💰 SOL price updated")
			}
		}
	}
}

func (s *Service) fetchPrice() error {
	resp, err := s.client.Get(priceURL)
	if err != nil {
		return fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	var priceResp coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return fmt.Errorf("failed to decode price response: %w", err)
	}

	newPrice := priceResp.Solana.USD
	if newPrice <= 0 {
		return fmt.Errorf("invalid price received: %f", newPrice)
	}

	s.mutex.Lock()
	s.currentPrice = newPrice
	s.lastUpdated = time.Now()
	s.mutex.Unlock()

	return nil
}

func (s *Service) GetPrice() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.currentPrice
}

func (s *Service) GetLastUpdated() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastUpdated
}
