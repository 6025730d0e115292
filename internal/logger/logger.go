package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func Setup(level string) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warn("Invalid log level, defaulting to info")
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     true,
		PadLevelText:    true,
	})
	logrus.SetOutput(os.Stdout)
}

// FormatMarketCap renders a USD market cap in a compact human form.
func FormatMarketCap(marketCap float64) string {
	if marketCap >= 1000000 {
		return fmt.Sprintf("$%.1fM", marketCap/1000000)
	} else if marketCap >= 1000 {
		return fmt.Sprintf("$%.1fK", marketCap/1000)
	}
	return fmt.Sprintf("$%.0f", marketCap)
}

// ShortSig truncates a signature or address for log output.
func ShortSig(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}

func LogConnection(service string, status string) {
	if status == "connected" {
		logrus.WithField("service", service).Info("✅ Connected")
	} else {
		logrus.WithField("service", service).Warn("⚠️  Connection issue")
	}
}
