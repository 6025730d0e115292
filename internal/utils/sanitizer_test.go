package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeWalletAddress(t *testing.T) {
	assert.Equal(t, "6EF8...F6P9", SanitizeWalletAddress("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P9"))
	assert.Equal(t, "***", SanitizeWalletAddress("short"))
}

func TestSanitizeError_RedactsEndpointAndSecrets(t *testing.T) {
	rpcURL := "https://myproject.rpcpool.com/?api-key=abc123"
	err := errors.New("post failed: " + rpcURL + ": connection refused")

	msg := SanitizeError(err, rpcURL)
	assert.NotContains(t, msg, "abc123")
	assert.Contains(t, msg, "connection refused")
}

func TestSanitizeError_RedactsBotToken(t *testing.T) {
	err := errors.New("GET https://api.telegram.org/bot123456:AAF-secret/sendMessage: 401")

	msg := SanitizeError(err, "")
	assert.NotContains(t, msg, "123456:AAF-secret")
	assert.Contains(t, msg, "***SECRET-HIDDEN***")
}

func TestSanitizeBotToken(t *testing.T) {
	assert.Equal(t, "not-set", SanitizeBotToken(""))
	assert.Equal(t, "***BOT-TOKEN-HIDDEN***", SanitizeBotToken("123456:AAF-secret"))
}
