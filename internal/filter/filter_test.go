package filter

import (
	"testing"
	"time"

	"pumpfun-alert-bot/internal/enrich"

	"github.com/stretchr/testify/assert"
)

func TestShouldNotify_DuplicateMintSuppressed(t *testing.T) {
	state := NewState(0)
	socials := enrich.SocialLinks{Telegram: "https://t.me/foo"}

	assert.True(t, state.ShouldNotify("mintA", socials))
	assert.False(t, state.ShouldNotify("mintA", socials))
	assert.Equal(t, 1, state.SeenCount())
}

func TestShouldNotify_RejectedMintStaysSeen(t *testing.T) {
	state := NewState(0)

	// No socials while the filter is on: rejected, but marked seen.
	assert.False(t, state.ShouldNotify("mintA", enrich.SocialLinks{}))
	assert.Equal(t, 1, state.SeenCount())

	// Relaxing the filter afterwards must not resurrect it.
	assert.False(t, state.ToggleSocials())
	assert.False(t, state.ShouldNotify("mintA", enrich.SocialLinks{}))
}

func TestShouldNotify_FilterDisabled(t *testing.T) {
	state := NewState(0)
	state.ToggleSocials()

	assert.False(t, state.RequireSocials())
	assert.True(t, state.ShouldNotify("mintA", enrich.SocialLinks{}))
}

func TestToggleSocials(t *testing.T) {
	state := NewState(0)

	assert.True(t, state.RequireSocials())
	assert.False(t, state.ToggleSocials())
	assert.True(t, state.ToggleSocials())
}

func TestNewState_TTLExpiry(t *testing.T) {
	state := NewState(20 * time.Millisecond)
	socials := enrich.SocialLinks{Telegram: "https://t.me/foo"}

	assert.True(t, state.ShouldNotify("mintA", socials))
	time.Sleep(40 * time.Millisecond)

	// After the TTL the mint may be announced again.
	assert.True(t, state.ShouldNotify("mintA", socials))
}
