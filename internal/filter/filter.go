// Package filter decides which resolved creations get announced. It
// combines a toggleable socials requirement with a seen-mint registry
// so a token is never announced twice, whatever the toggle did in
// between.
package filter

import (
	"sync"
	"time"

	"pumpfun-alert-bot/internal/enrich"

	"github.com/patrickmn/go-cache"
)

// State holds the runtime filter configuration and the seen registry.
// Safe for concurrent use from the pipeline and the command handlers.
type State struct {
	mu             sync.RWMutex
	requireSocials bool
	seen           *cache.Cache
}

// NewState builds the filter with the socials requirement enabled.
// ttl <= 0 keeps seen mints forever.
func NewState(ttl time.Duration) *State {
	if ttl <= 0 {
		return &State{
			requireSocials: true,
			seen:           cache.New(cache.NoExpiration, 0),
		}
	}
	return &State{
		requireSocials: true,
		seen:           cache.New(ttl, 10*time.Minute),
	}
}

// ShouldNotify reports whether an alert should go out for mint. The
// mint is marked seen on first sight even when the socials filter
// rejects it, so flipping the filter later cannot resurrect old
// tokens.
func (s *State) ShouldNotify(mint string, socials enrich.SocialLinks) bool {
	// Add is atomic: it errors when the key already exists, so
	// concurrent workers racing on the same mint elect one winner.
	if err := s.seen.Add(mint, struct{}{}, cache.DefaultExpiration); err != nil {
		return false
	}

	s.mu.RLock()
	required := s.requireSocials
	s.mu.RUnlock()

	if required && !socials.HasAny() {
		return false
	}
	return true
}

// ToggleSocials flips the socials requirement and returns the new
// value.
func (s *State) ToggleSocials() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireSocials = !s.requireSocials
	return s.requireSocials
}

// RequireSocials reports the current filter mode.
func (s *State) RequireSocials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requireSocials
}

// SeenCount returns the number of mints currently tracked.
func (s *State) SeenCount() int {
	return s.seen.ItemCount()
}
