package utils

import (
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken marks a token as revoked for the remainder of its lifetime.
func BlacklistToken(token string) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
	}
	return false
}

// CleanupBlacklist drops expired entries. Called from a background ticker.
func CleanupBlacklist() {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	now := time.Now()
	for token, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, token)
		}
	}
}
