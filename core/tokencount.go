package core

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// perMessageOverhead approximates the role/separator tokens chat APIs add per message
const perMessageOverhead = 4

// TokenCounter estimates token counts for prompt trimming
type TokenCounter struct {
	cache    sync.Map
	cacheTTL time.Duration
}

type tokenCountCache struct {
	Tokens    int
	Timestamp time.Time
}

// NewTokenCounter creates a new token counter instance
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{
		cacheTTL: 5 * time.Minute,
	}
}

// CountMessageTokens returns the estimated cost of one chat message including its overhead
func (tc *TokenCounter) CountMessageTokens(content string) int {
	if cached, ok := tc.cache.Load(content); ok {
		if item, ok := cached.(tokenCountCache); ok {
			if time.Since(item.Timestamp) < tc.cacheTTL {
				return item.Tokens
			}
			tc.cache.Delete(content)
		}
	}

	tokens := tc.EstimateTokens(content) + perMessageOverhead
	tc.cache.Store(content, tokenCountCache{
		Tokens:    tokens,
		Timestamp: time.Now(),
	})
	return tokens
}

// EstimateTokens provides a rough token count estimation without calling a provider API
func (tc *TokenCounter) EstimateTokens(content string) int {
	if content == "" {
		return 0
	}

	// ~1.3 tokens per word for space-separated text
	words := strings.Fields(content)
	tokenEstimate := float64(len(words)) * 1.3

	// Scripts without word separators (e.g. Japanese) are counted by characters
	charCount := utf8.RuneCountInString(strings.Join(words, ""))
	if byChars := float64(charCount) / 3.5; len(words) < 10 || byChars > tokenEstimate*2 {
		tokenEstimate = byChars
	}

	// Buffer for punctuation and formatting
	tokenEstimate *= 1.1

	if tokenEstimate < 1 {
		return 1
	}
	return int(tokenEstimate)
}

// PurgeExpired drops cache entries older than the TTL and returns how many were removed
func (tc *TokenCounter) PurgeExpired() int {
	removed := 0
	tc.cache.Range(func(key, value any) bool {
		item, ok := value.(tokenCountCache)
		if !ok || time.Since(item.Timestamp) >= tc.cacheTTL {
			tc.cache.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// ClearCache clears all cached token counts
func (tc *TokenCounter) ClearCache() {
	tc.cache.Range(func(key, value any) bool {
		tc.cache.Delete(key)
		return true
	})
}
