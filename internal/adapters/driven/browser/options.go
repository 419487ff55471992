package browser

import "time"

// Options configures the browser runtime.
type Options struct {
	// BaseURL is the wiki site root, without a trailing slash.
	BaseURL string

	// Bin is an optional Chromium binary. Empty lets rod find or download one.
	Bin string

	// Headless disables the browser window. Always true in production.
	Headless bool

	// HardTimeout is the ceiling on any single browser operation,
	// including time spent queued.
	HardTimeout time.Duration

	// PageLoadTimeout bounds navigation up to DOMContentLoaded.
	PageLoadTimeout time.Duration

	// ElementWait bounds the wait for the content marker.
	ElementWait time.Duration

	// JSLoadDelay is the fallback pause when no content marker appears.
	JSLoadDelay time.Duration

	// SettleDelay is the extra pause for late async content before reading markup.
	SettleDelay time.Duration

	// PoolSize is the number of warm chat sessions kept.
	PoolSize int

	// Chat holds the chat widget timings.
	Chat Timings
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:         "https://codewiki.google",
		Headless:        true,
		HardTimeout:     60 * time.Second,
		PageLoadTimeout: 30 * time.Second,
		ElementWait:     20 * time.Second,
		JSLoadDelay:     3 * time.Second,
		SettleDelay:     time.Second,
		PoolSize:        3,
		Chat:            DefaultTimings(),
	}
}
