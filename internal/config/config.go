// Package config loads codewiki-mcp settings. Sources, lowest precedence
// first: built-in defaults, an optional TOML file, an optional .env file,
// then the process environment. Malformed values keep the default.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driven/browser"
)

// EnvPrefix prefixes every variable except GITHUB_TOKEN.
const EnvPrefix = "CODEWIKI_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	// BaseURL is the wiki site root.
	BaseURL string

	Verbose bool

	Browser   BrowserConfig
	Chat      ChatConfig
	Output    OutputConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	GitHub    GitHubConfig
}

// BrowserConfig covers the headless browser runtime.
type BrowserConfig struct {
	Bin             string
	Headless        bool
	HardTimeout     time.Duration
	PageLoadTimeout time.Duration
	ElementWait     time.Duration
	JSLoadDelay     time.Duration
	SettleDelay     time.Duration
	PoolSize        int
}

// ChatConfig covers the chat widget waits and the retry policy.
type ChatConfig struct {
	ResponseWait   time.Duration
	InitialDelay   time.Duration
	PollInterval   time.Duration
	StableInterval time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// OutputConfig bounds response sizes.
type OutputConfig struct {
	MaxChars          int
	TopicPreviewChars int
}

// CacheConfig sizes the in-memory caches.
type CacheConfig struct {
	TTL           time.Duration
	MaxSize       int
	ParsedMaxSize int
	SearchTTL     time.Duration
	SearchMaxSize int
	TopicsTTL     time.Duration
	ResolveTTL    time.Duration
}

// RateLimitConfig is the per-repository call quota.
type RateLimitConfig struct {
	Window   time.Duration
	MaxCalls int
}

// GitHubConfig configures the keyword search fallback.
type GitHubConfig struct {
	// APIURL overrides the public API, e.g. for GitHub Enterprise.
	APIURL string

	// Token is optional; anonymous search has a lower rate limit.
	Token string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL: "https://codewiki.google",
		Browser: BrowserConfig{
			Headless:        true,
			HardTimeout:     60 * time.Second,
			PageLoadTimeout: 30 * time.Second,
			ElementWait:     20 * time.Second,
			JSLoadDelay:     3 * time.Second,
			SettleDelay:     time.Second,
			PoolSize:        3,
		},
		Chat: ChatConfig{
			ResponseWait:   45 * time.Second,
			InitialDelay:   5 * time.Second,
			PollInterval:   2 * time.Second,
			StableInterval: 2 * time.Second,
			MaxRetries:     2,
			RetryDelay:     3 * time.Second,
		},
		Output: OutputConfig{
			MaxChars:          30000,
			TopicPreviewChars: 200,
		},
		Cache: CacheConfig{
			TTL:           300 * time.Second,
			MaxSize:       50,
			ParsedMaxSize: 20,
			SearchTTL:     120 * time.Second,
			SearchMaxSize: 100,
			TopicsTTL:     1800 * time.Second,
			ResolveTTL:    1800 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Window:   60 * time.Second,
			MaxCalls: 10,
		},
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	atLeastOne := func(name string, n int) {
		if n < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", name, n))
		}
	}

	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an http(s) URL", c.BaseURL))
	}
	if c.GitHub.APIURL != "" {
		if u, err := url.Parse(c.GitHub.APIURL); err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("GitHub API URL %q is not a URL", c.GitHub.APIURL))
		}
	}

	positive("hard timeout", c.Browser.HardTimeout)
	positive("page load timeout", c.Browser.PageLoadTimeout)
	positive("element wait timeout", c.Browser.ElementWait)
	positive("response wait timeout", c.Chat.ResponseWait)
	positive("response poll interval", c.Chat.PollInterval)
	positive("response stable interval", c.Chat.StableInterval)
	positive("cache TTL", c.Cache.TTL)
	positive("search cache TTL", c.Cache.SearchTTL)
	positive("topics cache TTL", c.Cache.TopicsTTL)
	positive("resolve cache TTL", c.Cache.ResolveTTL)
	positive("rate limit window", c.RateLimit.Window)

	atLeastOne("pool size", c.Browser.PoolSize)
	atLeastOne("max retries", c.Chat.MaxRetries)
	atLeastOne("cache max size", c.Cache.MaxSize)
	atLeastOne("parsed cache max size", c.Cache.ParsedMaxSize)
	atLeastOne("search cache max size", c.Cache.SearchMaxSize)
	atLeastOne("rate limit max calls", c.RateLimit.MaxCalls)

	if c.Output.MaxChars < 0 {
		errs = append(errs, fmt.Errorf("response max chars must not be negative, got %d", c.Output.MaxChars))
	}
	if c.Browser.JSLoadDelay < 0 || c.Browser.SettleDelay < 0 || c.Chat.InitialDelay < 0 || c.Chat.RetryDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// BrowserOptions maps the configuration onto the browser runtime.
func (c *Config) BrowserOptions() browser.Options {
	t := browser.DefaultTimings()
	t.ResponseWait = c.Chat.ResponseWait
	t.InitialDelay = c.Chat.InitialDelay
	t.PollInterval = c.Chat.PollInterval
	t.StableInterval = c.Chat.StableInterval

	return browser.Options{
		BaseURL:         c.BaseURL,
		Bin:             c.Browser.Bin,
		Headless:        c.Browser.Headless,
		HardTimeout:     c.Browser.HardTimeout,
		PageLoadTimeout: c.Browser.PageLoadTimeout,
		ElementWait:     c.Browser.ElementWait,
		JSLoadDelay:     c.Browser.JSLoadDelay,
		SettleDelay:     c.Browser.SettleDelay,
		PoolSize:        c.Browser.PoolSize,
		Chat:            t,
	}
}
