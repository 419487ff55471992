package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Sources names the optional files Load reads.
type Sources struct {
	// File is a TOML config file. Empty skips it.
	File string

	// EnvFile is a .env file. Empty skips it. Variables already set in the
	// process environment win over the file.
	EnvFile string
}

// setting binds one option to its TOML key and environment variable.
type setting struct {
	key   string
	env   string
	apply func(c *Config, v string) error
}

var settings = []setting{
	{"base_url", EnvPrefix + "BASE_URL", str(func(c *Config) *string { return &c.BaseURL })},
	{"verbose", EnvPrefix + "VERBOSE", boolean(func(c *Config) *bool { return &c.Verbose })},

	{"browser.bin", EnvPrefix + "CHROME_BIN", str(func(c *Config) *string { return &c.Browser.Bin })},
	{"browser.headless", EnvPrefix + "HEADLESS", boolean(func(c *Config) *bool { return &c.Browser.Headless })},
	{"browser.hard_timeout", EnvPrefix + "HARD_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Browser.HardTimeout })},
	{"browser.page_load_timeout", EnvPrefix + "PAGE_LOAD_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Browser.PageLoadTimeout })},
	{"browser.element_wait_timeout", EnvPrefix + "ELEMENT_WAIT_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Browser.ElementWait })},
	{"browser.js_load_delay", EnvPrefix + "JS_LOAD_DELAY", duration(func(c *Config) *time.Duration { return &c.Browser.JSLoadDelay })},
	{"browser.settle_delay", EnvPrefix + "SETTLE_DELAY", duration(func(c *Config) *time.Duration { return &c.Browser.SettleDelay })},
	{"browser.pool_size", EnvPrefix + "POOL_SIZE", integer(func(c *Config) *int { return &c.Browser.PoolSize })},

	{"chat.response_wait_timeout", EnvPrefix + "RESPONSE_WAIT_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Chat.ResponseWait })},
	{"chat.initial_delay", EnvPrefix + "RESPONSE_INITIAL_DELAY", duration(func(c *Config) *time.Duration { return &c.Chat.InitialDelay })},
	{"chat.poll_interval", EnvPrefix + "RESPONSE_POLL_INTERVAL", duration(func(c *Config) *time.Duration { return &c.Chat.PollInterval })},
	{"chat.stable_interval", EnvPrefix + "RESPONSE_STABLE_INTERVAL", duration(func(c *Config) *time.Duration { return &c.Chat.StableInterval })},
	{"chat.max_retries", EnvPrefix + "MAX_RETRIES", integer(func(c *Config) *int { return &c.Chat.MaxRetries })},
	{"chat.retry_delay", EnvPrefix + "RETRY_DELAY", duration(func(c *Config) *time.Duration { return &c.Chat.RetryDelay })},

	{"output.max_chars", EnvPrefix + "RESPONSE_MAX_CHARS", integer(func(c *Config) *int { return &c.Output.MaxChars })},
	{"output.topic_preview_chars", EnvPrefix + "TOPIC_PREVIEW_CHARS", integer(func(c *Config) *int { return &c.Output.TopicPreviewChars })},

	{"cache.ttl", EnvPrefix + "CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.TTL })},
	{"cache.max_size", EnvPrefix + "CACHE_MAX_SIZE", integer(func(c *Config) *int { return &c.Cache.MaxSize })},
	{"cache.parsed_max_size", EnvPrefix + "PARSED_CACHE_MAX_SIZE", integer(func(c *Config) *int { return &c.Cache.ParsedMaxSize })},
	{"cache.search_ttl", EnvPrefix + "SEARCH_CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.SearchTTL })},
	{"cache.search_max_size", EnvPrefix + "SEARCH_CACHE_MAX_SIZE", integer(func(c *Config) *int { return &c.Cache.SearchMaxSize })},
	{"cache.topics_ttl", EnvPrefix + "TOPICS_CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.TopicsTTL })},
	{"cache.resolve_ttl", EnvPrefix + "RESOLVE_CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.ResolveTTL })},

	{"rate_limit.window", EnvPrefix + "RATE_LIMIT_WINDOW", duration(func(c *Config) *time.Duration { return &c.RateLimit.Window })},
	{"rate_limit.max_calls", EnvPrefix + "RATE_LIMIT_MAX_CALLS", integer(func(c *Config) *int { return &c.RateLimit.MaxCalls })},

	{"github.api_url", EnvPrefix + "GITHUB_API_URL", str(func(c *Config) *string { return &c.GitHub.APIURL })},
	{"github.token", "GITHUB_TOKEN", str(func(c *Config) *string { return &c.GitHub.Token })},
}

// Load builds the configuration from the process environment.
func Load(src Sources) (*Config, error) {
	return load(src, os.LookupEnv)
}

func load(src Sources, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if src.File != "" {
		values, err := readTOML(src.File)
		if err != nil {
			return nil, err
		}
		for _, s := range settings {
			if v, ok := values[s.key]; ok {
				s.set(cfg, fmt.Sprint(v), src.File)
			}
		}
	}

	var dotenv map[string]string
	if src.EnvFile != "" {
		var err error
		dotenv, err = godotenv.Read(src.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("config: reading env file: %w", err)
		}
	}

	for _, s := range settings {
		if v, ok := lookup(s.env); ok && v != "" {
			s.set(cfg, v, "environment")
		} else if v, ok := dotenv[s.env]; ok && v != "" {
			s.set(cfg, v, src.EnvFile)
		}
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// set applies v, keeping the current value when v does not parse.
func (s setting) set(c *Config, v, origin string) {
	if err := s.apply(c, strings.TrimSpace(v)); err != nil {
		logger.Warn("config: ignoring %s from %s: %v", s.env, origin, err)
	}
}

// readTOML reads path into dot-notation keys: {"a": {"b": 1}} becomes
// {"a.b": 1}.
func readTOML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return flattenMap(loaded, ""), nil
}

func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}
	return result
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolean(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func integer(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func duration(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := parseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// parseDuration accepts plain seconds ("60", "1.5") or a Go duration
// ("90s", "2m").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%q is neither seconds nor a duration", v)
	}
	return d, nil
}
