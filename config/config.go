package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once at startup
// and passed down explicitly.
type Config struct {
	Catalog   CatalogConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	Image     ImageConfig
	Extract   ExtractConfig
	Output    OutputConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// CatalogConfig points at the vehicle catalog site and the local fallback data.
type CatalogConfig struct {
	// BaseURL is the catalog root; listing, search and home URLs derive from it.
	BaseURL string // default: "https://www.automobile-catalog.com"

	// KBFile is an optional JSON5 file with extra knowledge-base entries.
	KBFile string

	// DefaultModel is used when no model was requested and the knowledge
	// base has nothing for the make.
	DefaultModel string // default: "TT RS"
}

// FetchConfig controls the network fast path and fetch politeness.
type FetchConfig struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration // default: 15s

	// Retries is the number of fast-path attempts before falling back to the browser.
	Retries int // default: 3

	// Delay is the pause between attempts and between fetches to one host.
	Delay time.Duration // default: 1s

	// UserAgent is sent by the fast path.
	UserAgent string

	// RespectRobots gates fetches on the host's robots.txt.
	RespectRobots bool // default: false

	// CacheTTL enables the per-pipeline page cache when positive.
	CacheTTL time.Duration // default: 0 (disabled)
}

// BrowserConfig controls the Rod browser used by the slow path.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent is the desktop Chrome UA presented by the browser.
	UserAgent string

	// PageLoadTimeout bounds each navigation.
	PageLoadTimeout time.Duration // default: 45s

	// HomeSettle is the wait after the home page loads.
	HomeSettle time.Duration // default: 2s

	// IdleTimeout bounds the best-effort wait for the page to go quiet.
	IdleTimeout time.Duration // default: 10s

	// RenderSettle is the wait for client-side rendering after load.
	RenderSettle time.Duration // default: 3s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Font", "Media"]
	BlockedResourceTypes []string
}

// ImageConfig controls photo acquisition.
type ImageConfig struct {
	Timeout   time.Duration // default: 15s
	MinWidth  int           // default: 300
	MinHeight int           // default: 180

	// OpenAIKey enables the generation step when set.
	OpenAIKey     string
	OpenAIBaseURL string // default: "https://api.openai.com/v1"

	// ReferenceImage is sampled for the poster palette when set.
	ReferenceImage string
}

// ExtractConfig tunes the noise classifier.
type ExtractConfig struct {
	NoiseMaxLen   int // default: 150
	NoisePatterns []string
}

// OutputConfig controls where posters are written.
type OutputConfig struct {
	Dir string // default: "output"
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// MaxJobs caps concurrent API jobs; further requests get 503 and
	// health reports "busy". Zero or less means unlimited.
	MaxJobs int // default: 4
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled is true when at least one key is configured.
	Enabled bool
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// TelemetryConfig selects an OTLP trace collector. Tracing export is off
// when both endpoints are empty.
type TelemetryConfig struct {
	GrpcEndpoint string
	HttpEndpoint string
}

const (
	defaultCatalogBase = "https://www.automobile-catalog.com"
	defaultUserAgent   = "AutoPosters/1.0 (Educational; +https://github.com/Artem9908)"
	defaultBrowserUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	keys := envSliceOr("AUTO_API_KEYS", nil)
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      strings.TrimRight(envOr("AUTO_CATALOG_BASE", defaultCatalogBase), "/"),
			KBFile:       os.Getenv("AUTO_KB_FILE"),
			DefaultModel: envOr("AUTO_DEFAULT_MODEL", "TT RS"),
		},
		Fetch: FetchConfig{
			Timeout:       envDurationOr("AUTO_REQUEST_TIMEOUT", 15*time.Second),
			Retries:       envIntOr("AUTO_REQUEST_RETRIES", 3),
			Delay:         envDurationOr("AUTO_REQUEST_DELAY", time.Second),
			UserAgent:     envOr("AUTO_USER_AGENT", defaultUserAgent),
			RespectRobots: envBoolOr("AUTO_RESPECT_ROBOTS", false),
			CacheTTL:      envDurationOr("AUTO_PAGE_CACHE_TTL", 0),
		},
		Browser: BrowserConfig{
			Headless:             envBoolOr("AUTO_BROWSER_HEADLESS", true),
			NoSandbox:            envBoolOr("AUTO_BROWSER_NO_SANDBOX", true),
			BrowserBin:           os.Getenv("AUTO_BROWSER_BIN"),
			UserAgent:            envOr("AUTO_BROWSER_USER_AGENT", defaultBrowserUA),
			PageLoadTimeout:      envDurationOr("AUTO_PAGE_LOAD_TIMEOUT", 45*time.Second),
			HomeSettle:           envDurationOr("AUTO_HOME_SETTLE", 2*time.Second),
			IdleTimeout:          envDurationOr("AUTO_IDLE_TIMEOUT", 10*time.Second),
			RenderSettle:         envDurationOr("AUTO_RENDER_SETTLE", 3*time.Second),
			BlockedResourceTypes: envSliceOr("AUTO_BLOCKED_RESOURCES", []string{"Font", "Media"}),
		},
		Image: ImageConfig{
			Timeout:        envDurationOr("AUTO_IMAGE_TIMEOUT", 15*time.Second),
			MinWidth:       envIntOr("AUTO_IMAGE_MIN_WIDTH", 300),
			MinHeight:      envIntOr("AUTO_IMAGE_MIN_HEIGHT", 180),
			OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:  strings.TrimRight(envOr("AUTO_OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			ReferenceImage: os.Getenv("AUTO_REFERENCE_IMAGE"),
		},
		Extract: ExtractConfig{
			NoiseMaxLen:   envIntOr("AUTO_NOISE_MAX_LEN", 150),
			NoisePatterns: envSliceOr("AUTO_NOISE_EXTRA", nil),
		},
		Output: OutputConfig{
			Dir: envOr("AUTO_OUTPUT_DIR", "output"),
		},
		Server: ServerConfig{
			Host:    envOr("AUTO_SERVER_HOST", "0.0.0.0"),
			Port:    envIntOr("AUTO_SERVER_PORT", 8080),
			Mode:    envOr("AUTO_SERVER_MODE", "release"),
			MaxJobs: envIntOr("AUTO_MAX_JOBS", 4),
		},
		Auth: AuthConfig{
			Enabled: len(keys) > 0,
			APIKeys: keys,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("AUTO_RATE_LIMIT", 1.0),
			Burst:             envIntOr("AUTO_RATE_BURST", 3),
		},
		Log: LogConfig{
			Level:  envOr("AUTO_LOG_LEVEL", "info"),
			Format: envOr("AUTO_LOG_FORMAT", "text"),
		},
		Telemetry: TelemetryConfig{
			GrpcEndpoint: os.Getenv("AUTO_OTLP_GRPC_ENDPOINT"),
			HttpEndpoint: os.Getenv("AUTO_OTLP_HTTP_ENDPOINT"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envDurationOr accepts a Go duration ("1.5s") or a bare number of seconds ("15").
func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
