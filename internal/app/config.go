package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (CHAT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Store       string `default:"postgres" usage:"Order, menu and session backend: postgres or memory"`
	DatabaseURL string `usage:"PostgreSQL connection URL (CHAT_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	DBMaxConns  int32  `default:"20" usage:"Maximum PostgreSQL pool connections" flag:"db-max-conns"`
	RedisURL    string `usage:"Optional redis:// URL; when set sessions are kept in Redis" flag:"redis-url"`
	ClientURL   string `default:"http://localhost:5173" usage:"Front-end base URL used for payment callbacks and CORS" flag:"client-url"`
	Paystack    PaystackConfig
	Chat        ChatConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// PaystackConfig configures the payment gateway.
type PaystackConfig struct {
	BaseURL       string        `default:"https://api.paystack.co" usage:"Paystack API base URL" flag:"paystack-base-url"`
	SecretKey     string        `usage:"Paystack secret key (CHAT_PAYSTACK_SECRET_KEY or PAYSTACK_SECRET_KEY)" flag:"paystack-secret-key"`
	Timeout       time.Duration `default:"10s" usage:"Gateway request timeout"`
	VerifyTimeout time.Duration `default:"15s" usage:"Upper bound of a shared payment verification"`
	AmountScale   int64         `default:"100" usage:"Multiplier from menu prices to gateway minor units"`
	EmailDomain   string        `default:"example.com" usage:"Domain of the customer email sent to the gateway"`
}

// ChatConfig tunes the command dispatcher.
type ChatConfig struct {
	MaxInput int `default:"999" usage:"Largest accepted numeric chat input"`
}

// SessionConfig controls the session cookie and record lifetime.
type SessionConfig struct {
	CookieName string        `default:"sid" usage:"Session cookie name"`
	TTL        time.Duration `default:"720h" usage:"Session cookie Max-Age and Redis record TTL"`
	Secure     bool          `default:"false" usage:"Set the Secure attribute on the session cookie" flag:"session-secure"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"120" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"http://localhost:5173,http://localhost:5174" usage:"Allowed CORS origins; ClientURL is always added"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CHAT",
		Files:     []string{"config.yaml", "/etc/kart-chat/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing or inconsistent settings.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database URL is required: set CHAT_DATABASE_URL or DATABASE_URL")
		}
	case StoreMemory:
	default:
		return errors.Errorf("unknown store %q: want %s or %s", c.Store, StorePostgres, StoreMemory)
	}
	if c.Paystack.SecretKey == "" {
		return errors.New("paystack secret key is required: set CHAT_PAYSTACK_SECRET_KEY or PAYSTACK_SECRET_KEY")
	}
	if c.Paystack.AmountScale <= 0 {
		return errors.New("paystack amount scale must be positive")
	}
	return nil
}

// AllowedOrigins returns the CORS origins with ClientURL appended when it is
// not listed already.
func (c *Config) AllowedOrigins() []string {
	origins := append([]string(nil), c.CORS.Origins...)
	client := strings.TrimRight(c.ClientURL, "/")
	if client == "" {
		return origins
	}
	for _, o := range origins {
		if strings.EqualFold(strings.TrimRight(o, "/"), client) {
			return origins
		}
	}
	return append(origins, client)
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's CHAT_-prefixed configuration.
func (c *Config) applyPlatformDefaults(getenv func(string) string) {
	if c.DatabaseURL == "" {
		c.DatabaseURL = getenv("DATABASE_URL")
	}
	if c.RedisURL == "" {
		c.RedisURL = getenv("REDIS_URL")
	}
	if c.Paystack.SecretKey == "" {
		c.Paystack.SecretKey = getenv("PAYSTACK_SECRET_KEY")
	}
	if v := getenv("CLIENT_URL"); v != "" && getenv("CHAT_CLIENT_URL") == "" {
		c.ClientURL = v
	}
	if port := getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
