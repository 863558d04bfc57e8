package util

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultCookieTTL     = 30 * 24 * time.Hour
	defaultRemoteTimeout = 10 * time.Second
	defaultReplayTTL     = 48 * time.Hour

	defaultCurrency = "INR"
	// SubunitFactor converts major currency units to minor ones for the
	// two-decimal currencies the gateway supports.
	SubunitFactor = 100
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

// CookieConfig governs the two session cookies. They are always HttpOnly
// and path-scoped to the whole application; only TTL, Secure and SameSite
// vary by environment.
type CookieConfig struct {
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

func NewCookieConfig() *CookieConfig {
	return &CookieConfig{
		TTL:      parseDurationOrDefault("SESSION_COOKIE_TTL", defaultCookieTTL),
		Secure:   os.Getenv("ENVIRONMENT") == "production",
		SameSite: parseSameSite(os.Getenv("SESSION_COOKIE_SAMESITE")),
	}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// RemoteConfig points at the remote data API.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewRemoteConfig() *RemoteConfig {
	baseURL := os.Getenv("REMOTE_API_URL")
	if baseURL == "" {
		log.Fatal("REMOTE_API_URL is not set")
	}
	return &RemoteConfig{
		BaseURL: baseURL,
		APIKey:  os.Getenv("REMOTE_API_KEY"),
		Timeout: parseDurationOrDefault("REMOTE_API_TIMEOUT", defaultRemoteTimeout),
	}
}

// GatewayConfig holds the payment gateway credentials. Secret is allowed
// to be empty here: verification reports the missing secret as a
// configuration fault at call time instead of refusing to boot.
type GatewayConfig struct {
	BaseURL  string
	KeyID    string
	Secret   string
	Currency string
}

func NewGatewayConfig() *GatewayConfig {
	currency := os.Getenv("GATEWAY_CURRENCY")
	if currency == "" {
		currency = defaultCurrency
	}
	return &GatewayConfig{
		BaseURL:  os.Getenv("GATEWAY_URL"),
		KeyID:    os.Getenv("GATEWAY_KEY_ID"),
		Secret:   os.Getenv("GATEWAY_KEY_SECRET"),
		Currency: currency,
	}
}

// ReplayTTL is how long a consumed payment id stays claimed.
func ReplayTTL() time.Duration {
	return parseDurationOrDefault("PAYMENT_REPLAY_TTL", defaultReplayTTL)
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}
