package config

import (
	"fmt"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centralises runtime configuration of the portal client.
type Config struct {
	BaseURL            string
	LoginPath          string
	VerifyPath         string
	ForgotPasswordPath string
	ProvincesPath      string
	RegisterPath       string
	PostsPath          string
	HomePath           string
	CSRFField          string
	CSRFHeader         string
	CSRFCookie         string
	HTTPTimeout        time.Duration
	RedirectDelay      time.Duration
	ResetDismissDelay  time.Duration
	LogHTTP            bool

	// Stand-in backend served by cmd/server.
	ListenAddr      string
	SessionSecret   string
	SessionTTL      time.Duration
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	SeedEmail       string
	SeedPassword    string
	SeedTwoFactor   bool
}

// Load reads configuration from environment variables providing sane defaults. A .env file
// in the working directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{
		BaseURL:            normaliseBaseURL(getEnv("PORTAL_BASE_URL", "http://localhost:8000")),
		LoginPath:          getEnv("PORTAL_LOGIN_PATH", "/accounts/login/"),
		VerifyPath:         getEnv("PORTAL_VERIFY_PATH", "/accounts/verify-2fa/"),
		ForgotPasswordPath: getEnv("PORTAL_FORGOT_PASSWORD_PATH", "/accounts/forgot-password/"),
		ProvincesPath:      getEnv("PORTAL_PROVINCES_PATH", "/accounts/ajax/load_provinces/"),
		RegisterPath:       getEnv("PORTAL_REGISTER_PATH", "/accounts/register/"),
		PostsPath:          getEnv("PORTAL_POSTS_PATH", "/posts/"),
		HomePath:           getEnv("PORTAL_HOME_PATH", "/"),
		CSRFField:          getEnv("PORTAL_CSRF_FIELD", "csrfmiddlewaretoken"),
		CSRFHeader:         getEnv("PORTAL_CSRF_HEADER", "X-CSRFToken"),
		CSRFCookie:         getEnv("PORTAL_CSRF_COOKIE", "csrftoken"),
		HTTPTimeout:        getDurationEnv("PORTAL_HTTP_TIMEOUT", 0),
		RedirectDelay:      getDurationEnv("PORTAL_REDIRECT_DELAY", time.Second),
		ResetDismissDelay:  getDurationEnv("PORTAL_RESET_DISMISS_DELAY", 3*time.Second),
		LogHTTP:            getBoolEnv("PORTAL_LOG_HTTP", false),

		ListenAddr:      getEnv("PORTAL_LISTEN_ADDR", "8000"),
		SessionSecret:   getEnv("PORTAL_SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:      getDurationEnv("PORTAL_SESSION_TTL", 24*time.Hour),
		ReadTimeoutSec:  getIntEnv("PORTAL_READ_TIMEOUT_SEC", 15),
		WriteTimeoutSec: getIntEnv("PORTAL_WRITE_TIMEOUT_SEC", 15),
		IdleTimeoutSec:  getIntEnv("PORTAL_IDLE_TIMEOUT_SEC", 60),
		SeedEmail:       getEnv("PORTAL_SEED_EMAIL", "client@example.com"),
		SeedPassword:    getEnv("PORTAL_SEED_PASSWORD", "Secret1!"),
		SeedTwoFactor:   getBoolEnv("PORTAL_SEED_2FA", true),
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("PORTAL_BASE_URL must be an absolute http(s) URL")
	}
	if cfg.HTTPTimeout < 0 {
		return Config{}, fmt.Errorf("PORTAL_HTTP_TIMEOUT must not be negative")
	}
	return cfg, nil
}

// WithBaseURL returns a copy of cfg pointing at another server, as the CLI's --server flag does.
func (c Config) WithBaseURL(raw string) (Config, error) {
	base := normaliseBaseURL(raw)
	if base == "" {
		return Config{}, fmt.Errorf("invalid server URL %q", raw)
	}
	c.BaseURL = base
	return c, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if n, err := strconv.Atoi(val); err == nil {
			return time.Duration(n) * time.Millisecond
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func normaliseBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := neturl.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
