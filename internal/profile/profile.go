package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where sitevoice stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// WebhookSecret, when set, must match the X-Vapi-Secret header of every tool call.
	WebhookSecret string // SITEVOICE_WEBHOOK_SECRET

	// Site matcher configuration
	MatcherAPIKey  string        // SITEVOICE_OPENAI_API_KEY (legacy: OPENAI_API_KEY)
	MatcherBaseURL string        // SITEVOICE_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	MatcherModel   string        // SITEVOICE_MATCHER_MODEL (default: gpt-4o-mini)
	MatcherTimeout time.Duration // SITEVOICE_MATCHER_TIMEOUT (default: 8s)

	// Timesheet policy
	BackdateWindowDays int // SITEVOICE_BACKDATE_WINDOW_DAYS (default: 14)

	// Call sessions and caches
	SessionTTL      time.Duration // SITEVOICE_SESSION_TTL (default: 2h)
	SiteCacheTTL    time.Duration // SITEVOICE_SITE_CACHE_TTL (default: 5m)
	CleanupInterval time.Duration // SITEVOICE_CLEANUP_INTERVAL (default: 1h)
}

const (
	DefaultMatcherBaseURL     = "https://api.openai.com/v1"
	DefaultMatcherModel       = "gpt-4o-mini"
	DefaultMatcherTimeout     = 8 * time.Second
	DefaultBackdateWindowDays = 14
	DefaultSessionTTL         = 2 * time.Hour
	DefaultSiteCacheTTL       = 5 * time.Minute
	DefaultCleanupInterval    = time.Hour
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsMatcherEnabled returns true if an LLM site matcher can be constructed.
func (p *Profile) IsMatcherEnabled() bool {
	return p.MatcherAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the tunable settings from environment variables.
// SITEVOICE_* keys win over the legacy unprefixed ones.
func (p *Profile) FromEnv() {
	getEnvWithFallback := func(newKey, legacyKey string) string {
		if val := os.Getenv(newKey); val != "" {
			return val
		}
		if legacyKey == "" {
			return ""
		}
		return os.Getenv(legacyKey)
	}

	getDuration := func(key string, defaultValue time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return defaultValue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			slog.Warn("ignoring invalid duration", slog.String("key", key), slog.String("value", raw))
			return defaultValue
		}
		return d
	}

	getInt := func(key string, defaultValue int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return defaultValue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			slog.Warn("ignoring invalid integer", slog.String("key", key), slog.String("value", raw))
			return defaultValue
		}
		return n
	}

	p.WebhookSecret = os.Getenv("SITEVOICE_WEBHOOK_SECRET")
	p.MatcherAPIKey = getEnvWithFallback("SITEVOICE_OPENAI_API_KEY", "OPENAI_API_KEY")
	p.MatcherBaseURL = getEnvOrDefault("SITEVOICE_OPENAI_BASE_URL", DefaultMatcherBaseURL)
	p.MatcherModel = getEnvOrDefault("SITEVOICE_MATCHER_MODEL", DefaultMatcherModel)
	p.MatcherTimeout = getDuration("SITEVOICE_MATCHER_TIMEOUT", DefaultMatcherTimeout)
	p.BackdateWindowDays = getInt("SITEVOICE_BACKDATE_WINDOW_DAYS", DefaultBackdateWindowDays)
	p.SessionTTL = getDuration("SITEVOICE_SESSION_TTL", DefaultSessionTTL)
	p.SiteCacheTTL = getDuration("SITEVOICE_SITE_CACHE_TTL", DefaultSiteCacheTTL)
	p.CleanupInterval = getDuration("SITEVOICE_CLEANUP_INTERVAL", DefaultCleanupInterval)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// applyDefaults fills zero-valued tunables so a Profile built in code behaves like one built from env.
func (p *Profile) applyDefaults() {
	if p.MatcherBaseURL == "" {
		p.MatcherBaseURL = DefaultMatcherBaseURL
	}
	if p.MatcherModel == "" {
		p.MatcherModel = DefaultMatcherModel
	}
	if p.MatcherTimeout <= 0 {
		p.MatcherTimeout = DefaultMatcherTimeout
	}
	if p.BackdateWindowDays <= 0 {
		p.BackdateWindowDays = DefaultBackdateWindowDays
	}
	if p.SessionTTL <= 0 {
		p.SessionTTL = DefaultSessionTTL
	}
	if p.SiteCacheTTL <= 0 {
		p.SiteCacheTTL = DefaultSiteCacheTTL
	}
	if p.CleanupInterval <= 0 {
		p.CleanupInterval = DefaultCleanupInterval
	}
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q: only sqlite and postgres are supported", p.Driver)
	}
	p.applyDefaults()

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "sitevoice")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/sitevoice"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("sitevoice_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a dsn")
	}

	return nil
}
