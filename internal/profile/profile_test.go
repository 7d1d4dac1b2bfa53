package profile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileEnvVars = []string{
	"SITEVOICE_WEBHOOK_SECRET",
	"SITEVOICE_OPENAI_API_KEY",
	"OPENAI_API_KEY",
	"SITEVOICE_OPENAI_BASE_URL",
	"SITEVOICE_MATCHER_MODEL",
	"SITEVOICE_MATCHER_TIMEOUT",
	"SITEVOICE_BACKDATE_WINDOW_DAYS",
	"SITEVOICE_SESSION_TTL",
	"SITEVOICE_SITE_CACHE_TTL",
	"SITEVOICE_CLEANUP_INTERVAL",
}

func clearProfileEnv(t *testing.T) {
	t.Helper()
	for _, key := range profileEnvVars {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearProfileEnv(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "", p.MatcherAPIKey)
	assert.Equal(t, DefaultMatcherBaseURL, p.MatcherBaseURL)
	assert.Equal(t, DefaultMatcherModel, p.MatcherModel)
	assert.Equal(t, DefaultMatcherTimeout, p.MatcherTimeout)
	assert.Equal(t, DefaultBackdateWindowDays, p.BackdateWindowDays)
	assert.Equal(t, DefaultSessionTTL, p.SessionTTL)
	assert.Equal(t, DefaultSiteCacheTTL, p.SiteCacheTTL)
	assert.Equal(t, DefaultCleanupInterval, p.CleanupInterval)
	assert.False(t, p.IsMatcherEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(t *testing.T, p *Profile)
	}{
		{
			name:     "prefixed api key",
			envVar:   "SITEVOICE_OPENAI_API_KEY",
			envValue: "sk-new",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, "sk-new", p.MatcherAPIKey) },
		},
		{
			name:     "legacy api key",
			envVar:   "OPENAI_API_KEY",
			envValue: "sk-legacy",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, "sk-legacy", p.MatcherAPIKey) },
		},
		{
			name:     "matcher timeout",
			envVar:   "SITEVOICE_MATCHER_TIMEOUT",
			envValue: "3s",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 3*time.Second, p.MatcherTimeout) },
		},
		{
			name:     "invalid matcher timeout keeps default",
			envVar:   "SITEVOICE_MATCHER_TIMEOUT",
			envValue: "soon",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, DefaultMatcherTimeout, p.MatcherTimeout) },
		},
		{
			name:     "backdate window",
			envVar:   "SITEVOICE_BACKDATE_WINDOW_DAYS",
			envValue: "7",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, 7, p.BackdateWindowDays) },
		},
		{
			name:     "negative backdate window keeps default",
			envVar:   "SITEVOICE_BACKDATE_WINDOW_DAYS",
			envValue: "-3",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, DefaultBackdateWindowDays, p.BackdateWindowDays) },
		},
		{
			name:     "webhook secret",
			envVar:   "SITEVOICE_WEBHOOK_SECRET",
			envValue: "shh",
			check:    func(t *testing.T, p *Profile) { assert.Equal(t, "shh", p.WebhookSecret) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProfileEnv(t)
			t.Setenv(tt.envVar, tt.envValue)

			p := &Profile{}
			p.FromEnv()
			tt.check(t, p)
		})
	}
}

func TestFromEnv_PrefixedKeyWins(t *testing.T) {
	clearProfileEnv(t)
	t.Setenv("SITEVOICE_OPENAI_API_KEY", "sk-new")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")

	p := &Profile{}
	p.FromEnv()
	assert.Equal(t, "sk-new", p.MatcherAPIKey)
	assert.True(t, p.IsMatcherEnabled())
}

func TestValidate_SQLiteDSNInDataDir(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}

	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join(dir, "sitevoice_dev.db"), p.DSN)
	assert.Equal(t, DefaultBackdateWindowDays, p.BackdateWindowDays)
	assert.Equal(t, DefaultMatcherTimeout, p.MatcherTimeout)
}

func TestValidate_UnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{Mode: "staging", Data: t.TempDir()}

	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
	assert.Equal(t, "sqlite", p.Driver)
}

func TestValidate_Errors(t *testing.T) {
	t.Run("unsupported driver", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql", Data: t.TempDir()}
		assert.Error(t, p.Validate())
	})
	t.Run("postgres without dsn", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "postgres", Data: t.TempDir()}
		assert.Error(t, p.Validate())
	})
	t.Run("missing data dir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "sqlite", Data: filepath.Join(t.TempDir(), "missing")}
		assert.Error(t, p.Validate())
	})
}
