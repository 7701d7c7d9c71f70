package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/juho05/log"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	for _, name := range []string{"PORT", "API_URL", "DB_DRIVER", "LOGIN_PATH", "DASHBOARD_PATH", "PUBLIC_PATHS", "SESSION_PERSIST", "SESSION_LIFETIME", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	Reset()
	t.Cleanup(Reset)

	assert.Equal(t, 3000, Port())
	assert.Equal(t, "http://localhost:8080/monitor/api", APIURL())
	assert.NotContains(t, APIURL(), ":"+strconv.Itoa(Port())+"/", "default server must not call itself")
	assert.Equal(t, "sqlite", DBDriver())
	assert.Equal(t, "/auth/login", LoginPath())
	assert.Equal(t, "/dashboard", DashboardPath())
	assert.Empty(t, PublicPaths())
	assert.True(t, SessionPersist())
	assert.Equal(t, 72*time.Hour, SessionLifetime())
	assert.Equal(t, []string{"https://*"}, CORSOrigins())
	assert.Equal(t, log.INFO, LogLevel())
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_URL", "https://monitor.example.com/api/")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("LOGIN_PATH", "signin/")
	t.Setenv("PUBLIC_PATHS", "about, /help ,,")
	t.Setenv("SESSION_PERSIST", "false")
	t.Setenv("SESSION_LIFETIME", "1h30m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("LOG_LEVEL", "5")
	Reset()
	t.Cleanup(Reset)

	assert.Equal(t, 9000, Port())
	assert.Equal(t, "https://monitor.example.com/api", APIURL())
	assert.Equal(t, "postgres", DBDriver())
	assert.Equal(t, "/signin", LoginPath())
	assert.Equal(t, []string{"/about", "/help"}, PublicPaths())
	assert.False(t, SessionPersist())
	assert.Equal(t, 90*time.Minute, SessionLifetime())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, CORSOrigins())
	assert.Equal(t, log.TRACE, LogLevel())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("APP_IDLE_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "9")
	Reset()
	t.Cleanup(Reset)

	assert.Equal(t, 3000, Port())
	assert.Equal(t, "sqlite", DBDriver())
	assert.True(t, CookieSecure())
	assert.Equal(t, 24*time.Hour, AppIdleTimeout())
	assert.Equal(t, log.INFO, LogLevel())
}

func TestValuesAreCached(t *testing.T) {
	t.Setenv("PORT", "9001")
	Reset()
	t.Cleanup(Reset)
	assert.Equal(t, 9001, Port())

	t.Setenv("PORT", "9002")
	assert.Equal(t, 9001, Port())
	Reset()
	assert.Equal(t, 9002, Port())
}
