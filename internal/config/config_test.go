package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SESSION_STORE", "SESSION_TTL", "ALERT_RETRY_ATTEMPTS", "CARE_TEAM_CHAT_ID"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.AlertRetryAttempts)
	assert.Zero(t, cfg.CareTeamChatID)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", "Postgres")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("ALERT_RETRY_ATTEMPTS", "5")
	t.Setenv("CARE_TEAM_CHAT_ID", "-100123")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SessionStorePostgres, cfg.SessionStore)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.AlertRetryAttempts)
	assert.Equal(t, int64(-100123), cfg.CareTeamChatID)
}

func TestLoadConfigFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("ALERT_RETRY_ATTEMPTS", "many")

	cfg := LoadConfig()
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.AlertRetryAttempts)
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("SESSION_TTL", "90")
	assert.Equal(t, 90*time.Second, getEnvDuration("SESSION_TTL", time.Hour))
}
