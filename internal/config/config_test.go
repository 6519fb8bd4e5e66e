package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INVITE_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Invite.GetTTL())
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.Stats.RefreshInterval)

	rules, err := cfg.Scoring.Rules()
	require.NoError(t, err)
	assert.Equal(t, 1, rules.PointsPerMinute)
	assert.Equal(t, 20, rules.GroupBonus)
	assert.Equal(t, 5, rules.PhotoBonus)
	assert.Equal(t, 50, rules.InviteBonus)
	assert.Equal(t, 5*time.Minute, rules.ClockSkew)
	assert.Equal(t, time.UTC, rules.Location)
}

func TestLoad_RequiresInviteSecret(t *testing.T) {
	t.Setenv("INVITE_SECRET", "")
	require.NoError(t, os.Unsetenv("INVITE_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("INVITE_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("SCORING_GROUP_BONUS", "30")
	t.Setenv("SCORING_TIMEZONE", "Local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)

	rules, err := cfg.Scoring.Rules()
	require.NoError(t, err)
	assert.Equal(t, 30, rules.GroupBonus)
	assert.Equal(t, time.Local, rules.Location)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("INVITE_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("INVITE_SECRET", "secret")
	t.Setenv("SCORING_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
