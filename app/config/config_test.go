package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.IsDev())
	assert.Equal(t, ":8080", conf.Address())
	assert.Equal(t, StorePostgres, conf.Store)
	assert.Equal(t, 15*time.Minute, conf.AccessTokenTTL)
	assert.Equal(t, 20.0, conf.CA1Max)
	assert.Equal(t, 20.0, conf.CA2Max)
	assert.Equal(t, 60.0, conf.ExamMax)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHOOL_STORE", "memory")
	t.Setenv("SCHOOL_PORT", "9090")
	t.Setenv("SCHOOL_EXAM_MAX", "70")
	t.Setenv("SCHOOL_ACCESS_TOKEN_TTL", "1h")

	conf, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, conf.Store)
	assert.Equal(t, ":9090", conf.Address())
	assert.Equal(t, 70.0, conf.ExamMax)
	assert.Equal(t, time.Hour, conf.AccessTokenTTL)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCHOOL_REDIS_ADDR=cache:6379\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SCHOOL_REDIS_ADDR") })

	conf, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", conf.RedisAddr)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SCHOOL_STORE", "mongo")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
