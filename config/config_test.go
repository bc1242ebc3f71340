package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshotsEnvironment(t *testing.T) {
	t.Setenv("TUBE2BLOG_TEST_KEY", "value")

	cfg := New()
	assert.Equal(t, "value", cfg["TUBE2BLOG_TEST_KEY"])
}

func TestGetString(t *testing.T) {
	cfg := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(cfg, "PORT", "8080"))
	assert.Equal(t, "", GetString(cfg, "EMPTY", "fallback"), "present but empty wins over the default")
	assert.Equal(t, "fallback", GetString(cfg, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	cfg := map[string]string{"TIMEOUT": "30", "BAD": "not-a-number"}

	assert.Equal(t, 30, GetInt(cfg, "TIMEOUT", 180))
	assert.Equal(t, 180, GetInt(cfg, "BAD", 180))
	assert.Equal(t, 180, GetInt(cfg, "MISSING", 180))
}

func TestGetBool(t *testing.T) {
	cfg := map[string]string{"A": "true", "B": "0", "C": "yes"}

	assert.True(t, GetBool(cfg, "A", false))
	assert.False(t, GetBool(cfg, "B", true))
	assert.True(t, GetBool(cfg, "C", true), "unparsable values keep the default")
	assert.False(t, GetBool(cfg, "MISSING", false))
}
