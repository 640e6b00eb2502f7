package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stephenlclarke/fix42/fix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixdecoder.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, fix.DecodeOptions{}, cfg.DecodeOptions())
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	path := writeConfig(t, `
validate = true
colour = "No"
obfuscate = true
duplicate_tags = "reject"
skip_integrity = true
log_level = "debug"

[sensitive]
1 = "Account"
448 = "PartyID"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Validate)
	assert.Equal(t, ColourNo, cfg.Colour)
	assert.True(t, cfg.Obfuscate)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, map[fix.Tag]string{1: "Account", 448: "PartyID"}, cfg.Sensitive)
	assert.Equal(t, fix.DecodeOptions{DuplicateTags: fix.DuplicateReject, SkipIntegrity: true}, cfg.DecodeOptions())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(writeConfig(t, `validate = true`))
	require.NoError(t, err)
	assert.True(t, cfg.Validate)
	assert.Equal(t, ColourAuto, cfg.Colour)
	assert.Nil(t, cfg.Sensitive)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "ERROR")

	cfg, err := Load(writeConfig(t, `log_level = "debug"`))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad colour":   `colour = "sometimes"`,
		"bad policy":   `duplicate_tags = "first"`,
		"bad level":    `log_level = "loud"`,
		"bad tag":      "[sensitive]\nabc = \"X\"",
		"unknown key":  `verbose = true`,
		"invalid toml": `validate = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" Info ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseLevel("")
	assert.False(t, ok)
}
