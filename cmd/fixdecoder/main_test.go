package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stephenlclarke/fix42/fix"
	"github.com/stephenlclarke/fix42/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalValueFlags(t *testing.T) {
	var tag tagFlag
	require.NoError(t, tag.Set("35"))
	assert.True(t, tag.isSet)
	assert.Equal(t, "35", tag.String())
	assert.True(t, tag.IsBoolFlag())

	var msg messageFlag
	require.NoError(t, msg.Set("Logon"))
	assert.True(t, msg.isSet)
	assert.Equal(t, "Logon", msg.String())
	assert.True(t, msg.IsBoolFlag())
}

func TestColourFlag(t *testing.T) {
	for in, want := range map[string]string{
		"":      config.ColourYes,
		"true":  config.ColourYes,
		"YES":   config.ColourYes,
		"false": config.ColourNo,
		"no":    config.ColourNo,
		"auto":  config.ColourAuto,
	} {
		var c colourFlag
		require.NoError(t, c.Set(in), in)
		assert.Equal(t, want, c.String(), in)
		assert.True(t, c.isSet)
	}

	var c colourFlag
	assert.Error(t, c.Set("sometimes"))
	assert.True(t, c.IsBoolFlag())
}

func TestParseFlagsArgs(t *testing.T) {
	var errOut bytes.Buffer
	opts, err := parseFlagsArgs([]string{
		"-verbose", "-header", "-trailer", "-column", "-info",
		"-message=Logon", "-tag", "-colour=no", "-duplicates=reject",
		"a.log", "b.log",
	}, &errOut)
	require.NoError(t, err)

	assert.True(t, opts.Verbose)
	assert.True(t, opts.IncludeHeader)
	assert.True(t, opts.IncludeTrailer)
	assert.True(t, opts.ColumnOutput)
	assert.True(t, opts.Info)
	assert.Equal(t, "Logon", opts.Message.value)
	assert.Equal(t, "true", opts.Tag.value)
	assert.Equal(t, config.ColourNo, opts.Colour.value)
	assert.Equal(t, "reject", opts.Duplicates)
	assert.Equal(t, []string{"a.log", "b.log"}, opts.Files)
	assert.True(t, opts.set["duplicates"])
	assert.False(t, opts.set["validate"])
}

func TestParseFlagsArgsRejectsUnknownFlag(t *testing.T) {
	var errOut bytes.Buffer
	_, err := parseFlagsArgs([]string{"-fix=44"}, &errOut)
	assert.Error(t, err)
	assert.Contains(t, errOut.String(), "Usage: fixdecoder")
}

func TestExtractFileArgsOrStdin(t *testing.T) {
	assert.Equal(t, []string{"-"}, extractFileArgsOrStdin(nil))
	assert.Equal(t, []string{"x.log", "-"}, extractFileArgsOrStdin([]string{"x.log", "", "-"}))
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "fix42.toml")
	require.NoError(t, os.WriteFile(path, []byte("validate = true\nobfuscate = true\nduplicate_tags = \"reject\"\n"), 0o644))

	opts, err := parseFlagsArgs([]string{"-config", path, "-validate=false", "-skip-integrity"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-"}, opts.Files)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.False(t, cfg.Validate)
	assert.True(t, cfg.Obfuscate)
	assert.True(t, cfg.SkipIntegrity)
	assert.Equal(t, fix.DuplicateReject, cfg.DuplicateTags)
}

func TestLoadConfigBadDuplicatesFlag(t *testing.T) {
	opts, err := parseFlagsArgs([]string{"-duplicates=first"}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = loadConfig(opts)
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "fixdecoder "+Version)
	assert.Contains(t, buf.String(), GitUrl)
}

func TestProcessHelpAndBadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, Process([]string{"-h"}, &out, &errOut))
	assert.Equal(t, 2, Process([]string{"-nope"}, &out, &errOut))
}

func TestProcessMissingConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Process([]string{"-config", filepath.Join(t.TempDir(), "none.toml"), "-info"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "load config")
}

func TestProcessDecodesLogFile(t *testing.T) {
	m, err := buildSample(fix.MsgTypeNewOrderSingle, fixedTime)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.log")
	log := "2024-03-15 INFO outbound " + string(m.Encode()) + "\nplain line\n"
	require.NoError(t, os.WriteFile(path, []byte(log), 0o644))

	var out, errOut bytes.Buffer
	code := Process([]string{"-validate", "-colour=no", path}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())

	got := out.String()
	assert.Contains(t, got, "Processing: "+path)
	assert.Contains(t, got, "(MsgType): D (ORDER_SINGLE)")
	assert.Contains(t, got, "plain line")
	assert.NotContains(t, got, "== ")
}

func TestProcessObfuscatesLogFile(t *testing.T) {
	m, err := buildSample(fix.MsgTypeLogon, fixedTime)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.log")
	require.NoError(t, os.WriteFile(path, append(m.Encode(), '\n'), 0o644))

	var out, errOut bytes.Buffer
	code := Process([]string{"-obfuscate", "-colour=no", path}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.NotContains(t, out.String(), "SENDER")
	assert.Contains(t, out.String(), "SenderCompID0001")
}

func TestProcessMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Process([]string{"-colour=no", filepath.Join(t.TempDir(), "absent.log")}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(errOut.String(), "Cannot open file"))
}
