package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, ".", cfg.BakePath)
	assert.Empty(t, cfg.Requested)
	assert.Empty(t, cfg.Overrides)
	assert.False(t, cfg.Build)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFileAndTargets(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-file", "bake/docker-bake.hcl", "validator", "tools"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "bake/docker-bake.hcl", cfg.BakePath)
	assert.Equal(t, []string{"validator", "tools"}, cfg.Requested)
}

func TestParseShorthandFile(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-f", "bake.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "bake.hcl", cfg.BakePath)
}

func TestParseRepeatedSetFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-set", "GIT_REV=abc123", "-set", "PROFILE=release"}, &out)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GIT_REV": "abc123",
		"PROFILE": "release",
	}, cfg.Overrides)
}

func TestParseMalformedSetFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-set", "GIT_REV"}, &out)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml"}, &out)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "loud"}, &out)
	require.Error(t, err)
}

func TestParseHelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}
