package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bakeplan/internal/cli"
)

func TestRunHelpExitsCleanly(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run(&out, &errOut, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Usage:")
	assert.Empty(t, out.String())
}

func TestRunUnknownFlag(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run(&out, &errOut, []string{"--no-such-flag"})
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRunPrintsResolvedPlan(t *testing.T) {
	dir := t.TempDir()
	bakeFile := filepath.Join(dir, "docker-bake.hcl")
	require.NoError(t, os.WriteFile(bakeFile, []byte(`
target "api" {
  tags = ["registry/api:latest"]
}
`), 0o644))

	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"-f", bakeFile, "api"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"name": "api"`)
	assert.Contains(t, out.String(), `"registry/api:latest"`)
}

func TestRunMissingBakePath(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run(&out, &errOut, []string{"-f", filepath.Join(t.TempDir(), "nope"), "api"})
	require.Error(t, err)
}
