// Package testutil provides a standardized harness for end-to-end resolve
// tests: bake files written to a temp dir, an isolated App, captured logs.
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/bakeplan/internal/app"
	"github.com/vk/bakeplan/internal/hcl"
	"github.com/vk/bakeplan/internal/model"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Result holds the outcomes of one end-to-end resolve run.
type Result struct {
	Plan      []model.EffectiveTarget
	LogOutput string
	Err       error
}

// ResolvePlan writes the given bake files into a temporary directory,
// builds an App over them, and resolves the requested names with the given
// overrides. Load and resolve errors both surface through Result.Err.
func ResolvePlan(t *testing.T, files map[string]string, requested []string, overrides map[string]string) *Result {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	var logs SafeBuffer
	cfg, err := app.NewConfig(app.Config{
		BakePath:  tmpDir,
		Requested: requested,
		Overrides: overrides,
		LogFormat: "text",
		LogLevel:  "debug",
	})
	require.NoError(t, err)

	bakeApp, err := app.NewApp(io.Discard, &logs, cfg, hcl.NewLoader())
	if err != nil {
		return &Result{LogOutput: logs.String(), Err: err}
	}

	plan, err := bakeApp.Resolve(context.Background(), requested, overrides)
	return &Result{Plan: plan, LogOutput: logs.String(), Err: err}
}

// TargetNames projects a plan onto its ordered target names.
func TargetNames(plan []model.EffectiveTarget) []string {
	names := make([]string, len(plan))
	for i, target := range plan {
		names[i] = target.Name
	}
	return names
}
