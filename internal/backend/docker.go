package backend

import (
	"context"
	"os"
	"os/exec"
	"sort"

	"github.com/vk/bakeplan/internal/ctxlog"
	"github.com/vk/bakeplan/internal/model"
)

// Docker shells out to the docker CLI, one build invocation per target.
type Docker struct {
	// Binary overrides the docker executable, mainly for tests.
	Binary string
}

// NewDocker creates a backend using the docker binary from PATH.
func NewDocker() *Docker {
	return &Docker{Binary: "docker"}
}

// Build runs `docker build` for one effective target. Output streams to the
// process's stdout/stderr; the build tool owns its own progress rendering.
func (d *Docker) Build(ctx context.Context, target model.EffectiveTarget) error {
	args := buildArgs(target)
	ctxlog.FromContext(ctx).Debug("Invoking build backend.", "target", target.Name, "args", args)

	cmd := exec.CommandContext(ctx, d.Binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// buildArgs translates an effective target into docker build arguments.
// Map entries are emitted in sorted key order so invocations are
// reproducible; values pass through verbatim.
func buildArgs(target model.EffectiveTarget) []string {
	args := []string{"build", "--file", target.Dockerfile}
	if target.Stage != "" {
		args = append(args, "--target", target.Stage)
	}
	for _, key := range sortedKeys(target.Labels) {
		args = append(args, "--label", key+"="+target.Labels[key])
	}
	for _, key := range sortedKeys(target.Args) {
		args = append(args, "--build-arg", key+"="+target.Args[key])
	}
	for _, tag := range target.Tags {
		args = append(args, "--tag", tag)
	}
	return append(args, target.Context)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
