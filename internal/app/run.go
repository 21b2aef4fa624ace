package app

import (
	"context"
	"fmt"

	"github.com/vk/bakeplan/internal/backend"
	"github.com/vk/bakeplan/internal/ctxlog"
)

// Run resolves the requested plan and either prints it or hands each target
// to the docker backend, one build per target, in plan order.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	targets, err := a.Resolve(ctx, cfg.Requested, cfg.Overrides)
	if err != nil {
		return err
	}

	if !cfg.Build {
		return backend.WritePlan(a.outW, targets)
	}

	b := backend.NewDocker()
	for _, target := range targets {
		a.logger.Info("Building target.", "target", target.Name, "tags", target.Tags)
		if err := b.Build(ctx, target); err != nil {
			return fmt.Errorf("build failed for target %q: %w", target.Name, err)
		}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
