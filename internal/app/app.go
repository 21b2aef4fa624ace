package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/bakeplan/internal/ctxlog"
	"github.com/vk/bakeplan/internal/hcl"
	"github.com/vk/bakeplan/internal/model"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	bake   *model.Bake
}

// NewApp is the constructor for the main application. It configures an
// isolated logger, loads the bake files, and returns an App holding the
// parsed declaration set. Plan output goes to outW, logs to errW.
func NewApp(outW, errW io.Writer, cfg *Config, loader *hcl.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	bake, err := loader.Load(ctx, cfg.BakePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load bake files: %w", err)
	}
	logger.Debug("Bake files loaded.",
		"variables", len(bake.Variables),
		"functions", len(bake.Functions),
		"targets", len(bake.Targets),
		"groups", len(bake.Groups),
	)

	return &App{outW: outW, logger: logger, bake: bake}, nil
}

// Bake returns the loaded declaration set. This is primarily for testing.
func (a *App) Bake() *model.Bake {
	return a.bake
}
