package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/bakeplan/internal/ctxlog"
	"github.com/vk/bakeplan/internal/eval"
	"github.com/vk/bakeplan/internal/funcs"
	"github.com/vk/bakeplan/internal/model"
	"github.com/vk/bakeplan/internal/plan"
	"github.com/vk/bakeplan/internal/resolver"
	"github.com/vk/bakeplan/internal/vars"
)

// Resolve runs the full pipeline over the loaded declaration set: declare
// variables, apply environment and explicit overrides, validate functions,
// then expand and flatten the requested names into a plan. Resolution is
// stateless; identical inputs always produce the identical plan.
func (a *App) Resolve(ctx context.Context, requested []string, overrides map[string]string) ([]model.EffectiveTarget, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	store := vars.New()
	for _, v := range a.bake.Variables {
		var defaultValue string
		if v.Default != nil {
			var err error
			if defaultValue, err = eval.DefaultString(v.Default); err != nil {
				return nil, fmt.Errorf("variable %q: %w", v.Name, err)
			}
		}
		if err := store.Declare(v.Name, defaultValue); err != nil {
			return nil, err
		}
	}
	// Precedence: declared default < process environment < explicit override.
	for _, v := range a.bake.Variables {
		if envValue, ok := os.LookupEnv(v.Name); ok {
			if err := store.Override(v.Name, envValue); err != nil {
				return nil, err
			}
		}
	}
	for name, value := range overrides {
		if err := store.Override(name, value); err != nil {
			return nil, err
		}
	}
	logger.Debug("Variable store ready.", "count", store.Len())

	registry := funcs.New()
	for _, fn := range a.bake.Functions {
		if err := registry.Define(fn.Name, fn.Params, fn.Result); err != nil {
			return nil, err
		}
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Function registry ready.", "count", registry.Len())

	scope := eval.NewContext(store, registry)
	flattener := resolver.New(a.bake.Targets, scope)
	planner := plan.New(a.bake, flattener)

	targets, err := planner.Resolve(ctx, requested)
	if err != nil {
		return nil, err
	}
	logger.Info("Plan resolved.", "targets", len(targets))
	return targets, nil
}
