// Package plan expands requested target and group names into an ordered,
// deduplicated build plan of effective targets.
package plan

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/bakeplan/internal/ctxlog"
	"github.com/vk/bakeplan/internal/model"
	"github.com/vk/bakeplan/internal/resolver"
)

var (
	// ErrCyclicGroup reports a group that includes itself through nesting.
	ErrCyclicGroup = errors.New("cyclic group")
	// ErrUnknownTarget reports a requested or member name matching neither table.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrUnknownGroup reports a request for a group that is not declared.
	ErrUnknownGroup = errors.New("unknown group")
)

// DefaultGroup is resolved when no names are requested.
const DefaultGroup = "default"

// Planner expands group references and emits the final plan. Read-only
// after construction.
type Planner struct {
	targets   map[string]*model.Target
	groups    map[string]*model.Group
	flattener *resolver.Flattener
}

// New creates a planner over the declaration set and a flattener sharing
// the same immutable scope.
func New(bake *model.Bake, flattener *resolver.Flattener) *Planner {
	return &Planner{
		targets:   bake.Targets,
		groups:    bake.Groups,
		flattener: flattener,
	}
}

// Expand resolves requested names into a deduplicated list of target names,
// preserving first-seen order. Each name is tried as a target first, then
// as a group; groups may nest. An empty request expands the default group.
func (p *Planner) Expand(requested []string) ([]string, error) {
	if len(requested) == 0 {
		if _, ok := p.groups[DefaultGroup]; !ok {
			return nil, fmt.Errorf("%w: no names requested and no %q group declared", ErrUnknownGroup, DefaultGroup)
		}
		requested = []string{DefaultGroup}
	}

	seen := make(map[string]bool)
	var ordered []string
	for _, name := range requested {
		if err := p.expand(name, seen, &ordered, make(map[string]bool)); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

func (p *Planner) expand(name string, seen map[string]bool, ordered *[]string, visiting map[string]bool) error {
	if _, ok := p.targets[name]; ok {
		if !seen[name] {
			seen[name] = true
			*ordered = append(*ordered, name)
		}
		return nil
	}

	group, ok := p.groups[name]
	if !ok {
		return fmt.Errorf("%w: %q is neither a declared target nor a group", ErrUnknownTarget, name)
	}
	if visiting[name] {
		return fmt.Errorf("%w: group %q includes itself", ErrCyclicGroup, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	for _, member := range group.Targets {
		if err := p.expand(member, seen, ordered, visiting); err != nil {
			return err
		}
	}
	return nil
}

// Resolve expands the request and flattens every resulting target. All
// shared state is read-only, so independent targets flatten in parallel;
// plan order is preserved by index. The first error aborts the whole plan.
func (p *Planner) Resolve(ctx context.Context, requested []string) ([]model.EffectiveTarget, error) {
	logger := ctxlog.FromContext(ctx)

	names, err := p.Expand(requested)
	if err != nil {
		return nil, err
	}
	logger.Debug("Request expanded.", "requested", requested, "targets", names)

	out := make([]model.EffectiveTarget, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			effective, err := p.flattener.Flatten(name)
			if err != nil {
				return err
			}
			out[i] = *effective
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("All targets flattened.", "count", len(out))
	return out, nil
}
