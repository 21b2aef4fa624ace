package resolver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/bakeplan/internal/eval"
	"github.com/vk/bakeplan/internal/model"
)

var (
	// ErrCyclicInheritance reports a target whose inherits chain contains
	// itself, directly or transitively.
	ErrCyclicInheritance = errors.New("cyclic inheritance")
	// ErrUnknownBaseTarget reports an inherited name that is not declared.
	ErrUnknownBaseTarget = errors.New("unknown base target")
)

// Flattener produces effective targets from declared ones. It holds only
// read-only state and is safe for concurrent Flatten calls.
type Flattener struct {
	targets map[string]*model.Target
	scope   *eval.Context
}

// New creates a flattener over the declared target table and a frozen
// evaluation scope.
func New(targets map[string]*model.Target, scope *eval.Context) *Flattener {
	return &Flattener{targets: targets, scope: scope}
}

// Flatten resolves a declared target into its effective form: the inherits
// chain is merged base-first, then every merged expression is evaluated to
// a literal. The result is a fresh value the caller owns.
func (f *Flattener) Flatten(name string) (*model.EffectiveTarget, error) {
	target, ok := f.targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBaseTarget, name)
	}
	raw, err := f.mergeChain(target, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	return f.evaluate(name, raw)
}

// mergeChain recursively folds a target's bases into one raw layer. The
// visiting set tracks the current descent path for cycle detection.
func (f *Flattener) mergeChain(target *model.Target, visiting map[string]bool) (*rawTarget, error) {
	if visiting[target.Name] {
		return nil, fmt.Errorf("%w: target %q inherits from itself", ErrCyclicInheritance, target.Name)
	}
	visiting[target.Name] = true
	defer delete(visiting, target.Name)

	acc := newRawTarget()
	for _, baseName := range target.Inherits {
		base, ok := f.targets[baseName]
		if !ok {
			return nil, fmt.Errorf("%w: %q, inherited by %q", ErrUnknownBaseTarget, baseName, target.Name)
		}
		baseRaw, err := f.mergeChain(base, visiting)
		if err != nil {
			return nil, err
		}
		acc = mergeLayers(acc, baseRaw)
	}
	return mergeLayers(acc, ownLayer(target)), nil
}

// evaluate turns a merged raw layer into a fully literal effective target.
func (f *Flattener) evaluate(name string, raw *rawTarget) (*model.EffectiveTarget, error) {
	effective := &model.EffectiveTarget{Name: name}
	var err error

	if effective.Dockerfile, err = f.evalScalar(raw, "dockerfile"); err != nil {
		return nil, fmt.Errorf("target %q: dockerfile: %w", name, err)
	}
	if effective.Context, err = f.evalScalar(raw, "context"); err != nil {
		return nil, fmt.Errorf("target %q: context: %w", name, err)
	}
	if effective.Stage, err = f.evalScalar(raw, "target"); err != nil {
		return nil, fmt.Errorf("target %q: target: %w", name, err)
	}
	if effective.Labels, err = f.evalMapping(raw, "labels"); err != nil {
		return nil, fmt.Errorf("target %q: labels: %w", name, err)
	}
	if effective.Args, err = f.evalMapping(raw, "args"); err != nil {
		return nil, fmt.Errorf("target %q: args: %w", name, err)
	}
	if expr, ok := raw.sequences["tags"]; ok {
		if effective.Tags, err = f.scope.StringList(expr); err != nil {
			return nil, fmt.Errorf("target %q: tags: %w", name, err)
		}
	}

	if effective.Dockerfile == "" {
		effective.Dockerfile = "Dockerfile"
	}
	if effective.Context == "" {
		effective.Context = "."
	}
	return effective, nil
}

func (f *Flattener) evalScalar(raw *rawTarget, attr string) (string, error) {
	expr, ok := raw.scalars[attr]
	if !ok {
		return "", nil
	}
	return f.scope.String(expr)
}

func (f *Flattener) evalMapping(raw *rawTarget, attr string) (map[string]string, error) {
	entries := raw.mappings[attr]
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(entries))
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic error attribution
	for _, key := range keys {
		value, err := f.scope.String(entries[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}
