// Package funcs implements the function registry: user-defined functions
// declared in bake files, layered over a small set of builtins from the cty
// stdlib. User functions bind positional string parameters and evaluate a
// single result expression; parameter bindings shadow outer variables of
// the same name.
package funcs

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var (
	// ErrDuplicateFunction reports a name collision, including with a builtin.
	ErrDuplicateFunction = errors.New("duplicate function")
	// ErrRecursiveFunction reports a function that transitively calls itself.
	ErrRecursiveFunction = errors.New("recursive function")
	// ErrArityMismatch reports a call with the wrong number of arguments.
	ErrArityMismatch = errors.New("arity mismatch")
)

// builtins are the ambient functions available in every bake file scope.
var builtins = map[string]function.Function{
	"upper":    stdlib.UpperFunc,
	"lower":    stdlib.LowerFunc,
	"format":   stdlib.FormatFunc,
	"join":     stdlib.JoinFunc,
	"split":    stdlib.SplitFunc,
	"replace":  stdlib.ReplaceFunc,
	"substr":   stdlib.SubstrFunc,
	"coalesce": stdlib.CoalesceFunc,
	"concat":   stdlib.ConcatFunc,
}

// Builtins returns a copy of the ambient function set.
func Builtins() map[string]function.Function {
	out := make(map[string]function.Function, len(builtins))
	for name, fn := range builtins {
		out[name] = fn
	}
	return out
}

// userFunction is a named result template with positional parameters.
type userFunction struct {
	name   string
	params []string
	result hcl.Expression
}

// Registry holds the user-defined functions of one declaration set. It is
// populated during parse, validated once, and read-only afterwards.
type Registry struct {
	user map[string]*userFunction
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{user: make(map[string]*userFunction)}
}

// Define registers a user function.
func (r *Registry) Define(name string, params []string, result hcl.Expression) error {
	if _, ok := builtins[name]; ok {
		return fmt.Errorf("%w: %q shadows a builtin function", ErrDuplicateFunction, name)
	}
	if _, ok := r.user[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	r.user[name] = &userFunction{name: name, params: params, result: result}
	return nil
}

// Len returns the number of user-defined functions.
func (r *Registry) Len() int {
	return len(r.user)
}

// Validate rejects registries where any function transitively calls itself.
// Recursion would expand without bound at evaluation time, so it is caught
// up front with a depth-first walk over the call graph.
func (r *Registry) Validate() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.user))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %q calls itself, directly or transitively", ErrRecursiveFunction, name)
		}
		state[name] = visiting
		for _, callee := range calledNames(r.user[name].result) {
			if _, ok := r.user[callee]; !ok {
				continue // builtins and unknown names cannot recurse
			}
			if err := visit(callee); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for name := range r.user {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// Build exposes builtins plus user functions as cty functions for an HCL
// evaluation context. Each user function evaluates its result expression in
// a child scope of base, with parameter bindings shadowing outer variables.
// The base context may still be under construction when Build is called;
// it is only dereferenced at call time.
func (r *Registry) Build(base *hcl.EvalContext) map[string]function.Function {
	all := Builtins()
	for name, fn := range r.user {
		all[name] = fn.ctyFunction(base)
	}
	return all
}

func (f *userFunction) ctyFunction(base *hcl.EvalContext) function.Function {
	params := make([]function.Parameter, len(f.params))
	for i, name := range f.params {
		params[i] = function.Parameter{Name: name, Type: cty.String}
	}
	return function.New(&function.Spec{
		Params: params,
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			scope := base.NewChild()
			scope.Variables = make(map[string]cty.Value, len(args))
			for i, arg := range args {
				scope.Variables[f.params[i]] = arg
			}
			value, diags := f.result.Value(scope)
			if diags.HasErrors() {
				return cty.NilVal, diags
			}
			return value, nil
		},
	})
}

// calledNames scans an expression for the names of all functions it calls.
func calledNames(expr hcl.Expression) []string {
	node, ok := expr.(hclsyntax.Node)
	if !ok {
		return nil
	}
	var names []string
	hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			names = append(names, call.Name)
		}
		return nil
	})
	return names
}
