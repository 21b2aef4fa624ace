// Package eval implements the expression evaluator. A Context is a frozen
// snapshot of the variable store and function registry captured once per
// resolve; evaluation is a pure function over that snapshot, so independent
// resolve invocations can share it without locking.
package eval

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/bakeplan/internal/funcs"
	"github.com/vk/bakeplan/internal/vars"
)

// ErrUnresolvedReference reports an identifier that is neither a declared
// variable nor a known parameter binding or function in the current scope.
var ErrUnresolvedReference = errors.New("unresolved reference")

// Context is an immutable evaluation scope. It must not be mutated after
// construction; flattening of independent targets evaluates against it
// concurrently.
type Context struct {
	hclCtx *hcl.EvalContext
}

// NewContext builds the evaluation scope from the store snapshot and the
// function registry. User function bodies see the same scope, so functions
// may reference variables and call each other (recursion is rejected by the
// registry's Validate).
func NewContext(store *vars.Store, registry *funcs.Registry) *Context {
	hclCtx := &hcl.EvalContext{
		Variables: store.Snapshot(),
	}
	hclCtx.Functions = registry.Build(hclCtx)
	return &Context{hclCtx: hclCtx}
}

// Expr evaluates an expression against the frozen scope.
func (c *Context) Expr(expr hcl.Expression) (cty.Value, error) {
	value, diags := expr.Value(c.hclCtx)
	if diags.HasErrors() {
		return cty.NilVal, mapDiagnostics(diags)
	}
	return value, nil
}

// String evaluates an expression and coerces the result to a string. A null
// result becomes the empty string.
func (c *Context) String(expr hcl.Expression) (string, error) {
	value, err := c.Expr(expr)
	if err != nil {
		return "", err
	}
	if value.IsNull() {
		return "", nil
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert value to string: %w", err)
	}
	return converted.AsString(), nil
}

// StringList evaluates an expression expected to produce a sequence of
// strings. A single string is accepted and wrapped, since a function may
// declare either result shape.
func (c *Context) StringList(expr hcl.Expression) ([]string, error) {
	value, err := c.Expr(expr)
	if err != nil {
		return nil, err
	}
	return stringList(value)
}

// Template evaluates a raw template string containing zero or more ${...}
// placeholders and returns the fully substituted literal.
func (c *Context) Template(src string) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), "<template>", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid template %q: %w", src, diags)
	}
	return c.String(expr)
}

// Invoke calls a named function with positional string arguments and
// normalizes the result to a string sequence.
func (c *Context) Invoke(name string, args []string) ([]string, error) {
	fn, ok := c.hclCtx.Functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", ErrUnresolvedReference, name)
	}
	if fn.VarParam() == nil && len(fn.Params()) != len(args) {
		return nil, fmt.Errorf("%w: function %q takes %d argument(s), got %d",
			funcs.ErrArityMismatch, name, len(fn.Params()), len(args))
	}
	ctyArgs := make([]cty.Value, len(args))
	for i, arg := range args {
		ctyArgs[i] = cty.StringVal(arg)
	}
	value, err := fn.Call(ctyArgs)
	if err != nil {
		var nested hcl.Diagnostics
		if errors.As(err, &nested) {
			return nil, fmt.Errorf("in call to %q: %w", name, mapDiagnostics(nested))
		}
		return nil, fmt.Errorf("function %q: %w", name, err)
	}
	return stringList(value)
}

func stringList(value cty.Value) ([]string, error) {
	if value.IsNull() {
		return nil, nil
	}
	ty := value.Type()
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		var out []string
		for it := value.ElementIterator(); it.Next(); {
			_, element := it.Element()
			if element.IsNull() {
				continue
			}
			converted, err := convert.Convert(element, cty.String)
			if err != nil {
				return nil, fmt.Errorf("cannot convert sequence element to string: %w", err)
			}
			out = append(out, converted.AsString())
		}
		return out, nil
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return nil, fmt.Errorf("cannot convert value to string: %w", err)
	}
	return []string{converted.AsString()}, nil
}

// mapDiagnostics folds HCL evaluation diagnostics into the resolver's error
// taxonomy. The first error diagnostic wins; resolution aborts on it anyway.
func mapDiagnostics(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		switch diag.Summary {
		case "Unknown variable", "Unsupported attribute", "Variables not allowed", "Call to unknown function":
			return fmt.Errorf("%w: %s", ErrUnresolvedReference, diagText(diag))
		case "Not enough function arguments", "Too many function arguments":
			return fmt.Errorf("%w: %s", funcs.ErrArityMismatch, diagText(diag))
		case "Error in function call":
			// Unwrap the error returned by a user function body so that
			// references unresolved inside the body keep their identity.
			if extra, ok := diag.Extra.(hclsyntax.FunctionCallDiagExtra); ok {
				if callErr := extra.FunctionCallError(); callErr != nil {
					var nested hcl.Diagnostics
					if errors.As(callErr, &nested) {
						return fmt.Errorf("in call to %q: %w",
							extra.CalledFunctionName(), mapDiagnostics(nested))
					}
					return fmt.Errorf("in call to %q: %w", extra.CalledFunctionName(), callErr)
				}
			}
		}
	}
	return diags
}

func diagText(diag *hcl.Diagnostic) string {
	if diag.Detail != "" {
		return diag.Detail
	}
	return diag.Summary
}

// DefaultString evaluates a variable default expression. Defaults may use
// builtin functions but cannot reference other variables; the store does
// not exist yet when defaults are resolved.
func DefaultString(expr hcl.Expression) (string, error) {
	scope := &hcl.EvalContext{Functions: funcs.Builtins()}
	value, diags := expr.Value(scope)
	if diags.HasErrors() {
		return "", mapDiagnostics(diags)
	}
	if value.IsNull() {
		return "", nil
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert default to string: %w", err)
	}
	return converted.AsString(), nil
}
