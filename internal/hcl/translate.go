package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/bakeplan/internal/model"
	"github.com/vk/bakeplan/internal/schema"
)

// translate converts one decoded file into model records, appending to the
// aggregated set. Target and group names are unique keys; a redeclaration
// across files is a hard error. Variable and function duplicates surface
// later, when the store and registry are populated.
//
// Optional attributes are read from the raw block bodies so that a model
// field is nil exactly when the bake file omits the attribute; the merge
// layers depend on that distinction.
func translate(file *schema.BakeFile, bake *model.Bake, path string) error {
	for _, v := range file.Variables {
		content, diags := v.Config.Content(schema.VariableSchema)
		if diags.HasErrors() {
			return fmt.Errorf("variable %q in %s: %w", v.Name, path, diags)
		}
		bake.Variables = append(bake.Variables, &model.Variable{
			Name:    v.Name,
			Default: attrExpr(content.Attributes, "default"),
		})
	}

	for _, fn := range file.Functions {
		params, err := paramNames(fn.Params)
		if err != nil {
			return fmt.Errorf("function %q in %s: %w", fn.Name, path, err)
		}
		bake.Functions = append(bake.Functions, &model.Function{
			Name:   fn.Name,
			Params: params,
			Result: fn.Result,
		})
	}

	for _, g := range file.Groups {
		if _, ok := bake.Groups[g.Name]; ok {
			return fmt.Errorf("duplicate group %q in %s", g.Name, path)
		}
		bake.Groups[g.Name] = &model.Group{Name: g.Name, Targets: g.Targets}
	}

	for _, t := range file.Targets {
		if _, ok := bake.Targets[t.Name]; ok {
			return fmt.Errorf("duplicate target %q in %s", t.Name, path)
		}
		content, diags := t.Config.Content(schema.TargetSchema)
		if diags.HasErrors() {
			return fmt.Errorf("target %q in %s: %w", t.Name, path, diags)
		}
		attrs := content.Attributes
		target := &model.Target{
			Name:       t.Name,
			Inherits:   t.Inherits,
			Dockerfile: attrExpr(attrs, "dockerfile"),
			Context:    attrExpr(attrs, "context"),
			Stage:      attrExpr(attrs, "target"),
			Tags:       attrExpr(attrs, "tags"),
		}
		var err error
		if target.Labels, err = mappingEntries(attrExpr(attrs, "labels")); err != nil {
			return fmt.Errorf("target %q in %s: labels: %w", t.Name, path, err)
		}
		if target.Args, err = mappingEntries(attrExpr(attrs, "args")); err != nil {
			return fmt.Errorf("target %q in %s: args: %w", t.Name, path, err)
		}
		bake.Targets[t.Name] = target
	}

	return nil
}

// attrExpr returns the expression of a present attribute, or nil when the
// body omits it.
func attrExpr(attrs hcl.Attributes, name string) hcl.Expression {
	if attr, ok := attrs[name]; ok {
		return attr.Expr
	}
	return nil
}

// paramNames decodes a function's params attribute, written as a list of
// bare identifiers: params = [target, tag].
func paramNames(expr hcl.Expression) ([]string, error) {
	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("params must be a list of parameter names: %w", diags)
	}
	names := make([]string, len(items))
	for i, item := range items {
		traversal, diags := hcl.AbsTraversalForExpr(item)
		if diags.HasErrors() || len(traversal) != 1 {
			return nil, fmt.Errorf("params must be bare identifiers, like [target]")
		}
		names[i] = traversal.RootName()
	}
	return names, nil
}

// mappingEntries splits a map-constructor expression into per-key value
// expressions, so inheritance can merge mappings key by key before any
// evaluation happens. Keys must be static.
func mappingEntries(expr hcl.Expression) (map[string]hcl.Expression, error) {
	if expr == nil {
		return nil, nil
	}
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("expected a mapping of string to string: %w", diags)
	}
	entries := make(map[string]hcl.Expression, len(pairs))
	for _, pair := range pairs {
		key, err := mappingKey(pair.Key)
		if err != nil {
			return nil, err
		}
		entries[key] = pair.Value
	}
	return entries, nil
}

func mappingKey(expr hcl.Expression) (string, error) {
	if value, diags := expr.Value(nil); !diags.HasErrors() && value.Type() == cty.String {
		return value.AsString(), nil
	}
	// Bare identifier keys: args = { IMAGE_TARGETS = "release" }.
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(traversal) == 1 {
		return traversal.RootName(), nil
	}
	return "", fmt.Errorf("mapping keys must be static strings")
}
