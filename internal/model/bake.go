package model

import (
	"github.com/hashicorp/hcl/v2"
)

// Variable is a declared bake variable. The default stays unevaluated so it
// may use builtin functions; it is resolved when the variable store is built.
type Variable struct {
	Name    string
	Default hcl.Expression // nil when no default was declared
}

// Function is a user-defined tag/value generator: positional parameters and
// a single templated result expression.
type Function struct {
	Name   string
	Params []string
	Result hcl.Expression
}

// Target is a single buildable unit as declared, before inheritance
// flattening. Scalar attributes and the tags sequence are kept as whole
// expressions; mappings are pre-split per key so layers can merge key-wise.
type Target struct {
	Name       string
	Inherits   []string // base-first
	Dockerfile hcl.Expression
	Context    hcl.Expression
	Stage      hcl.Expression // the `target` attribute: dockerfile stage selector
	Labels     map[string]hcl.Expression
	Args       map[string]hcl.Expression
	Tags       hcl.Expression
}

// Group is a named collection of target (or nested group) names.
type Group struct {
	Name    string
	Targets []string
}

// Bake is the aggregated declaration set from all loaded files.
type Bake struct {
	Variables []*Variable
	Functions []*Function
	Targets   map[string]*Target
	Groups    map[string]*Group
}

// NewBake creates and returns an initialized, empty declaration set.
func NewBake() *Bake {
	return &Bake{
		Targets: make(map[string]*Target),
		Groups:  make(map[string]*Group),
	}
}
