// Package schema defines the HCL block structures of a bake file for
// decoding with gohcl. Attribute values are captured as raw expressions;
// evaluation happens later, against the frozen resolve scope.
//
// Optional attributes are not declared as struct fields: gohcl substitutes
// a synthesized null expression for an absent optional expression field,
// which is indistinguishable from a declared null downstream. Blocks that
// carry optional attributes keep their body as `hcl:",remain"` instead, and
// the loader reads it with the body schemas below so absent stays absent.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// VariableBlock represents a `variable "NAME" { default = ... }` block.
type VariableBlock struct {
	Name   string   `hcl:"name,label"`
	Config hcl.Body `hcl:",remain"`
}

// VariableSchema lists the attributes a variable block may carry.
var VariableSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
	},
}

// FunctionBlock represents a user-defined function. Params is written as a
// list of bare identifiers (params = [target]), so it is captured as an
// expression and decoded structurally by the loader. Both attributes are
// required, so gohcl decoding is safe here.
type FunctionBlock struct {
	Name   string         `hcl:"name,label"`
	Params hcl.Expression `hcl:"params"`
	Result hcl.Expression `hcl:"result"`
}

// GroupBlock represents a named collection of target or group names.
type GroupBlock struct {
	Name    string   `hcl:"name,label"`
	Targets []string `hcl:"targets"`
}

// TargetBlock represents a single build target declaration. Every attribute
// except inherits is optional, so the body is kept raw and read against
// TargetSchema.
type TargetBlock struct {
	Name     string   `hcl:"name,label"`
	Inherits []string `hcl:"inherits,optional"`
	Config   hcl.Body `hcl:",remain"`
}

// TargetSchema lists the attributes a target block may carry. The `target`
// attribute selects a dockerfile stage, mirroring the build backend's flag.
var TargetSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "dockerfile"},
		{Name: "context"},
		{Name: "target"},
		{Name: "labels"},
		{Name: "args"},
		{Name: "tags"},
	},
}

// BakeFile represents the top-level structure of a single bake file.
type BakeFile struct {
	Variables []*VariableBlock `hcl:"variable,block"`
	Functions []*FunctionBlock `hcl:"function,block"`
	Groups    []*GroupBlock    `hcl:"group,block"`
	Targets   []*TargetBlock   `hcl:"target,block"`
}
