package resolver

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/bakeplan/internal/model"
)

// mergeKind classifies how an attribute combines across inheritance layers.
type mergeKind int

const (
	mergeScalar   mergeKind = iota // last writer wins, full replace
	mergeMapping                   // key-wise merge, later layer wins per key
	mergeSequence                  // wholesale replace by the most specific layer
)

// mergePolicy is the per-attribute merge rule table. A single routine
// consults it instead of special-casing attribute names at merge sites.
var mergePolicy = map[string]mergeKind{
	"dockerfile": mergeScalar,
	"context":    mergeScalar,
	"target":     mergeScalar,
	"labels":     mergeMapping,
	"args":       mergeMapping,
	"tags":       mergeSequence,
}

// rawTarget is the pre-evaluation merge accumulator: one layer's worth of
// unevaluated attribute expressions, addressable by attribute name so the
// policy table can drive the merge.
type rawTarget struct {
	scalars   map[string]hcl.Expression
	mappings  map[string]map[string]hcl.Expression
	sequences map[string]hcl.Expression
}

func newRawTarget() *rawTarget {
	return &rawTarget{
		scalars:   make(map[string]hcl.Expression),
		mappings:  make(map[string]map[string]hcl.Expression),
		sequences: make(map[string]hcl.Expression),
	}
}

// ownLayer lifts a declared target's direct attributes into a merge layer.
func ownLayer(t *model.Target) *rawTarget {
	layer := newRawTarget()
	if t.Dockerfile != nil {
		layer.scalars["dockerfile"] = t.Dockerfile
	}
	if t.Context != nil {
		layer.scalars["context"] = t.Context
	}
	if t.Stage != nil {
		layer.scalars["target"] = t.Stage
	}
	if t.Labels != nil {
		layer.mappings["labels"] = t.Labels
	}
	if t.Args != nil {
		layer.mappings["args"] = t.Args
	}
	if t.Tags != nil {
		layer.sequences["tags"] = t.Tags
	}
	return layer
}

// mergeLayers combines two layers per the policy table, with the later
// layer overriding or merging into the earlier one.
func mergeLayers(earlier, later *rawTarget) *rawTarget {
	out := newRawTarget()
	for attr, kind := range mergePolicy {
		switch kind {
		case mergeScalar:
			if expr, ok := earlier.scalars[attr]; ok {
				out.scalars[attr] = expr
			}
			if expr, ok := later.scalars[attr]; ok {
				out.scalars[attr] = expr
			}
		case mergeMapping:
			merged := make(map[string]hcl.Expression)
			for key, expr := range earlier.mappings[attr] {
				merged[key] = expr
			}
			for key, expr := range later.mappings[attr] {
				merged[key] = expr
			}
			if len(merged) > 0 {
				out.mappings[attr] = merged
			}
		case mergeSequence:
			if expr, ok := earlier.sequences[attr]; ok {
				out.sequences[attr] = expr
			}
			if expr, ok := later.sequences[attr]; ok {
				out.sequences[attr] = expr
			}
		}
	}
	return out
}
