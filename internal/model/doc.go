// Package model holds the format-agnostic declaration set loaded from a
// user's bake files.
//
// The model deliberately keeps attribute values as raw hcl.Expression
// handles rather than evaluated strings. Inheritance flattening must merge
// attributes before evaluation (a key overridden in a later layer must never
// be evaluated from the earlier layer), so expressions stay unevaluated
// until the resolver produces an EffectiveTarget.
//
// Everything in this package is declared once at parse time and treated as
// read-only afterwards. The one exception is the derived EffectiveTarget,
// which is produced fresh for every flatten and handed to the build backend
// by value.
package model
