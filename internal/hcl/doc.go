// Package hcl loads bake files from disk and translates them into the
// format-agnostic model. Attribute values are kept as raw expressions; only
// structural parts that must be static (inherits lists, group members,
// function parameter names, mapping keys) are decoded here.
package hcl
