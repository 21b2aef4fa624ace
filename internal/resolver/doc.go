// Package resolver flattens a target's inheritance chain into a single
// effective attribute set and evaluates it into literal values.
//
// The chain is processed in declared order, base-first, with the target's
// own attributes applied last. How two layers combine depends only on the
// attribute kind, looked up in an explicit merge-policy table:
//
//   - scalar (dockerfile, context, target): last writer wins
//   - mapping (labels, args): merged key by key, later layer wins per key
//   - sequence (tags): replaced wholesale by the most specific layer
//
// Cycles in the inherits graph are rejected with a visited-set walk before
// any evaluation happens.
package resolver
