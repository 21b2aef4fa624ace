// Package app wires the resolve pipeline together: logger, bake file
// loading, variable/function setup, flattening, and plan emission. The
// pipeline is a single linear pass, Parse -> Validate -> Flatten -> Emit;
// any failure aborts the whole plan before anything reaches the backend.
package app
