package model

// EffectiveTarget is the flattened, fully-resolved form of a Target. Every
// field holds only literal values; this is the unit handed to the build
// backend, one build invocation per record. The JSON shape matches the plan
// output printed by the CLI.
type EffectiveTarget struct {
	Name       string            `json:"name"`
	Dockerfile string            `json:"dockerfile"`
	Context    string            `json:"context"`
	Stage      string            `json:"target,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	Args       map[string]string `json:"args,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
}
