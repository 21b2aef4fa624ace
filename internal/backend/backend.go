// Package backend hands finished plans to the container build backend. The
// resolver's whole contract with the backend is an immutable ordered plan;
// everything past that point (layer caching, registry push, auth) belongs
// to the external tool.
package backend

import (
	"context"
	"encoding/json"
	"io"

	"github.com/vk/bakeplan/internal/model"
)

// Backend builds one image per effective target, consuming the resolved
// values verbatim.
type Backend interface {
	Build(ctx context.Context, target model.EffectiveTarget) error
}

// planDocument is the printed plan shape.
type planDocument struct {
	Targets []model.EffectiveTarget `json:"target"`
}

// WritePlan renders the resolved plan as indented JSON.
func WritePlan(w io.Writer, targets []model.EffectiveTarget) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(planDocument{Targets: targets})
}
