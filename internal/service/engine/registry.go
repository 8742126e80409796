package engine

import (
	"fmt"

	"github.com/roadbite/roadbite/internal/routing"
)

// Registry maps persona ids to their engines. Populated once at process start;
// no mutation afterwards.
type Registry struct {
	engines map[string]*Engine
}

// NewRegistry builds a registry over the given engines.
func NewRegistry(engines ...*Engine) *Registry {
	m := make(map[string]*Engine, len(engines))
	for _, e := range engines {
		m[e.Persona().ID] = e
	}
	return &Registry{engines: m}
}

// Resolve returns the engine serving the persona, or ErrUnknownPersona for
// unregistered ids.
func (r *Registry) Resolve(personaID string) (*Engine, error) {
	e, ok := r.engines[personaID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", routing.ErrUnknownPersona, personaID)
	}
	return e, nil
}
