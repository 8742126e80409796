package routing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/internal/routing"
)

func newRouter() *routing.SessionRouter {
	return routing.New(persona.NewMemoryStore(persona.Seed()), nil)
}

func TestActivePersonaDefaultsToOrchestrator(t *testing.T) {
	r := newRouter()
	ctx := context.Background()

	if got := r.ActivePersona(ctx, "fresh-session"); got != persona.OrchestratorID {
		t.Fatalf("unexpected default persona: got %s want %s", got, persona.OrchestratorID)
	}
}

func TestActivateLastWriteWins(t *testing.T) {
	r := newRouter()
	ctx := context.Background()

	if err := r.Activate(ctx, "s1", persona.BurgerID); err != nil {
		t.Fatalf("Activate err: %v", err)
	}
	if err := r.Activate(ctx, "s1", persona.PizzaID); err != nil {
		t.Fatalf("Activate err: %v", err)
	}

	if got := r.ActivePersona(ctx, "s1"); got != persona.PizzaID {
		t.Fatalf("unexpected active persona: got %s want %s", got, persona.PizzaID)
	}
}

func TestActivateUnknownPersonaLeavesMapping(t *testing.T) {
	r := newRouter()
	ctx := context.Background()

	if err := r.Activate(ctx, "s1", persona.SaladID); err != nil {
		t.Fatalf("Activate err: %v", err)
	}

	err := r.Activate(ctx, "s1", "sushi")
	if !errors.Is(err, routing.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}

	if got := r.ActivePersona(ctx, "s1"); got != persona.SaladID {
		t.Fatalf("mapping changed after failed activate: got %s", got)
	}
}

func TestSessionIsolation(t *testing.T) {
	r := newRouter()
	ctx := context.Background()

	if err := r.Activate(ctx, "a", persona.BurgerID); err != nil {
		t.Fatalf("Activate err: %v", err)
	}

	if got := r.ActivePersona(ctx, "b"); got != persona.OrchestratorID {
		t.Fatalf("session b affected by session a: got %s", got)
	}
}
