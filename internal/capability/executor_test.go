package capability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/roadbite/roadbite/internal/capability"
	"github.com/roadbite/roadbite/internal/gateway"
	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/internal/routing"
)

func newFixture(t *testing.T, backend http.HandlerFunc) (*capability.Executor, *routing.SessionRouter) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	router := routing.New(persona.NewMemoryStore(persona.Seed()), nil)
	orders := gateway.NewOrderClient(srv.URL, 5*time.Second)
	return capability.NewExecutor(orders, router), router
}

func call(name, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:       "call-1",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}
}

func TestSwitchToRestaurantActivatesPersona(t *testing.T) {
	exec, router := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	res, err := exec.Execute(ctx, "s1", call(capability.SwitchToRestaurant, `{"restaurant":"burger"}`))
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if res.Handoff == nil || res.Handoff.Target != persona.BurgerID {
		t.Fatalf("expected handoff to burger, got %+v", res.Handoff)
	}
	if got := router.ActivePersona(ctx, "s1"); got != persona.BurgerID {
		t.Fatalf("router not updated: got %s", got)
	}
}

func TestSwitchToUnknownPersonaIsRecoverable(t *testing.T) {
	exec, router := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	res, err := exec.Execute(ctx, "s1", call(capability.SwitchToRestaurant, `{"restaurant":"sushi"}`))
	if err != nil {
		t.Fatalf("unknown persona should not fail the turn: %v", err)
	}
	if res.Handoff != nil {
		t.Fatalf("no handoff expected, got %+v", res.Handoff)
	}
	if !strings.Contains(res.Content, "error") {
		t.Fatalf("result should indicate an error, got %q", res.Content)
	}
	if got := router.ActivePersona(ctx, "s1"); got != persona.OrchestratorID {
		t.Fatalf("mapping changed on failed handoff: %s", got)
	}
}

func TestCompleteOrderReturnsToOrchestrator(t *testing.T) {
	exec, router := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	if err := router.Activate(ctx, "s1", persona.BurgerID); err != nil {
		t.Fatalf("Activate err: %v", err)
	}

	res, err := exec.Execute(ctx, "s1", call(capability.CompleteOrder, ""))
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if res.Handoff == nil || res.Handoff.Target != persona.OrchestratorID {
		t.Fatalf("expected handoff to orchestrator, got %+v", res.Handoff)
	}
	if got := router.ActivePersona(ctx, "s1"); got != persona.OrchestratorID {
		t.Fatalf("router not reverted: got %s", got)
	}
}

func TestGetMenuBackendFailureBecomesResult(t *testing.T) {
	exec, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	res, err := exec.Execute(context.Background(), "s1", call(capability.GetMenu, `{"restaurant":"pizza"}`))
	if err != nil {
		t.Fatalf("backend failure should be recoverable: %v", err)
	}
	if !strings.Contains(res.Content, "error") {
		t.Fatalf("result should carry an error indicator, got %q", res.Content)
	}
}

func TestGetNearbyRestaurantsListsDirectory(t *testing.T) {
	exec, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	res, err := exec.Execute(context.Background(), "s1", call(capability.GetNearbyRestaurants, ""))
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	for _, name := range []string{"Pizza Palace", "Burger House", "Fresh Greens"} {
		if !strings.Contains(res.Content, name) {
			t.Fatalf("directory missing %s: %q", name, res.Content)
		}
	}
}

func TestUnknownCapabilityFails(t *testing.T) {
	exec, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := exec.Execute(context.Background(), "s1", call("reserve_table", "{}")); err == nil {
		t.Fatal("expected error for unknown capability")
	}
}

func TestToolInfosSelectsSubsets(t *testing.T) {
	infos, err := capability.ToolInfos([]string{capability.GetMenu, capability.CompleteOrder})
	if err != nil {
		t.Fatalf("ToolInfos err: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != capability.GetMenu {
		t.Fatalf("unexpected infos: %+v", infos)
	}

	if _, err := capability.ToolInfos([]string{"teleport"}); err == nil {
		t.Fatal("expected error for unknown capability name")
	}
}
