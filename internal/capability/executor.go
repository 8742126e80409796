package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"

	"github.com/roadbite/roadbite/internal/gateway"
	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/internal/routing"
)

// Handoff reports a control transfer requested by a capability call, so the
// turn coordinator can react deterministically instead of polling router state.
type Handoff struct {
	Target string
}

// Result is the outcome of one capability invocation. Content is what the
// model sees as the tool result; Handoff is non-nil when the call moved the
// session to another persona.
type Result struct {
	Content string
	Handoff *Handoff
}

// Executor dispatches model tool calls to the order gateway and the session
// router. Recoverable failures (unknown target persona, backend errors) come
// back as an error-indicating Content so the model can apologize or retry
// conversationally; only malformed invocations return a Go error.
type Executor struct {
	orders *gateway.OrderClient
	router *routing.SessionRouter
}

// NewExecutor wires the executor to its collaborators.
func NewExecutor(orders *gateway.OrderClient, router *routing.SessionRouter) *Executor {
	return &Executor{orders: orders, router: router}
}

// Execute runs one capability call on behalf of the session.
func (e *Executor) Execute(ctx context.Context, sessionID string, call schema.ToolCall) (Result, error) {
	switch call.Function.Name {
	case GetMenu:
		return e.getMenu(ctx, call.Function.Arguments)
	case PlaceOrder:
		return e.placeOrder(ctx, call.Function.Arguments)
	case CompleteOrder:
		return e.handoff(ctx, sessionID, persona.OrchestratorID,
			"Order completed successfully. Returning to main menu.")
	case SwitchToRestaurant:
		var args struct {
			Restaurant string `json:"restaurant"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return Result{}, fmt.Errorf("parse %s arguments: %w", SwitchToRestaurant, err)
		}
		return e.handoff(ctx, sessionID, args.Restaurant,
			fmt.Sprintf("Switching to %s. The specialist will take it from here.", args.Restaurant))
	case GetNearbyRestaurants:
		return Result{Content: nearbyRestaurants()}, nil
	default:
		return Result{}, fmt.Errorf("unknown capability %q", call.Function.Name)
	}
}

func (e *Executor) getMenu(ctx context.Context, rawArgs string) (Result, error) {
	var args struct {
		Restaurant string `json:"restaurant"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{}, fmt.Errorf("parse %s arguments: %w", GetMenu, err)
	}

	menu, err := e.orders.FetchMenu(ctx, args.Restaurant)
	if err != nil {
		log.Printf("[capability] get_menu failed for restaurant=%s: %v", args.Restaurant, err)
		return Result{Content: fmt.Sprintf("error: could not fetch the menu (%v)", err)}, nil
	}
	return Result{Content: string(menu)}, nil
}

func (e *Executor) placeOrder(ctx context.Context, rawArgs string) (Result, error) {
	var args struct {
		Restaurant string              `json:"restaurant"`
		Items      []gateway.OrderItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{}, fmt.Errorf("parse %s arguments: %w", PlaceOrder, err)
	}

	confirmation, err := e.orders.PlaceOrder(ctx, args.Restaurant, args.Items)
	if err != nil {
		log.Printf("[capability] place_order failed for restaurant=%s: %v", args.Restaurant, err)
		return Result{Content: fmt.Sprintf("error: the order could not be placed (%v)", err)}, nil
	}
	return Result{Content: string(confirmation)}, nil
}

// handoff moves the session to the target persona. An unknown target is
// reported back to the model as a no-op rather than failing the turn.
func (e *Executor) handoff(ctx context.Context, sessionID, target, confirmation string) (Result, error) {
	if err := e.router.Activate(ctx, sessionID, target); err != nil {
		if errors.Is(err, routing.ErrUnknownPersona) {
			log.Printf("[capability] handoff to unknown persona %q for session=%s", target, sessionID)
			return Result{Content: fmt.Sprintf("error: %q is not an available specialist, staying put", target)}, nil
		}
		return Result{}, err
	}
	return Result{Content: confirmation, Handoff: &Handoff{Target: target}}, nil
}
