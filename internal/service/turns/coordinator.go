// Package turns coordinates whole conversational turns across personas: it
// resolves the session's active persona, runs its engine, and when a hand-off
// lands mid-turn it immediately runs the receiving persona so the customer
// hears a greeting instead of silence.
package turns

import (
	"context"
	"log"

	"github.com/roadbite/roadbite/internal/model/chat"
	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/internal/routing"
	"github.com/roadbite/roadbite/internal/service/engine"
)

// continuationUtterance is the synthetic cue fed to a persona that just
// received a hand-off. It is recorded in that persona's memory channel like
// any customer utterance.
const continuationUtterance = "The customer was just transferred to you. Greet them and pick up the conversation."

// Coordinator routes each turn to the session's active persona.
type Coordinator struct {
	router  *routing.SessionRouter
	engines *engine.Registry
}

// New builds a coordinator over the router and the engine registry.
func New(router *routing.SessionRouter, engines *engine.Registry) *Coordinator {
	return &Coordinator{router: router, engines: engines}
}

// RunTurn executes one customer turn. If the turn hands the session to a
// specialist, the specialist runs once more in the same turn with a synthetic
// continuation cue; that continuation is never chained, so a turn spans at
// most two personas. Hand-offs back to the orchestrator get no continuation -
// the orchestrator speaks on the customer's next turn.
//
// Turns for the same session must not run concurrently; callers serialize.
func (c *Coordinator) RunTurn(ctx context.Context, sessionID, message string, emit chat.Sink) error {
	before := c.router.ActivePersona(ctx, sessionID)
	eng, err := c.engines.Resolve(before)
	if err != nil {
		return err
	}

	if err := eng.StreamTurn(ctx, sessionID, message, emit); err != nil {
		return err
	}

	after := c.router.ActivePersona(ctx, sessionID)
	if after != before && after != persona.OrchestratorID {
		next, err := c.engines.Resolve(after)
		if err != nil {
			// The router only accepts known personas, so this means the
			// registry is missing an engine. Skip the continuation rather
			// than fail a turn that already produced output.
			log.Printf("[turns] session=%s no engine for hand-off target %s: %v", sessionID, after, err)
		} else {
			log.Printf("[turns] session=%s continuing as %s after hand-off from %s", sessionID, after, before)
			if err := next.StreamTurn(ctx, sessionID, continuationUtterance, emit); err != nil {
				return err
			}
		}
	}

	emit(chat.Event{Kind: chat.EventDone, SessionID: sessionID})
	return nil
}
