// Package engine runs conversational turns for a single persona: prompt
// assembly from the persona's memory channel, streaming model output, and the
// capability-call loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/roadbite/roadbite/internal/capability"
	"github.com/roadbite/roadbite/internal/memory"
	"github.com/roadbite/roadbite/internal/model/chat"
	"github.com/roadbite/roadbite/internal/model/persona"
)

// Config tunes turn execution. Zero values fall back to defaults.
type Config struct {
	// MaxToolRounds bounds how many capability rounds a single turn may run
	// before the turn is failed, guarding against tool-call loops.
	MaxToolRounds int
	// HistoryLimit is the number of memory messages included in the prompt
	// window. Memory itself is unbounded.
	HistoryLimit int
}

const (
	defaultMaxToolRounds = 8
	defaultHistoryLimit  = 30
)

// Engine binds one persona to a chat model restricted to the persona's
// capability subset. Turns are single-pass: each StreamTurn call is one or
// more billed model invocations and cannot be replayed.
type Engine struct {
	persona       persona.Persona
	chatModel     model.ChatModel
	executor      *capability.Executor
	memory        *memory.Store
	maxToolRounds int
	historyLimit  int
}

// New builds an engine and binds the persona's capabilities to the model.
func New(p persona.Persona, chatModel model.ChatModel, exec *capability.Executor, store *memory.Store, cfg Config) (*Engine, error) {
	if len(p.Capabilities) > 0 {
		infos, err := capability.ToolInfos(p.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("persona %s: %w", p.ID, err)
		}
		if err := chatModel.BindTools(infos); err != nil {
			return nil, fmt.Errorf("persona %s: bind capabilities: %w", p.ID, err)
		}
	}

	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = defaultMaxToolRounds
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	return &Engine{
		persona:       p,
		chatModel:     chatModel,
		executor:      exec,
		memory:        store,
		maxToolRounds: cfg.MaxToolRounds,
		historyLimit:  cfg.HistoryLimit,
	}, nil
}

// Persona returns the bound persona definition.
func (e *Engine) Persona() persona.Persona {
	return e.persona
}

// StreamTurn runs one conversational turn for the session. The utterance is
// recorded before the model call, so a failed turn still keeps it; everything
// else (assistant text, capability invocation/result pairs) is appended as the
// turn progresses. Events reach the sink in model-output order.
func (e *Engine) StreamTurn(ctx context.Context, sessionID, utterance string, emit chat.Sink) error {
	e.memory.Append(e.persona.ID, sessionID, schema.UserMessage(utterance))

	for round := 0; round < e.maxToolRounds; round++ {
		stream, err := e.chatModel.Stream(ctx, e.buildPrompt(sessionID))
		if err != nil {
			return fmt.Errorf("model invocation for persona %s: %w", e.persona.ID, err)
		}

		chunks, err := e.relay(ctx, sessionID, stream, emit)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}

		reply, err := schema.ConcatMessages(chunks)
		if err != nil {
			return fmt.Errorf("assemble model reply: %w", err)
		}

		e.memory.Append(e.persona.ID, sessionID, reply)
		if len(reply.ToolCalls) == 0 {
			return nil
		}

		for _, tc := range reply.ToolCalls {
			if err := e.invokeCapability(ctx, sessionID, tc, emit); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("persona %s exceeded %d capability rounds in one turn", e.persona.ID, e.maxToolRounds)
}

// relay forwards stream chunks to the sink and collects them for reassembly.
// The stream is always drained or closed before returning.
func (e *Engine) relay(ctx context.Context, sessionID string, stream *schema.StreamReader[*schema.Message], emit chat.Sink) ([]*schema.Message, error) {
	defer stream.Close()

	var chunks []*schema.Message
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}
		if err != nil {
			return nil, fmt.Errorf("model stream for persona %s: %w", e.persona.ID, err)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			emit(chat.Event{
				Kind:      chat.EventText,
				SessionID: sessionID,
				PersonaID: e.persona.ID,
				Content:   chunk.Content,
			})
		}
	}
}

// invokeCapability suspends token emission for one capability call, records
// the invocation/result pair, and surfaces both (plus any hand-off) as events.
func (e *Engine) invokeCapability(ctx context.Context, sessionID string, tc schema.ToolCall, emit chat.Sink) error {
	name := tc.Function.Name
	emit(chat.Event{Kind: chat.EventToolCall, SessionID: sessionID, PersonaID: e.persona.ID, Tool: name})

	res, err := e.executor.Execute(ctx, sessionID, tc)
	if err != nil {
		// Malformed invocations are still reported to the model as results;
		// only the capability layer decides what is fatal.
		log.Printf("[engine] capability %s failed for session=%s persona=%s: %v", name, sessionID, e.persona.ID, err)
		res = capability.Result{Content: fmt.Sprintf("error: %v", err)}
	}

	emit(chat.Event{Kind: chat.EventToolResult, SessionID: sessionID, PersonaID: e.persona.ID, Tool: name, Content: res.Content})
	if res.Handoff != nil {
		log.Printf("[engine] session=%s handed off from %s to %s", sessionID, e.persona.ID, res.Handoff.Target)
		emit(chat.Event{Kind: chat.EventHandoff, SessionID: sessionID, PersonaID: e.persona.ID, Target: res.Handoff.Target})
	}

	e.memory.Append(e.persona.ID, sessionID, schema.ToolMessage(res.Content, tc.ID, schema.WithToolName(name)))
	return nil
}

// buildPrompt assembles instructions plus the windowed memory channel. The
// window never starts on an orphaned tool result.
func (e *Engine) buildPrompt(sessionID string) []*schema.Message {
	history := e.memory.History(e.persona.ID, sessionID)
	if len(history) > e.historyLimit {
		history = history[len(history)-e.historyLimit:]
		for len(history) > 0 && history[0].Role == schema.Tool {
			history = history[1:]
		}
	}

	msgs := make([]*schema.Message, 0, len(history)+1)
	msgs = append(msgs, schema.SystemMessage(e.persona.Instructions))
	return append(msgs, history...)
}
