package chat

// EventKind discriminates the turn event union streamed out of a conversation
// turn. Text events carry model output in emission order; capability events are
// consumed by the coordinator for bookkeeping and are not shown to clients as
// raw data.
type EventKind string

const (
	EventText       EventKind = "text"
	EventToolCall   EventKind = "tool_call"
	EventToolResult EventKind = "tool_result"
	EventHandoff    EventKind = "handoff"
	EventDone       EventKind = "done"
)

// Event is the unit streamed from a turn to the transport layer.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"sessionId,omitempty"`
	PersonaID string    `json:"personaId,omitempty"`
	// Content holds text for EventText and the capability result payload for
	// EventToolResult.
	Content string `json:"content,omitempty"`
	// Tool names the capability for EventToolCall/EventToolResult.
	Tool string `json:"tool,omitempty"`
	// Target is the persona receiving control for EventHandoff.
	Target string `json:"target,omitempty"`
}

// Sink receives turn events as they are produced. Implementations must be
// cheap; the engine awaits each call before producing the next event.
type Sink func(Event)
