package models

// EventKind identifies the type of a normalized timeline event.
type EventKind string

const (
	EventUserMessage      EventKind = "user_message"
	EventAssistantMessage EventKind = "assistant_message"
	EventToolCall         EventKind = "tool_call"
	EventPatch            EventKind = "patch"
	EventReasoning        EventKind = "reasoning"
	EventText             EventKind = "text"
)

// ToolCallPayload carries the tool-specific fields of a tool_call event.
type ToolCallPayload struct {
	ToolName string         `json:"tool_name"`
	Input    map[string]any `json:"input,omitempty"`
	Output   string         `json:"output,omitempty"`
	Status   ToolStatus     `json:"status"`
}

// TimelineEvent is the engine's normalized view of one transcript unit.
// Events are produced only by the timeline normalizer, are immutable, and are
// the sole input every evaluator sees.
type TimelineEvent struct {
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Kind      EventKind `json:"kind"`
	AgentName string    `json:"agent_name,omitempty"`
	ModelID   string    `json:"model_id,omitempty"`
	MessageID string    `json:"message_id"`
	PartID    string    `json:"part_id,omitempty"`

	// Text holds the message text for message-level events and the part text
	// for text/reasoning/patch events.
	Text string `json:"text,omitempty"`

	// ToolNames lists the tools referenced by a message's parts. Set only on
	// message-level events.
	ToolNames []string `json:"tool_names,omitempty"`

	// Tool is set only on tool_call events.
	Tool *ToolCallPayload `json:"tool,omitempty"`
}

// IsMessage reports whether the event is message-level.
func (e *TimelineEvent) IsMessage() bool {
	return e.Kind == EventUserMessage || e.Kind == EventAssistantMessage
}
