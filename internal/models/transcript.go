package models

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType discriminates the atomic transcript units inside a message.
type PartType string

const (
	PartText       PartType = "text"
	PartTool       PartType = "tool"
	PartPatch      PartType = "patch"
	PartReasoning  PartType = "reasoning"
	PartStepStart  PartType = "step-start"
	PartStepFinish PartType = "step-finish"
	PartFile       PartType = "file"
)

// ToolStatus is the lifecycle state of a tool invocation.
type ToolStatus string

const (
	ToolStatusPending   ToolStatus = "pending"
	ToolStatusRunning   ToolStatus = "running"
	ToolStatusCompleted ToolStatus = "completed"
	ToolStatusError     ToolStatus = "error"
)

// SessionInfo is the metadata for one recorded agent session. It is owned by
// the transcript store and read-only to the analysis engine.
type SessionInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"` // unix milliseconds
	UpdatedAt int64  `json:"updated_at"` // unix milliseconds
}

// Message is one turn in a session transcript. Immutable once recorded.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	AgentName string `json:"agent_name,omitempty"`
	ModelID   string `json:"model_id,omitempty"`
	CreatedAt int64  `json:"created_at"` // unix milliseconds
}

// Part is an atomic unit inside a message: text, a tool invocation, a patch,
// reasoning, or one of the structural kinds the engine ignores.
type Part struct {
	ID        string     `json:"id"`
	Type      PartType   `json:"type"`
	Timestamp int64      `json:"timestamp,omitempty"` // unix ms; 0 means "use the message's CreatedAt"
	Text      string     `json:"text,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	Output    string     `json:"output,omitempty"`
	Status    ToolStatus `json:"status,omitempty"`
}

// MessageWithParts pairs a message with its ordered parts. This is the sole
// transcript format the engine understands.
type MessageWithParts struct {
	Info  Message `json:"info"`
	Parts []Part  `json:"parts"`
}
