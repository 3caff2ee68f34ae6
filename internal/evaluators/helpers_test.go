package evaluators

import (
	"github.com/agentlint/agentlint/internal/models"
)

// Test timeline constructors. Timestamps are explicit so ordering assertions
// stay readable.

func userMsg(ts int64, text string) models.TimelineEvent {
	return models.TimelineEvent{
		Timestamp: ts,
		Kind:      models.EventUserMessage,
		Text:      text,
	}
}

func assistantMsg(ts int64, text string) models.TimelineEvent {
	return models.TimelineEvent{
		Timestamp: ts,
		Kind:      models.EventAssistantMessage,
		Text:      text,
	}
}

func toolCall(ts int64, name string, input map[string]any, status models.ToolStatus) models.TimelineEvent {
	return models.TimelineEvent{
		Timestamp: ts,
		Kind:      models.EventToolCall,
		PartID:    "part-" + name,
		Tool: &models.ToolCallPayload{
			ToolName: name,
			Input:    input,
			Status:   status,
		},
	}
}

func completedCall(ts int64, name string, input map[string]any) models.TimelineEvent {
	return toolCall(ts, name, input, models.ToolStatusCompleted)
}

func evalContext(tt models.TaskType, events ...models.TimelineEvent) *Context {
	return &Context{
		Timeline: events,
		TaskType: tt,
	}
}

func violationKinds(violations []models.Violation) []models.ViolationKind {
	kinds := make([]models.ViolationKind, 0, len(violations))
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}
