// Package timeline normalizes a session's messages-with-parts into a flat,
// time-ordered sequence of typed events. It is the only producer of
// [models.TimelineEvent] values; every evaluator consumes its output and
// nothing else.
package timeline

import (
	"sort"
	"strings"

	"github.com/agentlint/agentlint/internal/models"
)

// Build converts messages-with-parts into an ordered timeline.
//
// Each message yields exactly one message-level event carrying the message's
// full text and the set of tool names referenced by its parts. Each part of a
// recognized type (tool, patch, reasoning, text) yields one part-level event,
// timestamped with the part's own timestamp when present and the parent
// message's creation time otherwise. Parts of other types are dropped.
//
// The result is sorted ascending by timestamp. On equal timestamps a message
// event precedes its own parts' events and parts keep declaration order. An
// empty or nil input yields an empty timeline, not an error.
func Build(messages []models.MessageWithParts) []models.TimelineEvent {
	var events []models.TimelineEvent

	for _, mp := range messages {
		msg := mp.Info

		kind := models.EventAssistantMessage
		if msg.Role == models.RoleUser {
			kind = models.EventUserMessage
		}

		events = append(events, models.TimelineEvent{
			Timestamp: msg.CreatedAt,
			Kind:      kind,
			AgentName: msg.AgentName,
			ModelID:   msg.ModelID,
			MessageID: msg.ID,
			Text:      messageText(mp.Parts),
			ToolNames: referencedTools(mp.Parts),
		})

		for _, part := range mp.Parts {
			evt, ok := partEvent(msg, part)
			if ok {
				events = append(events, evt)
			}
		}
	}

	// The slice is already in message order with each message preceding its
	// own parts, so a stable sort on timestamp alone preserves the tie-break.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	return events
}

// partEvent maps one part to its timeline event. The second return value is
// false for part types the engine does not track (step-start, step-finish,
// file) and for unrecognized types.
func partEvent(msg models.Message, part models.Part) (models.TimelineEvent, bool) {
	ts := part.Timestamp
	if ts == 0 {
		ts = msg.CreatedAt
	}

	evt := models.TimelineEvent{
		Timestamp: ts,
		AgentName: msg.AgentName,
		ModelID:   msg.ModelID,
		MessageID: msg.ID,
		PartID:    part.ID,
	}

	switch part.Type {
	case models.PartTool:
		evt.Kind = models.EventToolCall
		evt.Tool = &models.ToolCallPayload{
			ToolName: part.ToolName,
			Input:    part.Input,
			Output:   part.Output,
			Status:   part.Status,
		}
	case models.PartPatch:
		evt.Kind = models.EventPatch
		evt.Text = part.Text
	case models.PartReasoning:
		evt.Kind = models.EventReasoning
		evt.Text = part.Text
	case models.PartText:
		evt.Kind = models.EventText
		evt.Text = part.Text
	default:
		return models.TimelineEvent{}, false
	}

	return evt, true
}

// messageText concatenates the text parts of a message.
func messageText(parts []models.Part) string {
	var segments []string
	for _, p := range parts {
		if p.Type == models.PartText && p.Text != "" {
			segments = append(segments, p.Text)
		}
	}
	return strings.Join(segments, "\n")
}

// referencedTools returns the distinct tool names used by a message's parts,
// in first-use order.
func referencedTools(parts []models.Part) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, p := range parts {
		if p.Type != models.PartTool || p.ToolName == "" {
			continue
		}
		if _, ok := seen[p.ToolName]; ok {
			continue
		}
		seen[p.ToolName] = struct{}{}
		names = append(names, p.ToolName)
	}
	return names
}

// FirstUserText returns the text of the earliest user message, or "" when the
// timeline has none.
func FirstUserText(events []models.TimelineEvent) string {
	for i := range events {
		if events[i].Kind == models.EventUserMessage {
			return events[i].Text
		}
	}
	return ""
}

// ToolEvents returns the tool_call events in timeline order, skipping events
// with a missing tool name (tolerated as uninformative, per the engine's
// degraded-input policy).
func ToolEvents(events []models.TimelineEvent) []models.TimelineEvent {
	var calls []models.TimelineEvent
	for i := range events {
		if events[i].Kind == models.EventToolCall && events[i].Tool != nil && events[i].Tool.ToolName != "" {
			calls = append(calls, events[i])
		}
	}
	return calls
}

// ToolsUsed returns the distinct tool names invoked across the timeline, in
// first-use order.
func ToolsUsed(events []models.TimelineEvent) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, evt := range ToolEvents(events) {
		name := evt.Tool.ToolName
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
