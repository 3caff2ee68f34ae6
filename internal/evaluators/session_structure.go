package evaluators

import (
	"context"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// sessionStructureEvaluator is an auxiliary sanity check over transcript
// shape: the session opens with a user message, user turns get assistant
// responses, and timestamps never run backwards. An empty timeline passes;
// downstream rules must tolerate empty sessions and so does this one.
type sessionStructureEvaluator struct{}

// NewSessionStructureEvaluator creates the session-structure evaluator.
func NewSessionStructureEvaluator() *sessionStructureEvaluator {
	return &sessionStructureEvaluator{}
}

func (e *sessionStructureEvaluator) Name() string { return classify.EvaluatorSessionStructure }

func (e *sessionStructureEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	events := ec.Timeline
	if len(events) == 0 {
		return buildResult(e.Name(), nil, nil), nil
	}

	var checks []models.Check
	var violations []models.Violation

	opensWithUser := events[0].Kind == models.EventUserMessage
	checks = append(checks, models.Check{
		Name:   "opens-with-user-message",
		Passed: opensWithUser,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "transcript-shape",
			Description: "first timeline event kind",
			Timestamp:   events[0].Timestamp,
			Data:        map[string]any{"first_kind": string(events[0].Kind)},
		}},
	})
	if !opensWithUser {
		violations = append(violations, models.Violation{
			Kind:      models.ViolationMalformedTranscript,
			Severity:  models.SeverityWarning,
			Message:   "transcript does not open with a user message",
			Timestamp: events[0].Timestamp,
			Evidence: models.Evidence{
				Kind:        "transcript-shape",
				Description: "first event is not user_message",
				Timestamp:   events[0].Timestamp,
				Data:        map[string]any{"first_kind": string(events[0].Kind)},
			},
		})
	}

	hasUser, hasAssistant := false, false
	for i := range events {
		switch events[i].Kind {
		case models.EventUserMessage:
			hasUser = true
		case models.EventAssistantMessage:
			hasAssistant = true
		}
	}
	responded := !hasUser || hasAssistant
	checks = append(checks, models.Check{
		Name:   "assistant-responded",
		Passed: responded,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "transcript-shape",
			Description: "user turns answered by at least one assistant message",
			Data:        map[string]any{"has_user": hasUser, "has_assistant": hasAssistant},
		}},
	})
	if !responded {
		violations = append(violations, models.Violation{
			Kind:     models.ViolationMalformedTranscript,
			Severity: models.SeverityWarning,
			Message:  "the user spoke but no assistant message exists",
			Evidence: models.Evidence{
				Kind:        "transcript-shape",
				Description: "no assistant_message event in the timeline",
				Data:        map[string]any{"has_user": hasUser},
			},
		})
	}

	monotonic := true
	var badAt int64
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp < events[i-1].Timestamp {
			monotonic = false
			badAt = events[i].Timestamp
			break
		}
	}
	checks = append(checks, models.Check{
		Name:   "timestamps-monotonic",
		Passed: monotonic,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "transcript-shape",
			Description: "timeline timestamps checked for ordering",
			Data:        map[string]any{"monotonic": monotonic},
		}},
	})
	if !monotonic {
		violations = append(violations, models.Violation{
			Kind:      models.ViolationMalformedTranscript,
			Severity:  models.SeverityInfo,
			Message:   "timeline timestamps are not monotonically non-decreasing",
			Timestamp: badAt,
			Evidence: models.Evidence{
				Kind:        "transcript-shape",
				Description: "an event carries a timestamp earlier than its predecessor",
				Timestamp:   badAt,
			},
		})
	}

	return buildResult(e.Name(), checks, violations), nil
}
