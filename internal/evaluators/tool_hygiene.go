package evaluators

import (
	"context"
	"fmt"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// toolHygieneEvaluator is an auxiliary check over tool-call lifecycles: every
// call should reach a terminal status, and failed calls should be
// acknowledged by the assistant at some point in the session.
type toolHygieneEvaluator struct{}

// NewToolHygieneEvaluator creates the tool-hygiene evaluator.
func NewToolHygieneEvaluator() *toolHygieneEvaluator { return &toolHygieneEvaluator{} }

func (e *toolHygieneEvaluator) Name() string { return classify.EvaluatorToolHygiene }

func (e *toolHygieneEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	var checks []models.Check
	var violations []models.Violation

	for i := range ec.Timeline {
		evt := &ec.Timeline[i]
		if evt.Kind != models.EventToolCall || evt.Tool == nil {
			continue
		}
		tool := evt.Tool.ToolName
		status := evt.Tool.Status

		terminal := status == models.ToolStatusCompleted || status == models.ToolStatusError
		checks = append(checks, models.Check{
			Name:   "tool-call-terminal",
			Passed: terminal,
			Weight: 1.0,
			Evidence: []models.Evidence{{
				Kind:        "tool-status",
				Description: fmt.Sprintf("tool %q finished with status %q", tool, status),
				Timestamp:   evt.Timestamp,
				Data:        map[string]any{"tool": tool, "status": string(status)},
			}},
		})
		if !terminal {
			violations = append(violations, models.Violation{
				Kind:      models.ViolationDanglingToolCall,
				Severity:  models.SeverityWarning,
				Message:   fmt.Sprintf("tool %q never reached a terminal status (recorded as %q)", tool, status),
				Timestamp: evt.Timestamp,
				Evidence: models.Evidence{
					Kind:        "tool-status",
					Description: "tool call left pending or running in the transcript",
					Timestamp:   evt.Timestamp,
					Data:        map[string]any{"tool": tool, "status": string(status), "part_id": evt.PartID},
				},
			})
		}

		if status == models.ToolStatusError {
			acknowledged := failureAcknowledgedAfter(ec.Timeline, i)
			checks = append(checks, models.Check{
				Name:   "failure-acknowledged",
				Passed: acknowledged,
				Weight: 1.0,
				Evidence: []models.Evidence{{
					Kind:        "failure-ack",
					Description: fmt.Sprintf("failed call to %q checked for a later assistant acknowledgement", tool),
					Timestamp:   evt.Timestamp,
					Data:        map[string]any{"tool": tool, "acknowledged": acknowledged},
				}},
			})
			if !acknowledged {
				violations = append(violations, models.Violation{
					Kind:      models.ViolationUnacknowledgedFailure,
					Severity:  models.SeverityInfo,
					Message:   fmt.Sprintf("failed call to %q is never acknowledged in any later assistant message", tool),
					Timestamp: evt.Timestamp,
					Evidence: models.Evidence{
						Kind:        "failure-ack",
						Description: "no subsequent assistant message mentions the failure",
						Timestamp:   evt.Timestamp,
						Data:        map[string]any{"tool": tool},
					},
				})
			}
		}
	}

	return buildResult(e.Name(), checks, violations), nil
}

// failureAcknowledgedAfter reports whether any assistant message after index
// failIdx reads as acknowledging a failure.
func failureAcknowledgedAfter(events []models.TimelineEvent, failIdx int) bool {
	for i := failIdx + 1; i < len(events); i++ {
		if events[i].Kind == models.EventAssistantMessage && failureReportRe.MatchString(events[i].Text) {
			return true
		}
	}
	return false
}
