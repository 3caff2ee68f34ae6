package evaluators

import (
	"context"
	"fmt"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// contextLoadingEvaluator verifies that the agent read a recognized guidance
// file before its first state-mutating action, and that the file it read
// matches the kind of work it was asked to do. Only task types that require
// prior guidance are policed; the applicability matrix gates the rest.
type contextLoadingEvaluator struct{}

// NewContextLoadingEvaluator creates the context-loading evaluator.
func NewContextLoadingEvaluator() *contextLoadingEvaluator { return &contextLoadingEvaluator{} }

func (e *contextLoadingEvaluator) Name() string { return classify.EvaluatorContextLoading }

func (e *contextLoadingEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	guidanceIdx, guidancePath, category := firstGuidanceRead(ec.Timeline)
	execIdx := firstExecutionIndex(ec.Timeline)

	var checks []models.Check
	var violations []models.Violation

	loaded := guidanceIdx >= 0
	checks = append(checks, models.Check{
		Name:   "guidance-file-loaded",
		Passed: loaded,
		Weight: 2.0,
		Evidence: []models.Evidence{{
			Kind:        "guidance-read",
			Description: "search for a read-class call targeting a guidance file",
			Data: map[string]any{
				"found":    loaded,
				"path":     guidancePath,
				"category": string(category),
			},
		}},
	})
	if !loaded {
		ts := int64(0)
		if execIdx >= 0 {
			ts = ec.Timeline[execIdx].Timestamp
		}
		violations = append(violations, models.Violation{
			Kind:      models.ViolationNoContextLoaded,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("no guidance file was read before acting on a %s task", ec.TaskType),
			Timestamp: ts,
			Evidence: models.Evidence{
				Kind:        "guidance-read",
				Description: "no read-class tool call targets a recognized guidance file",
				Data:        map[string]any{"task_type": string(ec.TaskType)},
			},
		})
		return buildResult(e.Name(), checks, violations), nil
	}

	// Timing: the guidance read must precede the first execution-class call.
	timely := execIdx < 0 || guidanceIdx < execIdx
	checks = append(checks, models.Check{
		Name:   "guidance-before-execution",
		Passed: timely,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "guidance-timing",
			Description: "guidance read position relative to the first execution-class call",
			Timestamp:   ec.Timeline[guidanceIdx].Timestamp,
			Data: map[string]any{
				"guidance_index":  guidanceIdx,
				"execution_index": execIdx,
			},
		}},
	})
	if !timely {
		violations = append(violations, models.Violation{
			Kind:      models.ViolationContextLoadedLate,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("guidance file %q was read only after the first execution-class tool call", guidancePath),
			Timestamp: ec.Timeline[guidanceIdx].Timestamp,
			Evidence: models.Evidence{
				Kind:        "guidance-timing",
				Description: "guidance read occurred after execution started",
				Timestamp:   ec.Timeline[guidanceIdx].Timestamp,
				Data:        map[string]any{"path": guidancePath},
			},
		})
	}

	// Fit: the guidance category should match the task type.
	fits := categoryMatchesTask(category, ec.TaskType)
	checks = append(checks, models.Check{
		Name:   "guidance-matches-task",
		Passed: fits,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "guidance-fit",
			Description: "guidance category compared against task type",
			Data: map[string]any{
				"category":  string(category),
				"task_type": string(ec.TaskType),
			},
		}},
	})
	if !fits {
		violations = append(violations, models.Violation{
			Kind:      models.ViolationWrongContextFile,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("guidance file %q (%s) does not match the %s task", guidancePath, category, ec.TaskType),
			Timestamp: ec.Timeline[guidanceIdx].Timestamp,
			Evidence: models.Evidence{
				Kind:        "guidance-fit",
				Description: "loaded guidance category does not cover the task type",
				Data:        map[string]any{"path": guidancePath, "category": string(category), "task_type": string(ec.TaskType)},
			},
		})
	}

	return buildResult(e.Name(), checks, violations), nil
}
