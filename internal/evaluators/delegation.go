package evaluators

import (
	"context"
	"fmt"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// DefaultDelegationThreshold is the file-touch count at which a session is
// expected to hand work to a subagent.
const DefaultDelegationThreshold = 4

// delegationEvaluator flags large multi-file sessions that never delegated.
type delegationEvaluator struct {
	threshold int
}

// NewDelegationEvaluator creates the delegation evaluator. A non-positive
// threshold falls back to the default.
func NewDelegationEvaluator(threshold int) *delegationEvaluator {
	if threshold <= 0 {
		threshold = DefaultDelegationThreshold
	}
	return &delegationEvaluator{threshold: threshold}
}

func (e *delegationEvaluator) Name() string { return classify.EvaluatorDelegation }

func (e *delegationEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	touched := touchedFiles(ec.Timeline)
	if len(touched) < e.threshold {
		return skippedResult(e.Name(), fmt.Sprintf("only %d file(s) touched, threshold is %d", len(touched), e.threshold)), nil
	}

	delegated := false
	for _, evt := range ec.Timeline {
		if evt.Kind == models.EventToolCall && evt.Tool != nil && classify.IsDelegationTool(evt.Tool.ToolName) {
			delegated = true
			break
		}
	}

	checks := []models.Check{{
		Name:   "large-change-delegated",
		Passed: delegated,
		Weight: 1.0,
		Evidence: []models.Evidence{{
			Kind:        "file-touch-count",
			Description: fmt.Sprintf("%d distinct files touched (threshold %d)", len(touched), e.threshold),
			Data: map[string]any{
				"files":     touched,
				"threshold": e.threshold,
				"delegated": delegated,
			},
		}},
	}}

	var violations []models.Violation
	if !delegated {
		violations = append(violations, models.Violation{
			Kind:     models.ViolationMissingDelegation,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("%d files were touched directly with no delegation-class tool call", len(touched)),
			Evidence: models.Evidence{
				Kind:        "file-touch-count",
				Description: "multi-file work performed without delegating",
				Data:        map[string]any{"files": touched, "threshold": e.threshold},
			},
		})
	}

	return buildResult(e.Name(), checks, violations), nil
}

// touchedFiles returns the distinct target paths of write- and edit-class
// tool calls, in first-touch order. Calls with no recognizable target are
// counted under their part ID so a burst of anonymous edits still registers.
func touchedFiles(events []models.TimelineEvent) []string {
	var files []string
	seen := map[string]struct{}{}
	for i := range events {
		evt := &events[i]
		if evt.Kind != models.EventToolCall || evt.Tool == nil {
			continue
		}
		name := evt.Tool.ToolName
		if !classify.IsWriteTool(name) && !classify.IsEditTool(name) {
			continue
		}
		target := toolTarget(evt.Tool.Input)
		if target == "" {
			target = "part:" + evt.PartID
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		files = append(files, target)
	}
	return files
}
