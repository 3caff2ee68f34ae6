package evaluators

import (
	"context"
	"fmt"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
	"github.com/agentlint/agentlint/internal/timeline"
)

// declaredBehaviorEvaluator is a generic constraint checker driven by a
// scenario author's BehaviorSpec. Every populated constraint maps to exactly
// one check; any unmet required constraint is an error violation.
type declaredBehaviorEvaluator struct {
	spec *models.BehaviorSpec
}

// NewDeclaredBehaviorEvaluator creates the declared-behavior evaluator. At
// least one constraint must be populated.
func NewDeclaredBehaviorEvaluator(spec *models.BehaviorSpec) (*declaredBehaviorEvaluator, error) {
	if spec.Empty() {
		return nil, fmt.Errorf("declared-behavior evaluator requires at least one constraint")
	}
	return &declaredBehaviorEvaluator{spec: spec}, nil
}

func (e *declaredBehaviorEvaluator) Name() string { return classify.EvaluatorDeclaredBehavior }

func (e *declaredBehaviorEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	spec := e.spec
	if spec == nil {
		spec = ec.Behavior
	}
	if spec.Empty() {
		return skippedResult(e.Name(), "no behavior constraints declared"), nil
	}

	toolsUsed := timeline.ToolsUsed(ec.Timeline)
	toolSet := make(map[string]bool, len(toolsUsed))
	for _, t := range toolsUsed {
		toolSet[t] = true
	}
	totalCalls := len(timeline.ToolEvents(ec.Timeline))

	var checks []models.Check
	var violations []models.Violation

	addCheck := func(name string, passed bool, evidence models.Evidence) {
		checks = append(checks, models.Check{
			Name:     name,
			Passed:   passed,
			Weight:   1.0,
			Evidence: []models.Evidence{evidence},
		})
	}
	addViolation := func(kind models.ViolationKind, message string, evidence models.Evidence) {
		violations = append(violations, models.Violation{
			Kind:     kind,
			Severity: models.SeverityError,
			Message:  message,
			Evidence: evidence,
		})
	}

	for _, required := range spec.MustUseTools {
		used := toolSet[required]
		ev := models.Evidence{
			Kind:        "tool-usage",
			Description: fmt.Sprintf("required tool %q", required),
			Data:        map[string]any{"tool": required, "used": used, "tools_used": toolsUsed},
		}
		addCheck("must-use-"+required, used, ev)
		if !used {
			addViolation(models.ViolationMissingRequiredTool,
				fmt.Sprintf("required tool %q was never used", required), ev)
		}
	}

	for _, forbidden := range spec.MustNotUseTools {
		used := toolSet[forbidden]
		ev := models.Evidence{
			Kind:        "tool-usage",
			Description: fmt.Sprintf("forbidden tool %q", forbidden),
			Data:        map[string]any{"tool": forbidden, "used": used},
		}
		addCheck("must-not-use-"+forbidden, !used, ev)
		if used {
			addViolation(models.ViolationForbiddenToolUsed,
				fmt.Sprintf("forbidden tool %q was used", forbidden), ev)
		}
	}

	if len(spec.MustUseAnyOf) > 0 {
		matchedAny := false
		for _, t := range spec.MustUseAnyOf {
			if toolSet[t] {
				matchedAny = true
				break
			}
		}
		ev := models.Evidence{
			Kind:        "tool-usage",
			Description: "at least one of the listed tools must be used",
			Data:        map[string]any{"candidates": spec.MustUseAnyOf, "tools_used": toolsUsed},
		}
		addCheck("must-use-any-of", matchedAny, ev)
		if !matchedAny {
			addViolation(models.ViolationMissingAnyOfTools,
				fmt.Sprintf("none of the tools %v were used", spec.MustUseAnyOf), ev)
		}
	}

	if spec.MinToolCalls > 0 {
		ok := totalCalls >= spec.MinToolCalls
		ev := models.Evidence{
			Kind:        "tool-call-count",
			Description: fmt.Sprintf("minimum %d tool calls", spec.MinToolCalls),
			Data:        map[string]any{"min": spec.MinToolCalls, "actual": totalCalls},
		}
		addCheck("min-tool-calls", ok, ev)
		if !ok {
			addViolation(models.ViolationInsufficientToolCalls,
				fmt.Sprintf("%d tool calls made, at least %d required", totalCalls, spec.MinToolCalls), ev)
		}
	}

	if spec.MaxToolCalls > 0 {
		ok := totalCalls <= spec.MaxToolCalls
		ev := models.Evidence{
			Kind:        "tool-call-count",
			Description: fmt.Sprintf("maximum %d tool calls", spec.MaxToolCalls),
			Data:        map[string]any{"max": spec.MaxToolCalls, "actual": totalCalls},
		}
		addCheck("max-tool-calls", ok, ev)
		if !ok {
			addViolation(models.ViolationExcessiveToolCalls,
				fmt.Sprintf("%d tool calls made, at most %d allowed", totalCalls, spec.MaxToolCalls), ev)
		}
	}

	if spec.RequiresApproval {
		requested := false
		for i := range ec.Timeline {
			evt := &ec.Timeline[i]
			if evt.Kind == models.EventAssistantMessage && isApprovalRequest(evt.Text) {
				requested = true
				break
			}
		}
		ev := models.Evidence{
			Kind:        "approval-request",
			Description: "assistant must request approval at least once",
			Data:        map[string]any{"requested": requested},
		}
		addCheck("requires-approval", requested, ev)
		if !requested {
			addViolation(models.ViolationMissingApprovalRequest,
				"the session never contains an approval request", ev)
		}
	}

	if spec.RequiresContext {
		idx, path, _ := firstGuidanceRead(ec.Timeline)
		ev := models.Evidence{
			Kind:        "guidance-read",
			Description: "a guidance file must be read",
			Data:        map[string]any{"found": idx >= 0, "path": path},
		}
		addCheck("requires-context", idx >= 0, ev)
		if idx < 0 {
			addViolation(models.ViolationMissingContextLoading,
				"no guidance file was read during the session", ev)
		}
	}

	if spec.ShouldDelegate {
		delegated := false
		for _, t := range toolsUsed {
			if classify.IsDelegationTool(t) {
				delegated = true
				break
			}
		}
		ev := models.Evidence{
			Kind:        "delegation",
			Description: "a delegation-class tool must be used",
			Data:        map[string]any{"delegated": delegated, "tools_used": toolsUsed},
		}
		addCheck("should-delegate", delegated, ev)
		if !delegated {
			addViolation(models.ViolationMissingDelegation,
				"the session never delegated work to a subagent", ev)
		}
	}

	return buildResult(e.Name(), checks, violations), nil
}
