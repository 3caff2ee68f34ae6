package evaluators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// shellAntipattern pairs a shell command pattern with the structured tool the
// agent should have used instead.
type shellAntipattern struct {
	re         *regexp.Regexp
	command    string
	preferTool string
}

var shellAntipatterns = []shellAntipattern{
	{regexp.MustCompile(`(?m)^\s*cat\s+\S`), "cat", "read"},
	{regexp.MustCompile(`(?m)^\s*head\s+\S`), "head", "read"},
	{regexp.MustCompile(`(?m)^\s*tail\s+\S`), "tail", "read"},
	{regexp.MustCompile(`(?m)^\s*ls\b`), "ls", "list"},
	{regexp.MustCompile(`(?m)^\s*grep\s+\S`), "grep", "grep"},
	{regexp.MustCompile(`(?m)^\s*rg\s+\S`), "rg", "grep"},
	{regexp.MustCompile(`(?m)^\s*find\s+\S.*-name`), "find", "glob"},
}

// toolUsageEvaluator flags shell invocations that replicate a structured
// tool. Using the structured tool directly never trips the rule.
type toolUsageEvaluator struct{}

// NewToolUsageEvaluator creates the tool-usage evaluator.
func NewToolUsageEvaluator() *toolUsageEvaluator { return &toolUsageEvaluator{} }

func (e *toolUsageEvaluator) Name() string { return classify.EvaluatorToolUsage }

func (e *toolUsageEvaluator) Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error) {
	if skip := gate(e.Name(), ec.TaskType); skip != nil {
		return skip, nil
	}

	var checks []models.Check
	var violations []models.Violation

	for i := range ec.Timeline {
		evt := &ec.Timeline[i]
		if evt.Kind != models.EventToolCall || evt.Tool == nil || !classify.IsShellTool(evt.Tool.ToolName) {
			continue
		}

		command := shellCommand(evt.Tool.Input)
		matched := matchAntipattern(command)

		check := models.Check{
			Name:   "structured-tool-preferred",
			Passed: matched == nil,
			Weight: 1.0,
			Evidence: []models.Evidence{{
				Kind:        "shell-command",
				Description: "shell invocation inspected for structured-tool equivalents",
				Timestamp:   evt.Timestamp,
				Data:        map[string]any{"command": command},
			}},
		}
		checks = append(checks, check)

		if matched != nil {
			violations = append(violations, models.Violation{
				Kind:      models.ViolationBashAntipattern,
				Severity:  models.SeverityError,
				Message:   fmt.Sprintf("shell command %q used where the %q tool exists; avoid raw %s", command, matched.preferTool, matched.command),
				Timestamp: evt.Timestamp,
				Evidence: models.Evidence{
					Kind:        "shell-command",
					Description: fmt.Sprintf("command matches the %s antipattern", matched.command),
					Timestamp:   evt.Timestamp,
					Data: map[string]any{
						"command":      command,
						"antipattern":  matched.command,
						"prefer_tool":  matched.preferTool,
						"message_id":   evt.MessageID,
					},
				},
			})
		}
	}

	return buildResult(e.Name(), checks, violations), nil
}

func matchAntipattern(command string) *shellAntipattern {
	if command == "" {
		return nil
	}
	for i := range shellAntipatterns {
		if shellAntipatterns[i].re.MatchString(command) {
			return &shellAntipatterns[i]
		}
	}
	return nil
}
