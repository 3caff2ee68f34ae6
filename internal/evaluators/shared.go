package evaluators

import (
	"regexp"
	"strings"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// skippedResult is the fully passing, zero-violation result an evaluator
// returns when the applicability matrix rules it out for the session's task
// type. Returning a result (rather than omitting one) keeps the aggregate
// complete and auditable.
func skippedResult(name, reason string) *models.EvaluationResult {
	return &models.EvaluationResult{
		EvaluatorName: name,
		Passed:        true,
		Score:         100.0,
		Violations:    []models.Violation{},
		Metadata: map[string]any{
			"skipped":     true,
			"skip_reason": reason,
		},
	}
}

// gate consults the applicability matrix. It returns a non-nil skipped result
// when the evaluator does not apply.
func gate(name string, tt models.TaskType) *models.EvaluationResult {
	applicable, reason := classify.IsApplicable(name, tt)
	if applicable {
		return nil
	}
	return skippedResult(name, reason)
}

// buildResult derives the evaluator verdict from its checks and violations:
// passed means no error-severity violation, score is the weighted fraction of
// passing checks. Evidence from all checks is unioned onto the result.
func buildResult(name string, checks []models.Check, violations []models.Violation) *models.EvaluationResult {
	passed := true
	for _, v := range violations {
		if v.Severity == models.SeverityError {
			passed = false
			break
		}
	}

	var evidence []models.Evidence
	for _, c := range checks {
		evidence = append(evidence, c.Evidence...)
	}

	if violations == nil {
		violations = []models.Violation{}
	}

	return &models.EvaluationResult{
		EvaluatorName: name,
		Passed:        passed,
		Score:         models.ScoreChecks(checks),
		Violations:    violations,
		Evidence:      evidence,
		Metadata:      map[string]any{"checks": len(checks)},
	}
}

// approvalRequestRe matches interrogative proposal language: the phrasing an
// agent uses when asking permission before acting.
var approvalRequestRe = regexp.MustCompile(`(?i)(may i|shall i|should i|can i|could i|would you like( me)?( to)?|do you want( me)?( to)?|is it (ok|okay)|permission to|proceed with|before i proceed|ok to)`)

// isApprovalRequest reports whether an assistant message reads as a request
// for permission. Interrogative form is required alongside the proposal
// phrasing so statements like "I will proceed with the edit" do not count.
func isApprovalRequest(text string) bool {
	return strings.Contains(text, "?") && approvalRequestRe.MatchString(text)
}

// approvedBefore reports whether, somewhere before index callIdx in the
// timeline, an assistant approval request is followed by a user message. That
// user turn is what distinguishes granted approval from an unanswered
// question.
func approvedBefore(events []models.TimelineEvent, callIdx int) (bool, int64) {
	requestAt := -1
	for i := 0; i < callIdx; i++ {
		evt := &events[i]
		switch evt.Kind {
		case models.EventAssistantMessage:
			if isApprovalRequest(evt.Text) {
				requestAt = i
			}
		case models.EventUserMessage:
			if requestAt >= 0 {
				return true, events[requestAt].Timestamp
			}
		}
	}
	return false, 0
}

// toolTargetKeys are the input fields tools conventionally use for the path
// they operate on.
var toolTargetKeys = []string{"path", "file_path", "filePath", "filename", "file", "target"}

// toolTarget extracts the target path from a tool call's input, or "" when
// none is recognizable. Missing or oddly typed inputs are tolerated; the call
// is simply uninformative.
func toolTarget(input map[string]any) string {
	for _, key := range toolTargetKeys {
		if v, ok := input[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// shellCommand extracts the command string from a shell tool call's input.
func shellCommand(input map[string]any) string {
	for _, key := range []string{"command", "cmd", "script"} {
		if v, ok := input[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// GuidanceCategory labels what kind of work a guidance file prepares the
// agent for.
type GuidanceCategory string

const (
	GuidanceAgent   GuidanceCategory = "agent"
	GuidanceCode    GuidanceCategory = "code"
	GuidanceTests   GuidanceCategory = "tests"
	GuidanceDocs    GuidanceCategory = "docs"
	GuidanceReview  GuidanceCategory = "review"
	GuidanceGeneral GuidanceCategory = "general"
)

var guidancePatterns = []struct {
	re       *regexp.Regexp
	category GuidanceCategory
}{
	// Agent-definition files apply regardless of task type.
	{regexp.MustCompile(`(?i)(^|/)(agents?\.md|claude\.md|\.cursorrules|copilot-instructions\.md)$`), GuidanceAgent},
	{regexp.MustCompile(`(?i)(^|/)(\.?context|standards)/.*test`), GuidanceTests},
	{regexp.MustCompile(`(?i)(^|/)(\.?context|standards)/.*(doc|writing)`), GuidanceDocs},
	{regexp.MustCompile(`(?i)(^|/)(\.?context|standards)/.*review`), GuidanceReview},
	{regexp.MustCompile(`(?i)(^|/)(\.?context|standards)/`), GuidanceCode},
	{regexp.MustCompile(`(?i)(^|/)docs?/.*\.(md|mdx|rst|txt)$`), GuidanceDocs},
	{regexp.MustCompile(`(?i)(^|/)(readme|contributing)(\.[a-z]+)?$`), GuidanceGeneral},
}

// guidanceCategory classifies a path as a guidance file. The second return
// value is false when the path matches no recognized pattern.
func guidanceCategory(path string) (GuidanceCategory, bool) {
	for _, p := range guidancePatterns {
		if p.re.MatchString(path) {
			return p.category, true
		}
	}
	return "", false
}

// categoryMatchesTask reports whether a guidance category prepares the agent
// for the given task type. Agent-definition and general files match any task.
func categoryMatchesTask(cat GuidanceCategory, tt models.TaskType) bool {
	switch cat {
	case GuidanceAgent, GuidanceGeneral:
		return true
	case GuidanceTests:
		return tt == models.TaskTests
	case GuidanceDocs:
		return tt == models.TaskDocs
	case GuidanceReview:
		return tt == models.TaskReview
	case GuidanceCode:
		return tt == models.TaskCode || tt == models.TaskModifyExistingFile || tt == models.TaskDelegation
	default:
		return false
	}
}

// firstGuidanceRead finds the earliest read-class tool call whose target is a
// recognized guidance file. It returns the timeline index, the matched path,
// and its category; idx is -1 when no such read exists.
func firstGuidanceRead(events []models.TimelineEvent) (idx int, path string, cat GuidanceCategory) {
	for i := range events {
		evt := &events[i]
		if evt.Kind != models.EventToolCall || evt.Tool == nil {
			continue
		}
		if !classify.IsReadTool(evt.Tool.ToolName) {
			continue
		}
		target := toolTarget(evt.Tool.Input)
		if target == "" {
			continue
		}
		if c, ok := guidanceCategory(target); ok {
			return i, target, c
		}
	}
	return -1, "", ""
}

// firstExecutionIndex returns the timeline index of the first execution-class
// tool call, or -1.
func firstExecutionIndex(events []models.TimelineEvent) int {
	for i := range events {
		evt := &events[i]
		if evt.Kind == models.EventToolCall && evt.Tool != nil && classify.IsExecutionTool(evt.Tool.ToolName) {
			return i
		}
	}
	return -1
}
