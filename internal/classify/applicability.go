package classify

import "github.com/agentlint/agentlint/internal/models"

// Evaluator names, shared between the applicability matrix and the evaluator
// implementations.
const (
	EvaluatorApprovalGate     = "approval-gate"
	EvaluatorContextLoading   = "context-loading"
	EvaluatorToolUsage        = "tool-usage"
	EvaluatorStopOnFailure    = "stop-on-failure"
	EvaluatorDelegation       = "delegation"
	EvaluatorDeclaredBehavior = "declared-behavior"
	EvaluatorToolHygiene      = "tool-hygiene"
	EvaluatorSessionStructure = "session-structure"
)

// skipRule marks one (evaluator, task type) pair as inapplicable, with the
// reason reported in the skipped result's metadata.
type skipRule struct {
	evaluator string
	taskType  models.TaskType
	reason    string
}

// skipMatrix is the static applicability table. Pairs not listed are
// applicable. Every evaluator consults this before running its checks; an
// inapplicable evaluator returns a fully passing, zero-violation result
// annotated skipped=true so that rules never police sessions they were not
// meant for.
var skipMatrix = []skipRule{
	{EvaluatorApprovalGate, models.TaskConversational, "no tools were invoked"},
	{EvaluatorApprovalGate, models.TaskReadOnly, "approval gates do not apply to read-only sessions"},

	{EvaluatorContextLoading, models.TaskConversational, "no tools were invoked"},
	{EvaluatorContextLoading, models.TaskReadOnly, "read-only sessions need no prior guidance"},
	{EvaluatorContextLoading, models.TaskBashOnly, "shell-only sessions need no prior guidance"},
	{EvaluatorContextLoading, models.TaskCreateNewFile, "new-file creation needs no prior guidance"},
	{EvaluatorContextLoading, models.TaskDeleteFile, "file deletion needs no prior guidance"},
	{EvaluatorContextLoading, models.TaskUnknown, "task type could not be determined"},

	{EvaluatorToolUsage, models.TaskConversational, "no tools were invoked"},

	{EvaluatorStopOnFailure, models.TaskConversational, "no tools were invoked"},
	{EvaluatorStopOnFailure, models.TaskReadOnly, "read-only sessions perform no modifying calls"},

	{EvaluatorDelegation, models.TaskConversational, "no tools were invoked"},
	{EvaluatorDelegation, models.TaskReadOnly, "read-only sessions touch no files"},
	{EvaluatorDelegation, models.TaskBashOnly, "shell-only sessions touch no files directly"},
	{EvaluatorDelegation, models.TaskDelegation, "session already delegated"},
	{EvaluatorDelegation, models.TaskReview, "review sessions are not expected to delegate"},
	{EvaluatorDelegation, models.TaskUnknown, "task type could not be determined"},

	{EvaluatorToolHygiene, models.TaskConversational, "no tools were invoked"},
}

// IsApplicable reports whether the named evaluator applies to the given task
// type. When it does not, the second return value carries the reason.
func IsApplicable(evaluator string, tt models.TaskType) (bool, string) {
	for _, r := range skipMatrix {
		if r.evaluator == evaluator && r.taskType == tt {
			return false, r.reason
		}
	}
	return true, ""
}
