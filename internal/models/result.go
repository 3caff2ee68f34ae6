package models

import (
	"math"
	"time"
)

// Severity ranks how serious a violation is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ViolationKind names the rule a violation was raised under.
type ViolationKind string

const (
	ViolationMissingApproval         ViolationKind = "missing-approval"
	ViolationNoContextLoaded         ViolationKind = "no-context-loaded"
	ViolationContextLoadedLate       ViolationKind = "context-loaded-late"
	ViolationWrongContextFile        ViolationKind = "wrong-context-file"
	ViolationBashAntipattern         ViolationKind = "bash-antipattern"
	ViolationAutoFixWithoutApproval  ViolationKind = "auto-fix-without-approval"
	ViolationMissingDelegation       ViolationKind = "missing-delegation"
	ViolationDanglingToolCall        ViolationKind = "dangling-tool-call"
	ViolationUnacknowledgedFailure   ViolationKind = "unacknowledged-tool-failure"
	ViolationMalformedTranscript     ViolationKind = "malformed-transcript"
	ViolationMissingRequiredTool     ViolationKind = "missing-required-tool"
	ViolationForbiddenToolUsed       ViolationKind = "forbidden-tool-used"
	ViolationMissingAnyOfTools       ViolationKind = "missing-any-of-tools"
	ViolationInsufficientToolCalls   ViolationKind = "insufficient-tool-calls"
	ViolationExcessiveToolCalls      ViolationKind = "excessive-tool-calls"
	ViolationMissingApprovalRequest  ViolationKind = "missing-approval-request"
	ViolationMissingContextLoading   ViolationKind = "missing-context-loading"
	ViolationEvaluatorFailure        ViolationKind = "evaluator-failure"
)

// Evidence is structured data supporting a check's verdict. It is attached to
// passing and failing checks alike so results stay auditable.
type Evidence struct {
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
}

// Violation records one rule breach. It always carries machine-checkable
// evidence, never just prose, and is immutable after creation.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	Timestamp int64         `json:"timestamp,omitempty"`
	Evidence  Evidence      `json:"evidence"`
}

// Check is one atomic rule inside an evaluator. Weights are evaluator-local
// relative contributions; they need not sum to any fixed total.
type Check struct {
	Name     string     `json:"name"`
	Passed   bool       `json:"passed"`
	Weight   float64    `json:"weight"`
	Evidence []Evidence `json:"evidence,omitempty"`
}

// EvaluationResult is the verdict of one evaluator over one session.
type EvaluationResult struct {
	EvaluatorName string         `json:"evaluator"`
	Passed        bool           `json:"passed"`
	Score         float64        `json:"score"` // 0..100
	Violations    []Violation    `json:"violations"`
	Evidence      []Evidence     `json:"evidence,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Skipped reports whether the evaluator declared itself inapplicable for the
// session's task type.
func (r *EvaluationResult) Skipped() bool {
	if r.Metadata == nil {
		return false
	}
	v, ok := r.Metadata["skipped"].(bool)
	return ok && v
}

// CountBySeverity tallies the result's violations per severity.
func (r *EvaluationResult) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, v := range r.Violations {
		counts[v.Severity]++
	}
	return counts
}

// AggregatedResult is the session-level verdict the runner assembles from all
// evaluator results. It is constructed once per run and never mutated after.
type AggregatedResult struct {
	RunID            string             `json:"run_id"`
	SessionID        string             `json:"session_id"`
	SessionInfo      SessionInfo        `json:"session_info"`
	Timestamp        time.Time          `json:"timestamp"`
	TaskType         TaskType           `json:"task_type"`
	EvaluatorResults []EvaluationResult `json:"evaluator_results"`
	OverallPassed    bool               `json:"overall_passed"`
	OverallScore     float64            `json:"overall_score"`
	TotalViolations  int                `json:"total_violations"`
	ViolationsBySeverity map[Severity]int `json:"violations_by_severity"`
	AllViolations    []Violation        `json:"all_violations"`
	AllEvidence      []Evidence         `json:"all_evidence,omitempty"`
}

// ScoreChecks computes the weighted fraction of passing checks scaled to
// 0..100. An empty check list scores 100: nothing applied, nothing failed.
func ScoreChecks(checks []Check) float64 {
	totalWeight := 0.0
	passedWeight := 0.0
	for _, c := range checks {
		w := c.Weight
		if w <= 0 {
			w = 1.0
		}
		totalWeight += w
		if c.Passed {
			passedWeight += w
		}
	}
	if totalWeight == 0 {
		return 100.0
	}
	return 100.0 * passedWeight / totalWeight
}

// ValidScore reports whether s is a well-formed score in [0, 100].
func ValidScore(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0 && s <= 100
}
