// Package evaluators holds the behavior rules. Each evaluator is an
// independent, pure check over an immutable timeline: identical inputs always
// yield identical violations (same order, same content) and an identical
// score. Evaluators never mutate the timeline or each other's results.
package evaluators

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/agentlint/agentlint/internal/models"
)

// Context is everything an evaluator may look at: the normalized timeline,
// the session metadata, the classifier's verdict, and (for declared-behavior)
// the scenario author's rule spec.
type Context struct {
	Timeline []models.TimelineEvent
	Session  models.SessionInfo
	TaskType models.TaskType

	// Behavior is set only when a scenario declares explicit constraints.
	Behavior *models.BehaviorSpec
}

// Evaluator is the capability interface every rule implements.
type Evaluator interface {
	// Name returns the evaluator's stable identifier, as used in the
	// applicability matrix and in reports.
	Name() string

	// Evaluate scans the timeline and returns a scored, evidenced verdict.
	Evaluate(ctx context.Context, ec *Context) (*models.EvaluationResult, error)
}

// DefaultSet returns the evaluators registered for every session: the five
// named rules plus the two auxiliary checks. The declared-behavior evaluator
// is not part of the default set; the runner attaches it per scenario.
func DefaultSet() []Evaluator {
	return []Evaluator{
		NewApprovalGateEvaluator(),
		NewContextLoadingEvaluator(),
		NewToolUsageEvaluator(),
		NewStopOnFailureEvaluator(),
		NewDelegationEvaluator(DefaultDelegationThreshold),
		NewToolHygieneEvaluator(),
		NewSessionStructureEvaluator(),
	}
}

// CreateDeclaredBehavior decodes loosely typed scenario parameters into a
// BehaviorSpec and builds the declared-behavior evaluator from it.
func CreateDeclaredBehavior(params map[string]any) (Evaluator, error) {
	var spec models.BehaviorSpec
	if err := mapstructure.Decode(params, &spec); err != nil {
		return nil, fmt.Errorf("decoding behavior spec: %w", err)
	}
	return NewDeclaredBehaviorEvaluator(&spec)
}
