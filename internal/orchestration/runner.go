// Package orchestration runs the registered evaluators against one session
// and aggregates their verdicts.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/evaluators"
	"github.com/agentlint/agentlint/internal/models"
	"github.com/agentlint/agentlint/internal/timeline"
)

// SessionSource resolves a session ID to its metadata and transcript. The
// on-disk store implements it; tests substitute fakes.
type SessionSource interface {
	SessionInfo(ctx context.Context, id string) (models.SessionInfo, error)
	Messages(ctx context.Context, id string) ([]models.MessageWithParts, error)
}

// Runner executes evaluators over sessions. Evaluators can be registered and
// unregistered between runs; callers attach a declared-behavior evaluator
// only for scenarios that declare one, then detach it.
type Runner struct {
	source SessionSource

	mu         sync.Mutex
	evaluators []evaluators.Evaluator
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEvaluators replaces the default evaluator set.
func WithEvaluators(evs ...evaluators.Evaluator) RunnerOption {
	return func(r *Runner) {
		r.evaluators = evs
	}
}

// NewRunner creates a runner over the given session source with the default
// evaluator set.
func NewRunner(source SessionSource, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:     source,
		evaluators: evaluators.DefaultSet(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register appends an evaluator. A same-named evaluator is replaced in place
// so repeated scenario runs do not stack duplicates.
func (r *Runner) Register(ev evaluators.Evaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.evaluators {
		if existing.Name() == ev.Name() {
			r.evaluators[i] = ev
			return
		}
	}
	r.evaluators = append(r.evaluators, ev)
}

// Unregister removes the named evaluator, reporting whether it was present.
func (r *Runner) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ev := range r.evaluators {
		if ev.Name() == name {
			r.evaluators = append(r.evaluators[:i], r.evaluators[i+1:]...)
			return true
		}
	}
	return false
}

// Evaluators returns the names of the registered evaluators in registration
// order.
func (r *Runner) Evaluators() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.evaluators))
	for _, ev := range r.evaluators {
		names = append(names, ev.Name())
	}
	return names
}

// RunAll evaluates one session: it resolves the session (a missing session is
// fatal, nothing can be evaluated without a subject), builds the timeline
// once, fans the evaluators out, and aggregates. A misbehaving evaluator is
// recorded as a failed result rather than aborting the run.
func (r *Runner) RunAll(ctx context.Context, sessionID string) (*models.AggregatedResult, error) {
	info, err := r.source.SessionInfo(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session %q: %w", sessionID, err)
	}

	messages, err := r.source.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript for session %q: %w", sessionID, err)
	}

	events := timeline.Build(messages)
	taskType := classify.Classify(timeline.FirstUserText(events), timeline.ToolsUsed(events))

	slog.Debug("session evaluation starting",
		"session", sessionID,
		"events", len(events),
		"task_type", string(taskType))

	r.mu.Lock()
	evs := make([]evaluators.Evaluator, len(r.evaluators))
	copy(evs, r.evaluators)
	r.mu.Unlock()

	ec := &evaluators.Context{
		Timeline: events,
		Session:  info,
		TaskType: taskType,
	}

	// Evaluators are pure functions over an immutable timeline with no
	// ordering dependency on each other, so they fan out; results are
	// collected by registration index to keep the output order stable.
	results := make([]models.EvaluationResult, len(evs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range evs {
		g.Go(func() error {
			results[i] = runOne(gctx, ev, ec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(sessionID, info, taskType, results), nil
}

// runOne executes a single evaluator, converting panics and errors into a
// recorded failure so one bad rule cannot take down the whole run.
func runOne(ctx context.Context, ev evaluators.Evaluator, ec *evaluators.Context) (result models.EvaluationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Debug("evaluator panicked", "evaluator", ev.Name(), "panic", rec)
			result = failureResult(ev.Name(), fmt.Sprintf("evaluator panicked: %v", rec))
		}
	}()

	res, err := ev.Evaluate(ctx, ec)
	if err != nil {
		slog.Debug("evaluator failed", "evaluator", ev.Name(), "error", err)
		return failureResult(ev.Name(), fmt.Sprintf("evaluator error: %v", err))
	}
	if res == nil || !models.ValidScore(res.Score) || res.Violations == nil {
		// Malformed results are rejected explicitly; NaN must never reach
		// the aggregate.
		return failureResult(ev.Name(), "evaluator produced a malformed result")
	}
	return *res
}

// failureResult records an evaluator failure as a failing result with a
// single error-severity violation.
func failureResult(name, message string) models.EvaluationResult {
	return models.EvaluationResult{
		EvaluatorName: name,
		Passed:        false,
		Score:         0.0,
		Violations: []models.Violation{{
			Kind:     models.ViolationEvaluatorFailure,
			Severity: models.SeverityError,
			Message:  message,
			Evidence: models.Evidence{
				Kind:        "evaluator-failure",
				Description: message,
				Data:        map[string]any{"evaluator": name},
			},
		}},
		Metadata: map[string]any{"failed": true},
	}
}

// aggregate folds per-evaluator results into the session-level verdict.
func aggregate(sessionID string, info models.SessionInfo, taskType models.TaskType, results []models.EvaluationResult) *models.AggregatedResult {
	agg := &models.AggregatedResult{
		RunID:                uuid.NewString(),
		SessionID:            sessionID,
		SessionInfo:          info,
		Timestamp:            time.Now().UTC(),
		TaskType:             taskType,
		EvaluatorResults:     results,
		OverallPassed:        true,
		ViolationsBySeverity: map[models.Severity]int{},
		AllViolations:        []models.Violation{},
	}

	scoreSum := 0.0
	for _, res := range results {
		agg.OverallPassed = agg.OverallPassed && res.Passed
		scoreSum += res.Score

		agg.AllViolations = append(agg.AllViolations, res.Violations...)
		agg.AllEvidence = append(agg.AllEvidence, res.Evidence...)
		for sev, n := range res.CountBySeverity() {
			agg.ViolationsBySeverity[sev] += n
		}
	}
	agg.TotalViolations = len(agg.AllViolations)

	if len(results) > 0 {
		agg.OverallScore = math.Round(scoreSum / float64(len(results)))
	} else {
		agg.OverallScore = 100.0
	}

	return agg
}
