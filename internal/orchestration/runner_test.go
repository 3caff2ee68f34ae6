package orchestration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentlint/agentlint/internal/evaluators"
	"github.com/agentlint/agentlint/internal/models"
)

// fakeSource serves sessions from memory.
type fakeSource struct {
	sessions map[string][]models.MessageWithParts
}

var errNotFound = errors.New("session not found")

func (f *fakeSource) SessionInfo(ctx context.Context, id string) (models.SessionInfo, error) {
	if _, ok := f.sessions[id]; !ok {
		return models.SessionInfo{}, errNotFound
	}
	return models.SessionInfo{ID: id, Title: "session " + id}, nil
}

func (f *fakeSource) Messages(ctx context.Context, id string) ([]models.MessageWithParts, error) {
	msgs, ok := f.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	return msgs, nil
}

// stubEvaluator returns a canned result or error.
type stubEvaluator struct {
	name   string
	result *models.EvaluationResult
	err    error
	panics bool
}

func (s *stubEvaluator) Name() string { return s.name }

func (s *stubEvaluator) Evaluate(ctx context.Context, ec *evaluators.Context) (*models.EvaluationResult, error) {
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func passingStub(name string) *stubEvaluator {
	return &stubEvaluator{
		name: name,
		result: &models.EvaluationResult{
			EvaluatorName: name,
			Passed:        true,
			Score:         100.0,
			Violations:    []models.Violation{},
		},
	}
}

func conversationalSession() map[string][]models.MessageWithParts {
	return map[string][]models.MessageWithParts{
		"s1": {
			{
				Info: models.Message{ID: "m1", Role: models.RoleUser, CreatedAt: 1},
				Parts: []models.Part{
					{ID: "p1", Type: models.PartText, Text: "what is a goroutine?"},
				},
			},
			{
				Info: models.Message{ID: "m2", Role: models.RoleAssistant, CreatedAt: 2},
				Parts: []models.Part{
					{ID: "p2", Type: models.PartText, Text: "A lightweight thread managed by the runtime."},
				},
			},
		},
	}
}

func TestRunner_SessionNotFound(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: map[string][]models.MessageWithParts{}})

	_, err := runner.RunAll(context.Background(), "missing")
	require.Error(t, err)
	require.ErrorIs(t, err, errNotFound)
	require.Contains(t, err.Error(), "missing")
}

func TestRunner_CleanSessionPasses(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: conversationalSession()})

	agg, err := runner.RunAll(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", agg.SessionID)
	require.Equal(t, models.TaskConversational, agg.TaskType)
	require.True(t, agg.OverallPassed)
	require.Equal(t, 100.0, agg.OverallScore)
	require.Zero(t, agg.TotalViolations)
	require.NotEmpty(t, agg.RunID)
	require.Len(t, agg.EvaluatorResults, 7)
}

func TestRunner_ResultsKeepRegistrationOrder(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: conversationalSession()},
		WithEvaluators(passingStub("one"), passingStub("two"), passingStub("three")))

	for range 10 {
		agg, err := runner.RunAll(context.Background(), "s1")
		require.NoError(t, err)
		require.Len(t, agg.EvaluatorResults, 3)
		require.Equal(t, "one", agg.EvaluatorResults[0].EvaluatorName)
		require.Equal(t, "two", agg.EvaluatorResults[1].EvaluatorName)
		require.Equal(t, "three", agg.EvaluatorResults[2].EvaluatorName)
	}
}

func TestRunner_EvaluatorErrorIsolated(t *testing.T) {
	bad := &stubEvaluator{name: "bad", err: fmt.Errorf("internal fault")}
	runner := NewRunner(&fakeSource{sessions: conversationalSession()},
		WithEvaluators(passingStub("good"), bad))

	agg, err := runner.RunAll(context.Background(), "s1")
	require.NoError(t, err)
	require.False(t, agg.OverallPassed)

	failed := agg.EvaluatorResults[1]
	require.Equal(t, "bad", failed.EvaluatorName)
	require.False(t, failed.Passed)
	require.Equal(t, 0.0, failed.Score)
	require.Len(t, failed.Violations, 1)
	require.Equal(t, models.ViolationEvaluatorFailure, failed.Violations[0].Kind)
	require.Equal(t, models.SeverityError, failed.Violations[0].Severity)

	// the passing evaluator's result is untouched
	require.True(t, agg.EvaluatorResults[0].Passed)
}

func TestRunner_EvaluatorPanicIsolated(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: conversationalSession()},
		WithEvaluators(passingStub("good"), &stubEvaluator{name: "panics", panics: true}))

	agg, err := runner.RunAll(context.Background(), "s1")
	require.NoError(t, err)
	require.False(t, agg.OverallPassed)
	require.Equal(t, models.ViolationEvaluatorFailure, agg.EvaluatorResults[1].Violations[0].Kind)
	require.Contains(t, agg.EvaluatorResults[1].Violations[0].Message, "panicked")
}

func TestRunner_MalformedResultRejected(t *testing.T) {
	tests := []struct {
		name   string
		result *models.EvaluationResult
	}{
		{"nil result", nil},
		{"NaN score", &models.EvaluationResult{EvaluatorName: "x", Score: math.NaN(), Violations: []models.Violation{}}},
		{"score above range", &models.EvaluationResult{EvaluatorName: "x", Score: 250, Violations: []models.Violation{}}},
		{"nil violations", &models.EvaluationResult{EvaluatorName: "x", Score: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(&fakeSource{sessions: conversationalSession()},
				WithEvaluators(&stubEvaluator{name: "x", result: tt.result}))

			agg, err := runner.RunAll(context.Background(), "s1")
			require.NoError(t, err)
			require.False(t, agg.OverallPassed)
			require.Equal(t, models.ViolationEvaluatorFailure, agg.EvaluatorResults[0].Violations[0].Kind)
		})
	}
}

func TestRunner_Aggregation(t *testing.T) {
	warn := &stubEvaluator{
		name: "warns",
		result: &models.EvaluationResult{
			EvaluatorName: "warns",
			Passed:        true,
			Score:         50.0,
			Violations: []models.Violation{
				{Kind: models.ViolationMissingDelegation, Severity: models.SeverityWarning, Message: "w"},
			},
		},
	}
	fail := &stubEvaluator{
		name: "fails",
		result: &models.EvaluationResult{
			EvaluatorName: "fails",
			Passed:        false,
			Score:         25.0,
			Violations: []models.Violation{
				{Kind: models.ViolationMissingApproval, Severity: models.SeverityError, Message: "e1"},
				{Kind: models.ViolationBashAntipattern, Severity: models.SeverityError, Message: "e2"},
			},
		},
	}

	runner := NewRunner(&fakeSource{sessions: conversationalSession()},
		WithEvaluators(passingStub("ok"), warn, fail))

	agg, err := runner.RunAll(context.Background(), "s1")
	require.NoError(t, err)
	require.False(t, agg.OverallPassed)
	require.Equal(t, math.Round((100.0+50.0+25.0)/3), agg.OverallScore)
	require.Equal(t, 3, agg.TotalViolations)
	require.Len(t, agg.AllViolations, 3)
	require.Equal(t, 2, agg.ViolationsBySeverity[models.SeverityError])
	require.Equal(t, 1, agg.ViolationsBySeverity[models.SeverityWarning])
}

func TestRunner_RegisterUnregister(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: conversationalSession()})
	require.Len(t, runner.Evaluators(), 7)

	runner.Register(passingStub("extra"))
	require.Len(t, runner.Evaluators(), 8)
	require.Contains(t, runner.Evaluators(), "extra")

	// same name replaces, not stacks
	runner.Register(passingStub("extra"))
	require.Len(t, runner.Evaluators(), 8)

	require.True(t, runner.Unregister("extra"))
	require.Len(t, runner.Evaluators(), 7)
	require.False(t, runner.Unregister("extra"))
}

func TestRunner_EmptySession(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: map[string][]models.MessageWithParts{
		"empty": {},
	}})

	agg, err := runner.RunAll(context.Background(), "empty")
	require.NoError(t, err)
	require.True(t, agg.OverallPassed)
	require.Equal(t, 100.0, agg.OverallScore)
	require.Equal(t, models.TaskConversational, agg.TaskType)
}

func TestRunner_NoEvaluators(t *testing.T) {
	runner := NewRunner(&fakeSource{sessions: conversationalSession()}, WithEvaluators())

	agg, err := runner.RunAll(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, agg.OverallPassed)
	require.Equal(t, 100.0, agg.OverallScore)
	require.Empty(t, agg.EvaluatorResults)
}
