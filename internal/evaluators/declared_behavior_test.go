package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentlint/agentlint/internal/models"
)

func TestDeclaredBehavior_Constructor(t *testing.T) {
	t.Run("empty spec returns error", func(t *testing.T) {
		_, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{})
		require.Error(t, err)
	})

	t.Run("one constraint suffices", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{MinToolCalls: 1})
		require.NoError(t, err)
		require.NotNil(t, ev)
	})
}

func TestDeclaredBehavior_ToolConstraints(t *testing.T) {
	timeline := []models.TimelineEvent{
		userMsg(1, "update the docs"),
		completedCall(2, "read", map[string]any{"path": "README.md"}),
		completedCall(3, "edit", map[string]any{"path": "README.md"}),
	}

	t.Run("must use satisfied", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustUseTools: []string{"read", "edit"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.True(t, res.Passed)
		require.Equal(t, 100.0, res.Score)
	})

	t.Run("must use missing", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustUseTools: []string{"write"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationMissingRequiredTool)
	})

	t.Run("forbidden tool used", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustNotUseTools: []string{"edit"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationForbiddenToolUsed)
	})

	t.Run("any-of satisfied", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustUseAnyOf: []string{"write", "edit"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.True(t, res.Passed)
	})

	t.Run("any-of unmet", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustUseAnyOf: []string{"bash", "task"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationMissingAnyOfTools)
	})

	t.Run("any-of check records candidates", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
			MustUseAnyOf: []string{"write", "edit"},
		})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.True(t, res.Passed)
		require.Equal(t, 100.0, res.Score)
		require.Equal(t, 1, res.Metadata["checks"])
		require.Len(t, res.Evidence, 1)
		require.Equal(t, []string{"write", "edit"}, res.Evidence[0].Data["candidates"])
		require.ElementsMatch(t, []string{"read", "edit"}, res.Evidence[0].Data["tools_used"])
	})
}

func TestDeclaredBehavior_CallCounts(t *testing.T) {
	timeline := []models.TimelineEvent{
		userMsg(1, "update the docs"),
		completedCall(2, "read", map[string]any{"path": "README.md"}),
		completedCall(3, "edit", map[string]any{"path": "README.md"}),
	}

	t.Run("min unmet", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{MinToolCalls: 3})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationInsufficientToolCalls)
	})

	t.Run("max exceeded", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{MaxToolCalls: 1})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationExcessiveToolCalls)
	})

	t.Run("bounds satisfied", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{MinToolCalls: 1, MaxToolCalls: 5})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{Timeline: timeline, TaskType: models.TaskDocs})
		require.NoError(t, err)
		require.True(t, res.Passed)
		require.Equal(t, 100.0, res.Score)
	})
}

func TestDeclaredBehavior_SessionConstraints(t *testing.T) {
	t.Run("requires approval unmet", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{RequiresApproval: true})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{
			Timeline: []models.TimelineEvent{
				userMsg(1, "change it"),
				assistantMsg(2, "Changing it now."),
				completedCall(3, "edit", map[string]any{"path": "a.go"}),
			},
			TaskType: models.TaskCode,
		})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationMissingApprovalRequest)
	})

	t.Run("requires context unmet", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{RequiresContext: true})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{
			Timeline: []models.TimelineEvent{
				userMsg(1, "change it"),
				completedCall(2, "edit", map[string]any{"path": "a.go"}),
			},
			TaskType: models.TaskCode,
		})
		require.NoError(t, err)
		require.False(t, res.Passed)
		require.Contains(t, violationKinds(res.Violations), models.ViolationMissingContextLoading)
	})

	t.Run("should delegate satisfied", func(t *testing.T) {
		ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{ShouldDelegate: true})
		require.NoError(t, err)

		res, err := ev.Evaluate(context.Background(), &Context{
			Timeline: []models.TimelineEvent{
				userMsg(1, "big refactor"),
				completedCall(2, "task", map[string]any{"prompt": "do part one"}),
			},
			TaskType: models.TaskDelegation,
		})
		require.NoError(t, err)
		require.True(t, res.Passed)
	})
}

func TestDeclaredBehavior_EmptyTimeline(t *testing.T) {
	ev, err := NewDeclaredBehaviorEvaluator(&models.BehaviorSpec{
		MustUseTools: []string{"read"},
	})
	require.NoError(t, err)

	res, err := ev.Evaluate(context.Background(), &Context{TaskType: models.TaskCode})
	require.NoError(t, err)
	require.False(t, res.Passed)
	require.Contains(t, violationKinds(res.Violations), models.ViolationMissingRequiredTool)
}

func TestCreateDeclaredBehavior(t *testing.T) {
	t.Run("decodes constraints", func(t *testing.T) {
		ev, err := CreateDeclaredBehavior(map[string]any{
			"must_use_tools": []string{"read"},
			"max_tool_calls": 3,
		})
		require.NoError(t, err)
		require.Equal(t, "declared-behavior", ev.Name())
	})

	t.Run("empty params rejected", func(t *testing.T) {
		_, err := CreateDeclaredBehavior(map[string]any{})
		require.Error(t, err)
	})

	t.Run("bad types rejected", func(t *testing.T) {
		_, err := CreateDeclaredBehavior(map[string]any{
			"min_tool_calls": "three",
		})
		require.Error(t, err)
	})
}
