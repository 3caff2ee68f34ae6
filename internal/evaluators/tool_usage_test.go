package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentlint/agentlint/internal/models"
)

func TestToolUsage_CatAntipattern(t *testing.T) {
	ev := NewToolUsageEvaluator()

	res, err := ev.Evaluate(context.Background(), evalContext(models.TaskBashOnly,
		userMsg(1, "show me the file"),
		completedCall(2, "bash", map[string]any{"command": "cat file.txt"}),
	))
	require.NoError(t, err)
	require.False(t, res.Passed)
	require.Contains(t, violationKinds(res.Violations), models.ViolationBashAntipattern)
	require.Equal(t, models.SeverityError, res.Violations[0].Severity)
	require.Contains(t, res.Violations[0].Message, "cat")
}

func TestToolUsage_Antipatterns(t *testing.T) {
	tests := []struct {
		command string
		bad     bool
	}{
		{"cat file.txt", true},
		{"head -n 5 file.txt", true},
		{"tail -f log.txt", true},
		{"ls", true},
		{"ls -la src/", true},
		{"grep -r pattern .", true},
		{"rg pattern", true},
		{"find . -name '*.go'", true},

		{"go test ./...", false},
		{"make build", false},
		{"git status", false},
		{"find . -type d -empty -delete", false}, // no -name: not a glob replacement
		{"concatenate inputs", false},            // "cat" only as a whole word
	}

	ev := NewToolUsageEvaluator()
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			res, err := ev.Evaluate(context.Background(), evalContext(models.TaskBashOnly,
				userMsg(1, "run it"),
				completedCall(2, "bash", map[string]any{"command": tt.command}),
			))
			require.NoError(t, err)
			if tt.bad {
				require.False(t, res.Passed)
				require.Len(t, res.Violations, 1)
			} else {
				require.True(t, res.Passed)
				require.Empty(t, res.Violations)
			}
		})
	}
}

func TestToolUsage_StructuredToolsIgnored(t *testing.T) {
	ev := NewToolUsageEvaluator()

	res, err := ev.Evaluate(context.Background(), evalContext(models.TaskCode,
		userMsg(1, "fix the handler"),
		completedCall(2, "read", map[string]any{"path": "handler.go"}),
		completedCall(3, "grep", map[string]any{"pattern": "retry"}),
	))
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.Empty(t, res.Violations)
}

func TestToolUsage_MissingCommandTolerated(t *testing.T) {
	ev := NewToolUsageEvaluator()

	res, err := ev.Evaluate(context.Background(), evalContext(models.TaskBashOnly,
		userMsg(1, "run it"),
		completedCall(2, "bash", nil),
	))
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.Empty(t, res.Violations)
}

func TestToolUsage_MultilineScript(t *testing.T) {
	ev := NewToolUsageEvaluator()

	res, err := ev.Evaluate(context.Background(), evalContext(models.TaskBashOnly,
		userMsg(1, "inspect the logs"),
		completedCall(2, "bash", map[string]any{"command": "cd /var/log\ncat app.log"}),
	))
	require.NoError(t, err)
	require.False(t, res.Passed)
	require.Contains(t, res.Violations[0].Message, "cat")
}
