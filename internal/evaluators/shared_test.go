package evaluators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentlint/agentlint/internal/models"
)

func TestIsApprovalRequest(t *testing.T) {
	require.True(t, isApprovalRequest("Shall I apply the fix?"))
	require.True(t, isApprovalRequest("Would you like me to continue?"))
	require.True(t, isApprovalRequest("Is it ok to delete the cache?"))

	// no question mark
	require.False(t, isApprovalRequest("I will proceed with the edit."))
	// question without proposal phrasing
	require.False(t, isApprovalRequest("What is the expected output?"))
	require.False(t, isApprovalRequest(""))
}

func TestGuidanceCategory(t *testing.T) {
	tests := []struct {
		path string
		want GuidanceCategory
		ok   bool
	}{
		{"AGENTS.md", GuidanceAgent, true},
		{"project/CLAUDE.md", GuidanceAgent, true},
		{".cursorrules", GuidanceAgent, true},
		{".github/copilot-instructions.md", GuidanceAgent, true},
		{"standards/testing.md", GuidanceTests, true},
		{"context/docs-style.md", GuidanceDocs, true},
		{"standards/review-checklist.md", GuidanceReview, true},
		{"standards/code.md", GuidanceCode, true},
		{"docs/architecture.md", GuidanceDocs, true},
		{"README.md", GuidanceGeneral, true},
		{"CONTRIBUTING.md", GuidanceGeneral, true},

		{"src/main.go", "", false},
		{"math.ts", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cat, ok := guidanceCategory(tt.path)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, cat)
			}
		})
	}
}

func TestToolTarget(t *testing.T) {
	require.Equal(t, "a.go", toolTarget(map[string]any{"path": "a.go"}))
	require.Equal(t, "b.go", toolTarget(map[string]any{"file_path": "b.go"}))
	require.Equal(t, "", toolTarget(map[string]any{"path": 42}))
	require.Equal(t, "", toolTarget(nil))
}

func TestShellCommand(t *testing.T) {
	require.Equal(t, "ls", shellCommand(map[string]any{"command": "ls"}))
	require.Equal(t, "pwd", shellCommand(map[string]any{"cmd": "pwd"}))
	require.Equal(t, "", shellCommand(nil))
}

func TestCategoryMatchesTask(t *testing.T) {
	require.True(t, categoryMatchesTask(GuidanceAgent, models.TaskDocs))
	require.True(t, categoryMatchesTask(GuidanceGeneral, models.TaskTests))
	require.True(t, categoryMatchesTask(GuidanceTests, models.TaskTests))
	require.False(t, categoryMatchesTask(GuidanceTests, models.TaskCode))
	require.True(t, categoryMatchesTask(GuidanceCode, models.TaskModifyExistingFile))
	require.False(t, categoryMatchesTask(GuidanceDocs, models.TaskCode))
}
