package reporting

import (
	"fmt"
	"strings"

	"github.com/agentlint/agentlint/internal/models"
)

// InterpretScore returns a plain-language label for a 0-100 score.
func InterpretScore(score float64) string {
	switch {
	case score > 90:
		return "Excellent (>90)"
	case score >= 70:
		return "Good (70-90)"
	case score >= 50:
		return "Needs Work (50-70)"
	default:
		return "Poor (<50)"
	}
}

// InterpretSeverities explains the violation counts in one sentence.
func InterpretSeverities(counts map[models.Severity]int) string {
	errors := counts[models.SeverityError]
	warnings := counts[models.SeverityWarning]
	switch {
	case errors == 0 && warnings == 0:
		return "No rule violations detected."
	case errors == 0:
		return fmt.Sprintf("No hard violations, but %d warning(s) worth reviewing.", warnings)
	case warnings == 0:
		return fmt.Sprintf("%d violation(s) must be addressed.", errors)
	default:
		return fmt.Sprintf("%d violation(s) must be addressed; %d warning(s) worth reviewing.", errors, warnings)
	}
}

// FormatInterpretation produces a plain-language summary of one session's
// aggregated result.
func FormatInterpretation(agg *models.AggregatedResult) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("Overall Score: %.0f — %s\n", agg.OverallScore, InterpretScore(agg.OverallScore)))
	b.WriteString(InterpretSeverities(agg.ViolationsBySeverity))
	b.WriteString("\n")

	var failed, skipped []string
	for i := range agg.EvaluatorResults {
		res := &agg.EvaluatorResults[i]
		switch {
		case res.Skipped():
			skipped = append(skipped, res.EvaluatorName)
		case !res.Passed:
			failed = append(failed, res.EvaluatorName)
		}
	}

	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("Failing rules: %s\n", strings.Join(failed, ", ")))
	}
	if len(skipped) > 0 {
		b.WriteString(fmt.Sprintf("Not applicable to this task type: %s\n", strings.Join(skipped, ", ")))
	}

	return b.String()
}
