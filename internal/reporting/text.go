// Package reporting renders aggregated evaluation results as terminal text
// or JSON.
package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentlint/agentlint/internal/models"
)

var titleCaser = cases.Title(language.English)

// TextRenderer writes a human-readable report.
type TextRenderer struct {
	// Width is the terminal width used to clamp the layout. Zero means the
	// default of 100 columns.
	Width int

	// Verbose includes every violation's evidence payload keys.
	Verbose bool
}

const defaultWidth = 100

// Render writes the report for one aggregated result.
func (r *TextRenderer) Render(w io.Writer, agg *models.AggregatedResult) error {
	width := r.Width
	if width <= 0 {
		width = defaultWidth
	}

	fmt.Fprintf(w, "Session: %s\n", agg.SessionID)
	if agg.SessionInfo.Title != "" {
		fmt.Fprintf(w, "Title:   %s\n", agg.SessionInfo.Title)
	}
	fmt.Fprintf(w, "Task:    %s\n", agg.TaskType)
	fmt.Fprintf(w, "Run:     %s (%s)\n", agg.RunID, agg.Timestamp.Format(time.RFC3339))
	fmt.Fprintln(w)

	nameWidth := 0
	for _, res := range agg.EvaluatorResults {
		if dw := runewidth.StringWidth(displayName(res.EvaluatorName)); dw > nameWidth {
			nameWidth = dw
		}
	}
	if nameWidth < len("Evaluator") {
		nameWidth = len("Evaluator")
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		padRight("Evaluator", nameWidth),
		padRight("Result", 7),
		padRight("Score", 6),
		"Violations")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", min(width, nameWidth+28)))

	for _, res := range agg.EvaluatorResults {
		fmt.Fprintf(w, "%s  %s  %s  %d\n",
			padRight(displayName(res.EvaluatorName), nameWidth),
			padRight(verdict(&res), 7),
			padRight(fmt.Sprintf("%.0f", res.Score), 6),
			len(res.Violations))
	}
	fmt.Fprintln(w)

	if agg.TotalViolations > 0 {
		fmt.Fprintf(w, "Violations (%d):\n", agg.TotalViolations)
		for _, v := range agg.AllViolations {
			line := fmt.Sprintf("  [%s] %s: %s", v.Severity, v.Kind, v.Message)
			fmt.Fprintln(w, truncate(line, width))
			if r.Verbose && v.Evidence.Description != "" {
				fmt.Fprintf(w, "      evidence: %s\n", truncate(v.Evidence.Description, width-16))
				for _, k := range sortedKeys(v.Evidence.Data) {
					fmt.Fprintf(w, "        %s: %v\n", k, v.Evidence.Data[k])
				}
			}
		}
		fmt.Fprintln(w)
	}

	status := "PASS"
	if !agg.OverallPassed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "Overall: %s (score %.0f, %d error(s), %d warning(s), %d info)\n",
		status,
		agg.OverallScore,
		agg.ViolationsBySeverity[models.SeverityError],
		agg.ViolationsBySeverity[models.SeverityWarning],
		agg.ViolationsBySeverity[models.SeverityInfo])
	return nil
}

// verdict summarizes one evaluator result for the table.
func verdict(res *models.EvaluationResult) string {
	if res.Skipped() {
		return "skip"
	}
	if res.Passed {
		return "pass"
	}
	return "FAIL"
}

// displayName turns an evaluator identifier into a report heading, e.g.
// "approval-gate" becomes "Approval Gate".
func displayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncate shortens a line to maxLen runes, replacing the last rune with "…".
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
