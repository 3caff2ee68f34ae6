package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/agentlint/agentlint/internal/models"
	"github.com/agentlint/agentlint/internal/reporting"
)

// reportOptions selects the output format for evaluation results.
type reportOptions struct {
	JSON    bool
	JUnit   bool
	Verbose bool
}

// writeReport renders results as text, JSON, or JUnit XML. Text layout is
// clamped to the terminal width when stdout is a terminal.
func writeReport(w io.Writer, results []*models.AggregatedResult, opts reportOptions) error {
	switch {
	case opts.JSON:
		if len(results) == 1 {
			return reporting.WriteJSON(w, results[0])
		}
		return reporting.WriteJSONAll(w, results)
	case opts.JUnit:
		return reporting.WriteJUnit(w, results)
	}

	renderer := &reporting.TextRenderer{
		Width:   terminalWidth(w),
		Verbose: opts.Verbose,
	}
	for i, agg := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := renderer.Render(w, agg); err != nil {
			return err
		}
		if opts.Verbose {
			fmt.Fprintln(w)
			fmt.Fprint(w, reporting.FormatInterpretation(agg))
		}
	}
	return nil
}

// terminalWidth returns the width of w when it is a terminal, 0 otherwise.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
