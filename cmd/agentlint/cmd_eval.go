package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/evaluators"
	"github.com/agentlint/agentlint/internal/models"
	"github.com/agentlint/agentlint/internal/orchestration"
	"github.com/agentlint/agentlint/internal/scenario"
	"github.com/agentlint/agentlint/internal/sessionstore"
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate recorded sessions against the behavior rules",
		Long: `Evaluate one session or a set of scenarios.

Direct mode evaluates a single session with the default rule set:
  agentlint eval --sessions ./sessions --session abc123

Scenario mode runs one or more scenario files, each naming a session and
optionally narrowing the rules or declaring behavior constraints:
  agentlint eval --sessions ./sessions --scenario ./scenarios`,
		RunE:          runEval,
		SilenceErrors: true,
	}

	cmd.Flags().String("sessions", "", "Directory containing session transcripts (required)")
	cmd.Flags().String("session", "", "ID of a single session to evaluate")
	cmd.Flags().String("scenario", "", "Scenario file or directory of scenario files")
	cmd.Flags().Bool("json", false, "Emit JSON instead of text")
	cmd.Flags().Bool("junit", false, "Emit JUnit XML instead of text")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("fail-on", "error", "Severity that fails the run: error | warning")
	cmd.Flags().BoolP("verbose", "v", false, "Include evidence details in text output")

	_ = cmd.MarkFlagRequired("sessions")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	sessionsDir, _ := cmd.Flags().GetString("sessions")
	sessionID, _ := cmd.Flags().GetString("session")
	scenarioPath, _ := cmd.Flags().GetString("scenario")
	asJSON, _ := cmd.Flags().GetBool("json")
	asJUnit, _ := cmd.Flags().GetBool("junit")
	outputPath, _ := cmd.Flags().GetString("output")
	failOn, _ := cmd.Flags().GetString("fail-on")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if sessionID == "" && scenarioPath == "" {
		return fmt.Errorf("either --session or --scenario is required")
	}
	if sessionID != "" && scenarioPath != "" {
		return fmt.Errorf("--session and --scenario are mutually exclusive")
	}
	if asJSON && asJUnit {
		return fmt.Errorf("--json and --junit are mutually exclusive")
	}

	failSeverity, err := parseFailOn(failOn)
	if err != nil {
		return err
	}

	store, err := sessionstore.NewStore(sessionsDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var outFile *os.File
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
		outFile = f
	}

	var results []*models.AggregatedResult
	failed := false

	if sessionID != "" {
		runner := orchestration.NewRunner(store)
		agg, err := runner.RunAll(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		results = append(results, agg)
		failed = exceedsThreshold(agg, failSeverity)
	} else {
		scenarios, err := loadScenarios(scenarioPath)
		if err != nil {
			return err
		}
		for _, sc := range scenarios {
			agg, scFailed, err := runScenario(cmd.Context(), store, sc)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			results = append(results, agg)
			failed = failed || scFailed
		}
	}

	if err := writeReport(out, results, reportOptions{
		JSON:    asJSON,
		JUnit:   asJUnit,
		Verbose: verbose,
	}); err != nil {
		return err
	}
	if outFile != nil {
		if err := outFile.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
	}

	if failed {
		return &EvalFailureError{Message: "one or more evaluations failed"}
	}
	return nil
}

// runScenario evaluates one scenario: it resolves the store, narrows the
// evaluator set, attaches declared behavior when present, and applies the
// scenario's own fail threshold.
func runScenario(ctx context.Context, defaultStore *sessionstore.Store, sc *scenario.Scenario) (*models.AggregatedResult, bool, error) {
	store := defaultStore
	if sc.SessionDir != "" {
		dir := sc.SessionDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(sc.Path), dir)
		}
		var err error
		store, err = sessionstore.NewStore(dir)
		if err != nil {
			return nil, false, err
		}
	}

	var opts []orchestration.RunnerOption
	if len(sc.Evaluators) > 0 {
		selected, err := selectEvaluators(sc.Evaluators)
		if err != nil {
			return nil, false, err
		}
		opts = append(opts, orchestration.WithEvaluators(selected...))
	}
	runner := orchestration.NewRunner(store, opts...)

	if len(sc.Behavior) > 0 {
		ev, err := evaluators.CreateDeclaredBehavior(sc.Behavior)
		if err != nil {
			return nil, false, err
		}
		runner.Register(ev)
		defer runner.Unregister(classify.EvaluatorDeclaredBehavior)
	}

	agg, err := runner.RunAll(ctx, sc.SessionID)
	if err != nil {
		return nil, false, err
	}
	return agg, exceedsThreshold(agg, sc.FailSeverity()), nil
}

// selectEvaluators picks evaluators out of the default set by name. The
// declared-behavior name is accepted but skipped here; it is attached from
// the scenario's behavior block.
func selectEvaluators(names []string) ([]evaluators.Evaluator, error) {
	byName := map[string]evaluators.Evaluator{}
	for _, ev := range evaluators.DefaultSet() {
		byName[ev.Name()] = ev
	}

	var selected []evaluators.Evaluator
	for _, name := range names {
		if name == classify.EvaluatorDeclaredBehavior {
			continue
		}
		ev, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown evaluator %q", name)
		}
		selected = append(selected, ev)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no evaluators selected")
	}
	return selected, nil
}

// loadScenarios loads a single scenario file or every scenario in a directory.
func loadScenarios(path string) ([]*scenario.Scenario, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resolving scenario path: %w", err)
	}
	if fi.IsDir() {
		scenarios, err := scenario.LoadDir(path)
		if err != nil {
			return nil, err
		}
		if len(scenarios) == 0 {
			return nil, fmt.Errorf("no scenario files in %s", path)
		}
		return scenarios, nil
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return []*scenario.Scenario{sc}, nil
}

func parseFailOn(s string) (models.Severity, error) {
	switch s {
	case "error":
		return models.SeverityError, nil
	case "warning":
		return models.SeverityWarning, nil
	default:
		return "", fmt.Errorf("invalid --fail-on value %q (expected error or warning)", s)
	}
}

// exceedsThreshold reports whether the result carries violations at or above
// the given severity.
func exceedsThreshold(agg *models.AggregatedResult, threshold models.Severity) bool {
	n := agg.ViolationsBySeverity[models.SeverityError]
	if threshold == models.SeverityWarning {
		n += agg.ViolationsBySeverity[models.SeverityWarning]
	}
	return n > 0
}
