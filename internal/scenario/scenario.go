// Package scenario loads evaluation scenarios: YAML files that point at a
// recorded session, optionally narrow the evaluator set, and optionally
// declare explicit behavior constraints for the session to satisfy.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/agentlint/agentlint/internal/classify"
	"github.com/agentlint/agentlint/internal/models"
)

// Scenario describes one evaluation to run.
type Scenario struct {
	// Name identifies the scenario in reports. Defaults to the prompt file's
	// title, then to the file name.
	Name string `yaml:"name"`

	// SessionID names the recorded session to evaluate. Required.
	SessionID string `yaml:"session_id"`

	// SessionDir overrides the store directory for this scenario.
	SessionDir string `yaml:"session_dir,omitempty"`

	// PromptFile is an optional markdown file describing the task the agent
	// was given. Its first heading becomes the scenario title.
	PromptFile string `yaml:"prompt_file,omitempty"`

	// Evaluators narrows the run to the named evaluators. Empty means the
	// full default set.
	Evaluators []string `yaml:"evaluators,omitempty"`

	// Behavior holds declared-behavior constraints. Non-empty behavior
	// attaches the declared-behavior evaluator for this scenario.
	Behavior map[string]any `yaml:"behavior,omitempty"`

	// FailOn sets the severity that makes the scenario fail: "error"
	// (default) or "warning".
	FailOn string `yaml:"fail_on,omitempty"`

	// Path is the file the scenario was loaded from. Not part of the YAML.
	Path string `yaml:"-"`
}

// knownEvaluators is the set of names a scenario may reference.
var knownEvaluators = map[string]bool{
	classify.EvaluatorApprovalGate:     true,
	classify.EvaluatorContextLoading:   true,
	classify.EvaluatorToolUsage:        true,
	classify.EvaluatorStopOnFailure:    true,
	classify.EvaluatorDelegation:       true,
	classify.EvaluatorDeclaredBehavior: true,
	classify.EvaluatorToolHygiene:      true,
	classify.EvaluatorSessionStructure: true,
}

// Load reads and validates a single scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	sc.Path = path

	if sc.Name == "" {
		sc.Name = defaultName(&sc)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml and *.yml scenario under dir, sorted by path.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := Load(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// Validate checks the scenario's required fields and referenced names.
func (s *Scenario) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	switch s.FailOn {
	case "", "error", "warning":
	default:
		return fmt.Errorf("fail_on must be \"error\" or \"warning\", got %q", s.FailOn)
	}
	for _, name := range s.Evaluators {
		if !knownEvaluators[name] {
			return fmt.Errorf("unknown evaluator %q", name)
		}
	}
	if len(s.Behavior) > 0 {
		if _, err := s.BehaviorSpec(); err != nil {
			return err
		}
	}
	return nil
}

// BehaviorSpec decodes the scenario's loosely typed behavior block.
func (s *Scenario) BehaviorSpec() (*models.BehaviorSpec, error) {
	var spec models.BehaviorSpec
	if err := mapstructure.Decode(s.Behavior, &spec); err != nil {
		return nil, fmt.Errorf("decoding behavior block: %w", err)
	}
	return &spec, nil
}

// FailSeverity returns the severity threshold the scenario fails on.
func (s *Scenario) FailSeverity() models.Severity {
	if s.FailOn == "warning" {
		return models.SeverityWarning
	}
	return models.SeverityError
}

// defaultName derives a scenario name: the prompt file's title when one
// exists, otherwise the scenario file's base name.
func defaultName(s *Scenario) string {
	if s.PromptFile != "" {
		promptPath := s.PromptFile
		if !filepath.IsAbs(promptPath) && s.Path != "" {
			promptPath = filepath.Join(filepath.Dir(s.Path), promptPath)
		}
		if title := PromptTitle(promptPath); title != "" {
			return title
		}
	}
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
