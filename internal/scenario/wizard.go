package scenario

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/agentlint/agentlint/internal/classify"
)

// Draft holds the fields collected by the interactive scenario wizard.
type Draft struct {
	Name             string
	SessionID        string
	Evaluators       []string
	FailOn           string
	RequiresApproval bool
	RequiresContext  bool
}

var nameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateDraftName checks that a scenario name is kebab-case.
func ValidateDraftName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("name must be kebab-case (lowercase letters, digits, hyphens)")
	}
	return nil
}

const draftTemplate = `name: {{ .Name }}
session_id: {{ .SessionID }}
{{- if .Evaluators }}
evaluators:
{{- range .Evaluators }}
  - {{ . }}
{{- end }}
{{- end }}
{{- if ne .FailOn "error" }}
fail_on: {{ .FailOn }}
{{- end }}
{{- if or .RequiresApproval .RequiresContext }}
behavior:
{{- if .RequiresApproval }}
  requires_approval: true
{{- end }}
{{- if .RequiresContext }}
  requires_context: true
{{- end }}
{{- end }}
`

// RunWizard runs an interactive huh form to collect a scenario draft.
// If initialName is non-empty, it pre-populates the name field.
func RunWizard(in io.Reader, out io.Writer, initialName string) (*Draft, error) {
	draft := &Draft{
		Name:   initialName,
		FailOn: "error",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario name").
				Description("A kebab-case name for this scenario").
				Placeholder("my-scenario").
				Value(&draft.Name).
				Validate(func(s string) error {
					return ValidateDraftName(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Session ID").
				Description("The recorded session this scenario evaluates").
				Placeholder("abc123").
				Value(&draft.SessionID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("session ID is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Evaluators").
				Description("Leave empty to run the full default set").
				Options(
					huh.NewOption(classify.EvaluatorApprovalGate, classify.EvaluatorApprovalGate),
					huh.NewOption(classify.EvaluatorContextLoading, classify.EvaluatorContextLoading),
					huh.NewOption(classify.EvaluatorToolUsage, classify.EvaluatorToolUsage),
					huh.NewOption(classify.EvaluatorStopOnFailure, classify.EvaluatorStopOnFailure),
					huh.NewOption(classify.EvaluatorDelegation, classify.EvaluatorDelegation),
					huh.NewOption(classify.EvaluatorToolHygiene, classify.EvaluatorToolHygiene),
					huh.NewOption(classify.EvaluatorSessionStructure, classify.EvaluatorSessionStructure),
				).
				Value(&draft.Evaluators),
			huh.NewSelect[string]().
				Title("Fail on").
				Description("The violation severity that fails this scenario").
				Options(
					huh.NewOption("error", "error"),
					huh.NewOption("warning", "warning"),
				).
				Value(&draft.FailOn),
			huh.NewConfirm().
				Title("Require an approval request?").
				Value(&draft.RequiresApproval),
			huh.NewConfirm().
				Title("Require guidance-file loading?").
				Value(&draft.RequiresContext),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	draft.Name = strings.TrimSpace(draft.Name)
	draft.SessionID = strings.TrimSpace(draft.SessionID)
	return draft, nil
}

// Render writes the draft as a scenario YAML document.
func (d *Draft) Render(w io.Writer) error {
	tmpl, err := template.New("scenario").Parse(draftTemplate)
	if err != nil {
		return fmt.Errorf("parsing scenario template: %w", err)
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("rendering scenario: %w", err)
	}
	return nil
}
