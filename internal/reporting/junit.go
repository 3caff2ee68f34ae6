package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agentlint/agentlint/internal/models"
)

// JUnit XML schema types. One testsuite per evaluated session, one testcase
// per evaluator, so CI systems render evaluation runs like test runs.

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one session evaluation.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one evaluator verdict.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure records rule violations that failed the evaluator.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError records an evaluator that could not run.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks an evaluator the applicability matrix ruled out.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts aggregated results to the JUnit XML layout.
func ConvertToJUnit(results []*models.AggregatedResult) *JUnitTestSuites {
	suites := &JUnitTestSuites{}

	for _, agg := range results {
		suite := JUnitTestSuite{
			Name:      agg.SessionID,
			Tests:     len(agg.EvaluatorResults),
			Timestamp: agg.Timestamp.Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "run_id", Value: agg.RunID},
				{Name: "task_type", Value: string(agg.TaskType)},
				{Name: "score", Value: fmt.Sprintf("%.0f", agg.OverallScore)},
			},
		}

		for i := range agg.EvaluatorResults {
			tc := convertEvaluatorResult(agg.SessionID, &agg.EvaluatorResults[i])
			if tc.Failure != nil {
				suite.Failures++
			}
			if tc.Error != nil {
				suite.Errors++
			}
			if tc.Skipped != nil {
				suite.Skipped++
			}
			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	return suites
}

func convertEvaluatorResult(sessionID string, res *models.EvaluationResult) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      res.EvaluatorName,
		Classname: sessionID,
	}

	if res.Skipped() {
		msg := ""
		if reason, ok := res.Metadata["skip_reason"].(string); ok {
			msg = reason
		}
		tc.Skipped = &JUnitSkipped{Message: msg}
		return tc
	}

	if failure, isFault := evaluatorFault(res); isFault {
		tc.Error = &JUnitError{
			Message: failure,
			Type:    string(models.ViolationEvaluatorFailure),
			Body:    failure,
		}
		return tc
	}

	if !res.Passed {
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%d violation(s), score %.0f", len(res.Violations), res.Score),
			Type:    "behavior-violation",
			Body:    violationBody(res.Violations),
		}
	}
	return tc
}

// evaluatorFault reports whether the result records an evaluator that could
// not run, rather than a session that broke a rule.
func evaluatorFault(res *models.EvaluationResult) (string, bool) {
	for _, v := range res.Violations {
		if v.Kind == models.ViolationEvaluatorFailure {
			return v.Message, true
		}
	}
	return "", false
}

func violationBody(violations []models.Violation) string {
	var lines []string
	for _, v := range violations {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", v.Severity, v.Kind, v.Message))
	}
	return strings.Join(lines, "\n")
}

// WriteJUnit writes aggregated results as a JUnit XML document.
func WriteJUnit(w io.Writer, results []*models.AggregatedResult) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(ConvertToJUnit(results)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
