package reporting

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/agentlint/agentlint/internal/models"
)

// WriteJSON writes one aggregated result as indented JSON.
func WriteJSON(w io.Writer, agg *models.AggregatedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// jsonReport is the multi-result layout used by scenario runs.
type jsonReport struct {
	Results []*models.AggregatedResult `json:"results"`
	Passed  bool                       `json:"passed"`
}

// WriteJSONAll writes several aggregated results as one JSON document with an
// overall pass flag.
func WriteJSONAll(w io.Writer, results []*models.AggregatedResult) error {
	report := jsonReport{Results: results, Passed: true}
	if report.Results == nil {
		report.Results = []*models.AggregatedResult{}
	}
	for _, r := range results {
		report.Passed = report.Passed && r.OverallPassed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
