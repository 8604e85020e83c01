package report

import "github.com/bartekus/skilltest/internal/runner"

// Summary aggregates a result list. It is derived on demand, never stored
// alongside the results.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// Summarize counts results by status.
func Summarize(results []runner.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case runner.StatusPass:
			s.Passed++
		case runner.StatusPending:
			s.Pending++
		default:
			s.Failed++
		}
	}
	return s
}

// Rate is the percentage of passed cases, or 0 for an empty run.
func (s Summary) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// OK reports whether the run should exit successfully. Pending cases only
// count against it when failOnPending is set.
func (s Summary) OK(failOnPending bool) bool {
	if s.Failed > 0 {
		return false
	}
	return !failOnPending || s.Pending == 0
}
