package service

import "scanapi/internal/model"

// ProcessResult is the outcome of analyzing one document.
type ProcessResult struct {
	DocumentID string
	FilePath   string
	Analysis   *model.AnalysisResult
	Err        error
}

// ProcessResults is ordered like the scan's documents.
type ProcessResults []ProcessResult

// Succeeded returns the items without an error.
func (r ProcessResults) Succeeded() ProcessResults {
	return r.filter(func(p ProcessResult) bool { return p.Err == nil })
}

// Failed returns the items with an error.
func (r ProcessResults) Failed() ProcessResults {
	return r.filter(func(p ProcessResult) bool { return p.Err != nil })
}

func (r ProcessResults) filter(keep func(ProcessResult) bool) ProcessResults {
	out := make(ProcessResults, 0, len(r))
	for _, p := range r {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
