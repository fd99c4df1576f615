package models

// Finding is a triggered misalignment rule.
type Finding struct {
	Rule           string `json:"rule"`
	Recommendation string `json:"recommendation"`
}

// ValidationReport is the result of scanning report text for misalignment.
type ValidationReport struct {
	Findings []Finding `json:"findings"`
	Summary  string    `json:"summary"`
}

// HasIssues reports whether any rule triggered.
func (r *ValidationReport) HasIssues() bool {
	return len(r.Findings) > 0
}
