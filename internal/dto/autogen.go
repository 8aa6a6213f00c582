package dto

// ── autogen module DTOs ──

// AutogenDpmResponse is one generated candidate as shown on the autogen
// review screen.
type AutogenDpmResponse struct {
	Name      string `json:"name"`
	Block     string `json:"block"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
	Positive  bool   `json:"positive"`
}

// AutogenPreviewResponse wraps the day's candidate list. SubmittedAt is the
// commit's local time of day (HHmm) and is empty until the day's commit has
// happened.
type AutogenPreviewResponse struct {
	SubmittedAt string               `json:"submitted_at,omitempty"`
	Dpms        []AutogenDpmResponse `json:"dpms"`
}
