package model

import "time"

// RunStatus represents the terminal state of a recorded analysis run.
type RunStatus string

const (
	RunStatusComplete      RunStatus = "complete"
	RunStatusClarification RunStatus = "clarification"
	RunStatusFailed        RunStatus = "failed"
)

// AnalysisRun is the persisted record of one engine invocation.
type AnalysisRun struct {
	ID                string    `json:"id"`
	Mode              string    `json:"mode"`
	BusinessGoal      string    `json:"business_goal"`
	Category          string    `json:"category"`
	Status            RunStatus `json:"status"`
	Report            string    `json:"report,omitempty"`
	Confidence        int       `json:"confidence"`
	CompletenessScore int       `json:"completeness_score"`
	CompletenessLabel string    `json:"completeness_label"`
	RiskFlags         []string  `json:"risk_flags,omitempty"`
	Error             string    `json:"error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
