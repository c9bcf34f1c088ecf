package responses

import "time"

// SettlementAttempt is the external view of a case's settlement aggregate.
type SettlementAttempt struct {
	CaseID       string     `json:"case_id"`
	AttemptID    string     `json:"attempt_id"`
	Status       string     `json:"status"`
	Outstanding  []string   `json:"outstanding,omitempty"`
	PendingSince *time.Time `json:"pending_since,omitempty"`
}
