package models

import "time"

type SettlementStatus string

const (
	SettlementStatusPending  SettlementStatus = "pending"
	SettlementStatusPositive SettlementStatus = "settled_positive"
	SettlementStatusNegative SettlementStatus = "settled_negative"
)

// UnitOutcome records the resolved receipt for one transmission unit.
type UnitOutcome struct {
	TransmissionID string         `json:"transmission_id" bson:"transmission_id"`
	Outcome        ReceiptOutcome `json:"outcome" bson:"outcome"`
	Code           string         `json:"code,omitempty" bson:"code,omitempty"`
	Message        string         `json:"message,omitempty" bson:"message,omitempty"`
}

// CaseSettlementState aggregates all transmission units of a case's current
// settlement attempt. It is the only place receipt outcomes are recorded;
// it is superseded wholesale when a new attempt begins.
type CaseSettlementState struct {
	CaseID       string           `json:"case_id" bson:"_id"`
	AttemptID    string           `json:"attempt_id" bson:"attempt_id"`
	Status       SettlementStatus `json:"status" bson:"status"`
	Outstanding  []string         `json:"outstanding" bson:"outstanding"`
	Outcomes     []UnitOutcome    `json:"outcomes" bson:"outcomes"`
	PendingSince time.Time        `json:"pending_since" bson:"pending_since"`
	UpdatedAt    time.Time        `json:"updated_at" bson:"updated_at"`
}

// IsOutstanding reports whether the transmission id still awaits a receipt.
func (s CaseSettlementState) IsOutstanding(transmissionID string) bool {
	for _, id := range s.Outstanding {
		if id == transmissionID {
			return true
		}
	}
	return false
}

// HasNegativeOutcome reports whether any resolved unit came back negative.
func (s CaseSettlementState) HasNegativeOutcome() bool {
	for _, o := range s.Outcomes {
		if o.Outcome == ReceiptOutcomeNegative {
			return true
		}
	}
	return false
}
