package models

// TransmissionUnit is one atomic outbound message to the external ledger:
// one chain's new lines in sequencer order, tagged with a case-scoped
// transmission identifier.
type TransmissionUnit struct {
	ID            string      `json:"id"`
	CaseID        string      `json:"case_id"`
	Payee         Payee       `json:"payee"`
	ChainSequence int64       `json:"chain_sequence"`
	Lines         []OrderLine `json:"lines"`
}

type ReceiptOutcome string

const (
	ReceiptOutcomePositive ReceiptOutcome = "positive"
	// ReceiptOutcomeWarning is a soft-positive: accepted with a diagnostic.
	ReceiptOutcomeWarning  ReceiptOutcome = "warning"
	ReceiptOutcomeNegative ReceiptOutcome = "negative"
)

// Accepted reports whether the outcome counts as positive for settlement.
func (o ReceiptOutcome) Accepted() bool {
	return o == ReceiptOutcomePositive || o == ReceiptOutcomeWarning
}

func (o ReceiptOutcome) Valid() bool {
	switch o {
	case ReceiptOutcomePositive, ReceiptOutcomeWarning, ReceiptOutcomeNegative:
		return true
	}
	return false
}

// Receipt is the asynchronous, at-least-once confirmation for one
// transmission unit, keyed by transmission identifier.
type Receipt struct {
	TransmissionID string         `json:"transmission_id"`
	Outcome        ReceiptOutcome `json:"outcome"`
	Code           string         `json:"code"`
	Message        string         `json:"message"`
}
