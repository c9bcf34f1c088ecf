package requests

// SettleCase is the optional body for settlement triggers. An absent body
// means a plain settlement run.
type SettleCase struct {
	Cessation bool `json:"cessation"`
}
