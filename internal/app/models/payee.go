package models

import "fmt"

type PayeeRole string

const (
	PayeeRoleClaimant PayeeRole = "claimant"
	PayeeRoleEmployer PayeeRole = "employer"
)

// Payee identifies who receives payment for a case: the claimant, or a named
// employer for refund lines. Immutable value; equality is role + identifier.
type Payee struct {
	Role       PayeeRole `json:"role" bson:"role"`
	EmployerID string    `json:"employer_id,omitempty" bson:"employer_id,omitempty"`
}

func ClaimantPayee() Payee {
	return Payee{Role: PayeeRoleClaimant}
}

func EmployerPayee(employerID string) Payee {
	return Payee{Role: PayeeRoleEmployer, EmployerID: employerID}
}

// Key is the stable identity used for map keys and persisted chain lookup.
func (p Payee) Key() string {
	if p.Role == PayeeRoleEmployer {
		return fmt.Sprintf("employer:%s", p.EmployerID)
	}
	return string(PayeeRoleClaimant)
}

func (p Payee) Validate() error {
	switch p.Role {
	case PayeeRoleClaimant:
		if p.EmployerID != "" {
			return fmt.Errorf("claimant payee must not carry an employer identifier")
		}
	case PayeeRoleEmployer:
		if p.EmployerID == "" {
			return fmt.Errorf("employer payee requires an employer identifier")
		}
	default:
		return fmt.Errorf("unknown payee role %q", p.Role)
	}
	return nil
}
