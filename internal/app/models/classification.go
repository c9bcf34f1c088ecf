package models

// Classification is the category code of a payment line. The set is closed:
// the downstream ledger rejects transmissions whose lines are not ordered by
// the fixed priority table below, and an unknown code is a programmer error.
type Classification string

const (
	// ClassificationOrdinary is the ordinary daily benefit paid to the claimant.
	ClassificationOrdinary Classification = "FPATORD"
	// ClassificationEmployerRefund reimburses an employer that pre-paid wages.
	ClassificationEmployerRefund Classification = "FPREFAG"
	// ClassificationHolidayPay is the holiday-pay supplement to the claimant.
	ClassificationHolidayPay Classification = "FPATFER"
	// ClassificationEmployerRefundHolidayPay is the holiday-pay supplement on refunds.
	ClassificationEmployerRefundHolidayPay Classification = "FPREFFER"
)

// AllClassifications lists the closed classification set in priority order.
var AllClassifications = []Classification{
	ClassificationOrdinary,
	ClassificationEmployerRefund,
	ClassificationHolidayPay,
	ClassificationEmployerRefundHolidayPay,
}

// Priority returns the transmission ordering rank of a classification.
// Lower ranks are transmitted first. The second return is false for codes
// outside the closed set; callers treat that as fatal, never as retryable.
func (c Classification) Priority() (int, bool) {
	switch c {
	case ClassificationOrdinary:
		return 10, true
	case ClassificationEmployerRefund:
		return 20, true
	case ClassificationHolidayPay:
		return 30, true
	case ClassificationEmployerRefundHolidayPay:
		return 40, true
	}
	return 0, false
}

func (c Classification) Valid() bool {
	_, ok := c.Priority()
	return ok
}
