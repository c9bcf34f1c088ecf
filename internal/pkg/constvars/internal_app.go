package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "requestID"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "isClientRequestID"
)

const (
	ResponseUnknown = "unknown"

	// SettlementLockKeyFormat is the redis key guarding a case's settlement
	// critical section: settlement:case:{caseID}.
	SettlementLockKeyFormat = "settlement:case:%s"

	// ReceiptWorkerLockKey is the singleton lock for the receipt consumer.
	ReceiptWorkerLockKey = "settlement:receipt-worker:lock"
)
