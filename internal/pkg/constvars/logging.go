package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingCaseIDKey             = "case_id"
	LoggingPayeeKey              = "payee"
	LoggingChainSequenceKey      = "chain_sequence"
	LoggingTransmissionIDKey     = "transmission_id"
	LoggingOutcomeKey            = "outcome"
	LoggingLineCountKey          = "line_count"
	LoggingUnitCountKey          = "unit_count"
	LoggingOutstandingCountKey   = "outstanding_count"
	LoggingQueueNameKey          = "queue_name"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
)
