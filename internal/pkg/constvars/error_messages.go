package constvars

// Client-facing messages.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientCaseBusy                      = "Another settlement attempt for this case is in progress, please retry"
	ErrClientCaseNotFound                  = "No settlement found for this case"
)

// Developer-facing messages.
const (
	ErrDevValidationFailed           = "VALIDATION_FAILED"
	ErrDevCannotParseJSON            = "CANNOT_PARSE_JSON"
	ErrDevCannotMarshalJSON          = "CANNOT_MARSHAL_JSON"
	ErrDevInvalidAPIKey              = "INVALID_API_KEY"
	ErrDevAPIKeyRequired             = "API_KEY_REQUIRED"
	ErrDevTimelinePrecondition       = "TIMELINE_PRECONDITION_VIOLATION"
	ErrDevUnknownClassification      = "UNKNOWN_CLASSIFICATION"
	ErrDevSettlementConflict         = "SETTLEMENT_CONFLICT"
	ErrDevSettlementStateNotFound    = "SETTLEMENT_STATE_NOT_FOUND"
	ErrDevDBFailedToFindData         = "DB_FAILED_TO_FIND_DATA"
	ErrDevDBFailedToInsertData       = "DB_FAILED_TO_INSERT_DATA"
	ErrDevDBFailedToUpdateData       = "DB_FAILED_TO_UPDATE_DATA"
	ErrDevDBFailedToBeginTransaction = "DB_FAILED_TO_BEGIN_TRANSACTION"
	ErrDevRedisFailedToSetData       = "REDIS_FAILED_TO_SET_DATA"
	ErrDevRedisFailedToGetData       = "REDIS_FAILED_TO_GET_DATA"
	ErrDevRedisFailedToDeleteData    = "REDIS_FAILED_TO_DELETE_DATA"
	ErrDevRedisFailedToUnlock        = "REDIS_FAILED_TO_UNLOCK"
	ErrDevRabbitMQPublishMessage     = "RABBITMQ_FAILED_TO_PUBLISH_MESSAGE"
	ErrDevMinioCreateObject          = "MINIO_FAILED_TO_CREATE_OBJECT"
	ErrDevUpstreamRequestFailed      = "UPSTREAM_REQUEST_FAILED"
)
