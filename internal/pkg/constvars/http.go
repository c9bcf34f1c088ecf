package constvars

import "net/http"

const (
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	HeaderAPIKey      = "X-Api-Key"

	MIMEApplicationJSON = "application/json"
)

const (
	StatusOK                   = http.StatusOK
	StatusCreated              = http.StatusCreated
	StatusAccepted             = http.StatusAccepted
	StatusBadRequest           = http.StatusBadRequest
	StatusUnauthorized         = http.StatusUnauthorized
	StatusForbidden            = http.StatusForbidden
	StatusNotFound             = http.StatusNotFound
	StatusMethodNotAllowed     = http.StatusMethodNotAllowed
	StatusConflict             = http.StatusConflict
	StatusUnsupportedMediaType = http.StatusUnsupportedMediaType
	StatusUnprocessableEntity  = http.StatusUnprocessableEntity
	StatusInternalServerError  = http.StatusInternalServerError
	StatusGatewayTimeout       = http.StatusGatewayTimeout
)
