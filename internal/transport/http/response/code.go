package response

import "net/http"

// Error kinds carried in the "error" field of failed responses.
const (
	KindValidation   = "validation_error"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindTooLarge     = "payload_too_large"
	KindRateLimited  = "too_many_requests"
	KindBusy         = "service_unavailable"
	KindTimeout      = "timeout"
	KindInternal     = "internal_error"
)

var kindByCode = map[int]string{
	http.StatusBadRequest:            KindValidation,
	http.StatusUnauthorized:          KindUnauthorized,
	http.StatusForbidden:             KindForbidden,
	http.StatusNotFound:              KindNotFound,
	http.StatusRequestEntityTooLarge: KindTooLarge,
	http.StatusTooManyRequests:       KindRateLimited,
	http.StatusServiceUnavailable:    KindBusy,
	http.StatusGatewayTimeout:        KindTimeout,
	http.StatusInternalServerError:   KindInternal,
}

func KindOf(code int) string {
	if k, ok := kindByCode[code]; ok {
		return k
	}
	if code >= 500 {
		return KindInternal
	}
	return KindValidation
}
