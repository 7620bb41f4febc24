package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomhub/internal/domain"
	resp "roomhub/internal/transport/http/response"
)

// AErr is an error with an explicit status and client-facing message.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }

// WriteError maps err onto the envelope. Unknown errors become a 500 with a
// generic message; the cause goes to the log only.
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	_ = c.Error(err)

	var (
		ae   *AErr
		verr *domain.ValidationError
		mbe  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae) && ae.Code < 500:
		resp.Abort(c, ae.Code, ae.Error())
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Invalid(verr.Fields))
	case errors.As(err, &mbe):
		resp.Abort(c, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		resp.Abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		resp.Abort(c, http.StatusUnauthorized, "authentication failed")
	case errors.Is(err, domain.ErrForbidden):
		resp.Abort(c, http.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrNotFound):
		resp.Abort(c, http.StatusNotFound, "not found")
	default:
		l.Error("request failed",
			zap.String("rid", c.GetString("rid")),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Abort(c, http.StatusInternalServerError, "internal error")
	}
}
