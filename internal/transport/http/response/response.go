package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope every endpoint answers with. Code always equals the
// HTTP status of the response.
type Body struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// List is the data shape of collection endpoints.
type List[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Count: len(items), Items: items}
}

func OK(code int, data any) Body {
	if data == nil {
		data = struct{}{}
	}
	msg := http.StatusText(code)
	if msg == "" {
		msg = "OK"
	}
	return Body{Success: true, Code: code, Message: msg, Data: data}
}

// Error builds a failure body; an empty msg falls back to the status text.
func Error(code int, msg string) Body {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Body{Code: code, Message: msg, Error: KindOf(code), Data: struct{}{}}
}

func Invalid(fields map[string]string) Body {
	b := Error(http.StatusBadRequest, "validation failed")
	b.Errors = fields
	return b
}

func Write(c *gin.Context, code int, data any) { c.JSON(code, OK(code, data)) }

func Abort(c *gin.Context, code int, msg string) { c.AbortWithStatusJSON(code, Error(code, msg)) }
