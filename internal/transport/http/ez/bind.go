package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"roomhub/internal/domain"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body as JSON; an empty body binds nothing
	BindQuery Binder = "query" // URL query string
	BindForm  Binder = "form"  // by Content-Type: JSON, urlencoded or multipart
	BindNone  Binder = "none"  // handler reads c.Param / c.PostForm itself
)

var tagOnce sync.Once

// useJSONNames makes validator report json field names instead of Go ones.
func useJSONNames() {
	tagOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// Into returns a bind func for b, for use as CrudConfig.Bind.
func Into[I any](b Binder) func(*gin.Context, *I) error {
	return func(c *gin.Context, in *I) error { return bind(c, b, in) }
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(in)
		}
	case BindQuery:
		err = c.ShouldBindQuery(in)
	case BindForm:
		err = c.ShouldBind(in)
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(in)
		}
	}
	if err == nil {
		return nil
	}
	return translateBindError(err)
}

// translateBindError turns gin binding failures into per-field validation errors.
func translateBindError(err error) error {
	var (
		ves validator.ValidationErrors
		ute *json.UnmarshalTypeError
		se  *json.SyntaxError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &mbe):
		return err
	case errors.As(err, &ves):
		out := &domain.ValidationError{}
		for _, fe := range ves {
			out.Add(fe.Field(), fieldMessage(fe))
		}
		return out
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "body"
		}
		return domain.NewValidationError(field, fmt.Sprintf("expected %s", ute.Type.String()))
	case errors.As(err, &se):
		return domain.NewValidationError("body", "malformed JSON")
	default:
		return domain.NewValidationError("body", err.Error())
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return "is not valid"
	}
}
