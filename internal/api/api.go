package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// Store status values reported by /health and /suggestions
const (
	StoreUnconfigured  = "unconfigured"
	StoreConnected     = "connected"
	StoreMisconfigured = "misconfigured"
)

// StoreState tracks the data store. Repo is nil when the store is not
// usable; Configured tells a missing DATABASE_URL apart from a failed open.
type StoreState struct {
	Repo       repository.Repository
	Configured bool
}

// Status reports the store's state without contacting it
func (s StoreState) Status() string {
	switch {
	case s.Repo != nil:
		return StoreConnected
	case s.Configured:
		return StoreMisconfigured
	default:
		return StoreUnconfigured
	}
}

// Require returns the repository or a 503 error
func (s StoreState) Require() (repository.Repository, error) {
	if s.Repo == nil {
		return nil, types.Unavailable(repository.ErrUnavailable)
	}
	return s.Repo, nil
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	}
}

// protected returns the middleware chain for routes that need a caller
func protected(verifier middleware.TokenVerifier) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.AuthMiddleware(verifier),
		middleware.RequireIdentity(verifier.LoginURL()),
	}
}

// bindError converts a binding failure into a 400 with per-field messages
func bindError(err error) *types.APIError {
	apiErr := types.NewAPIError(http.StatusBadRequest, types.ErrCodeInvalidRequest, "Invalid request.", err)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apiErr.Fields = map[string]string{"non_field_errors": err.Error()}
		return apiErr
	}

	apiErr.Fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		apiErr.Fields[fe.Field()] = fieldMessage(fe)
	}
	return apiErr
}

func fieldMessage(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if isList {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}
