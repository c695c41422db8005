package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// *types.APIError keeps its status and detail; anything else becomes a 500
// with a generic body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var apiErr *types.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status >= http.StatusInternalServerError {
				logger.Error("request failed", zap.Error(err))
			}
			c.JSON(apiErr.Status, ErrorResponse{Code: apiErr.Code, Detail: apiErr.Detail, Errors: apiErr.Fields})
			return
		}

		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: types.ErrCodeInternal, Detail: "Internal server error."})
	}
}
