package common

import (
	"fmt"
	"net/http"
	"time"

	"wiz-academy/domain"
	"wiz-academy/validator"

	"github.com/gin-gonic/gin"
)

type ResponseT[T any] struct {
	Status      int    `json:"status"`
	Code        string `json:"code"`
	Data        T      `json:"data"`
	Description string `json:"description"`
}

var logger Logger

// SetLogger sets the logger for response logging
func SetLogger(l Logger) {
	logger = l
}

func Response[T any](c *gin.Context, status int, code string, data T, desc string) {
	if status >= 400 && logger != nil {
		logger.Error("API Error",
			"status", status,
			"code", code,
			"description", desc,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(RequestIDContextKey),
		)
	}

	c.AbortWithStatusJSON(status, ResponseT[T]{
		Status:      status,
		Code:        code,
		Data:        data,
		Description: desc,
	})
}

// Success responses
func ResponseOK[T any](c *gin.Context, data T, desc string) {
	Response(c, http.StatusOK, "SUCCESS", data, desc)
}

func ResponseCreated[T any](c *gin.Context, data T, desc string) {
	Response(c, http.StatusCreated, "SUCCESS", data, desc)
}

func ResponseBadRequest(c *gin.Context, desc string) {
	dErr := domain.ErrBadRequest.WithError(desc)
	Response[any](c, dErr.StatusCode(), dErr.IDField, dErr.DetailsField, dErr.ErrorField)
}

// ResponseBindError renders a binding failure as 400. Validation failures carry one
// translated message per field in data.
func ResponseBindError(c *gin.Context, err error) {
	fields := validator.DefaultValidator().Translate(err)
	if len(fields) == 0 {
		ResponseBadRequest(c, err.Error())
		return
	}
	dErr := domain.ErrBadRequest.WithError("Request validation failed")
	for field, msg := range fields {
		dErr = dErr.WithDetail(field, msg)
	}
	Response[any](c, dErr.StatusCode(), dErr.IDField, dErr.DetailsField, dErr.ErrorField)
}

func ResponseNotFound(c *gin.Context, desc string) {
	dErr := domain.ErrNotFound.WithError(desc)
	Response[any](c, dErr.StatusCode(), dErr.IDField, dErr.DetailsField, dErr.ErrorField)
}

// RouteNotFound answers requests no route matched.
func RouteNotFound(c *gin.Context) {
	ResponseNotFound(c, fmt.Sprintf("No route for %s %s", c.Request.Method, c.Request.URL.Path))
}

func ResponseError(c *gin.Context, err error) {
	dErr, ok := IsDetailError(err)
	if !ok {
		if logger != nil {
			logger.Error("Unhandled error", "error", err.Error(), "path", c.Request.URL.Path)
		}
		dErr = domain.ErrInternalServerError.WithWrap(err)
	}

	Response[any](c, dErr.StatusCode(), dErr.IDField, dErr.DetailsField, dErr.ErrorField)
}

func ResponseTooManyRequests(c *gin.Context, desc string, retryAt time.Time) {
	retryAfterSeconds := int64(0)
	retryAtISO := ""

	if !retryAt.IsZero() {
		retryAfterSeconds = int64(time.Until(retryAt).Seconds())
		if retryAfterSeconds > 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds))
		}
		retryAtISO = retryAt.Format(time.RFC3339)
	}

	Response(c, http.StatusTooManyRequests, domain.ErrTooManyRequests.ID(), map[string]interface{}{
		"retry_at":            retryAtISO,
		"retry_after_seconds": retryAfterSeconds,
	}, desc)
}
