// Package response writes the JSON envelope shared by every API route:
// {success, data?, error?}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StatusError is implemented by errors that know their HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// APIError is a ready-made StatusError for handlers.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string   { return e.Message }
func (e *APIError) HTTPStatus() int { return e.StatusCode }

func NewError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// AbortFail writes the error envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// StatusOf maps an error onto an HTTP status; unknown errors are 500.
func StatusOf(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// FromError writes the envelope for err. Server errors are logged with the
// request path; their message is still returned to the client.
func FromError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	Fail(c, status, err.Error())
}
