package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// StatusFor maps an error to its HTTP status. notFoundStatus lets endpoints
// that treat unknown references as bad input (slot queries, create) answer
// 400 instead of 404.
func StatusFor(err error, notFoundStatus int) int {
	be, ok := AsBusiness(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch be.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return notFoundStatus
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Respond writes err using the standard error envelope.
func Respond(c *gin.Context, err error) {
	RespondWithNotFound(c, err, http.StatusNotFound)
}

func RespondWithNotFound(c *gin.Context, err error, notFoundStatus int) {
	status := StatusFor(err, notFoundStatus)
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, "INTERNAL_ERROR", "Internal server error")
		return
	}
	Write(c, status, be.Code, be.Error())
}
