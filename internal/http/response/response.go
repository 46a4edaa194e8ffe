package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Envelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{
		Success: false,
		Message: msg,
		Error: &APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: status < http.StatusBadRequest, Message: message, Data: data})
}

func RespondOK(c *gin.Context, message string, data any) {
	Respond(c, http.StatusOK, message, data)
}

func RespondCreated(c *gin.Context, message string, data any) {
	Respond(c, http.StatusCreated, message, data)
}
