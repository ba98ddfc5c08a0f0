package apierrors

import "github.com/gin-gonic/gin"

// APIError is the error object inside a failed response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the body of every failed response.
type Envelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// Error aborts with the registered status and message of code.
func Error(c *gin.Context, code string) {
	c.AbortWithStatusJSON(Registry.HTTPStatus(code), Envelope{Error: New(code)})
}

// ErrorWithMessage aborts with the registered status of code and a custom message.
func ErrorWithMessage(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(Registry.HTTPStatus(code), Envelope{
		Error: APIError{Code: code, Message: message},
	})
}

// New builds an APIError carrying the registered message.
func New(code string) APIError {
	return APIError{Code: code, Message: Registry.Message(code)}
}
