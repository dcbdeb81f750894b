package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/birimengo/mytrade-api/internal/pkg/pagination"
)

// Envelope is the JSON shape returned on every API path.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Code       string      `json:"code,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// ListData wraps paginated list payloads.
type ListData struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	HasNext bool        `json:"hasNext"`
	HasPrev bool        `json:"hasPrev"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}, message ...string) {
	msg := "ok"
	if len(message) > 0 {
		msg = message[0]
	}
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    msg,
		Data:       data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, message ...string) {
	msg := "created"
	if len(message) > 0 {
		msg = message[0]
	}
	c.JSON(http.StatusCreated, Envelope{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    msg,
		Data:       data,
	})
}

// Paginated sends a paginated list response
func Paginated(c *gin.Context, items interface{}, total int64, limit int, page ...int) {
	pageNum := 1
	if len(page) > 0 {
		pageNum = page[0]
	}
	p := pagination.New(pageNum, limit, total)
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    "ok",
		Data: ListData{
			Items:   items,
			Total:   p.Total,
			Limit:   p.Limit,
			Page:    p.Page,
			Pages:   p.Pages,
			HasNext: p.HasNext,
			HasPrev: p.HasPrev,
		},
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	code := ""
	if len(errorCode) > 0 {
		code = errorCode[0]
	}
	c.JSON(statusCode, Envelope{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusNotFound, message, errorCode...)
}

// Conflict sends a 409 Conflict error
func Conflict(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusConflict, message, errorCode...)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

// BindJSONError handles JSON decode errors in request body
func BindJSONError(c *gin.Context, err error) {
	BadRequest(c, "Invalid request format", "INVALID_JSON")
}

// ValidationFailed sends a 400 with a per-field error list
func ValidationFailed(c *gin.Context, fieldErrors interface{}) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success:    false,
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Code:       "VALIDATION_FAILED",
		Errors:     fieldErrors,
	})
}

// DatabaseError handles database operation errors
func DatabaseError(c *gin.Context, message string) {
	InternalServerError(c, message, "DATABASE_ERROR")
}
