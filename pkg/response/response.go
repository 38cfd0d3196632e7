package response

import (
	"errors"
	"net/http"

	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Pagination carries the list envelope counters.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// AppError represents a structured application error with HTTP status.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Message    string // Human-readable error message
	Err        error  // Underlying cause, never sent to clients
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewServerError(msg string, cause error) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg, Err: cause}
}

// StatusOf reports the HTTP status an error would be rendered with.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// --- Gin response helpers ---

// Success sends a 200 OK response, merging the fields into a success envelope.
func Success(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Item sends a 200 OK single-resource envelope: {success, <key>: value}.
func Item(c *gin.Context, key string, value interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, key: value})
}

// Created sends a 201 Created single-resource envelope.
func Created(c *gin.Context, key string, value interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, key: value})
}

// List sends a paginated envelope: {success, <key>: items, total, page, limit, totalPages}.
func List(c *gin.Context, key string, items interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		key:          items,
		"total":      p.Total,
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": p.TotalPages,
	})
}

// Message sends a 200 OK envelope carrying only a message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// Error sends an error response. If err is an *AppError, its status and message
// are used; otherwise the error is logged and a generic 500 is returned. Internal
// details only reach the client outside release mode.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error().Err(err).AnErr("cause", appErr.Err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}
		c.JSON(appErr.HTTPStatus, ErrorResponse{Message: appErr.Message})
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")

	msg := "internal server error"
	if gin.Mode() != gin.ReleaseMode {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msg})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: msg})
}

func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, ErrorResponse{Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msg})
}
