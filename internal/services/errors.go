package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
)

// maxWriteAttempts bounds the retry loop for writes racing on a unique column.
const maxWriteAttempts = 5

// translateError maps store and validation errors onto the HTTP error taxonomy.
// Errors that are already *response.AppError pass through unchanged.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var fieldErr *schema.FieldError
	if errors.As(err, &fieldErr) {
		return response.NewBadRequest(fieldErr.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound(resource + " not found")
	}
	if isUniqueViolation(err) {
		return response.NewConflict(resource + " already exists")
	}
	return response.NewServerError("internal server error", fmt.Errorf("%s: %w", resource, err))
}

// isUniqueViolation recognizes unique-constraint failures, whether or not the
// driver translated them to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
