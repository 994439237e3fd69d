package errors

import (
	"fmt"
	"net/http"
)

// Access-control specific error types
const (
	ErrorTypeDuplicateCode    ErrorType = "duplicate_permission_code"
	ErrorTypeDuplicateRole    ErrorType = "duplicate_role"
	ErrorTypeRoleNotFound     ErrorType = "role_not_found"
	ErrorTypeResourceNotFound ErrorType = "resource_not_found"
)

// NewDuplicateCodeError signals that a permission code is already registered.
func NewDuplicateCodeError(code string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateCode,
		Message: "permission code already exists",
		Code:    http.StatusConflict,
		Details: code,
	}
}

// NewDuplicateRoleError signals that a role with the same name, scope and
// organization already exists.
func NewDuplicateRoleError(name, scope string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateRole,
		Message: "role already exists",
		Code:    http.StatusConflict,
		Details: fmt.Sprintf("%s@%s", name, scope),
	}
}

// NewRoleNotFoundError signals that no role matched the resolution rule,
// neither an org-specific override nor a system default.
func NewRoleNotFoundError(name, scope string) *AppError {
	return &AppError{
		Type:    ErrorTypeRoleNotFound,
		Message: "role not found",
		Code:    http.StatusNotFound,
		Details: fmt.Sprintf("%s@%s", name, scope),
	}
}

// NewResourceNotFoundError signals that the resource hierarchy has no entry
// for the queried scope and resource id. Callers must treat this as a failed
// decision, never as an implicit deny or allow.
func NewResourceNotFoundError(scope, resourceID string) *AppError {
	return &AppError{
		Type:    ErrorTypeResourceNotFound,
		Message: "resource not found in hierarchy",
		Code:    http.StatusNotFound,
		Details: fmt.Sprintf("%s/%s", scope, resourceID),
	}
}

// IsDuplicateCodeError checks for a duplicate permission code error.
func IsDuplicateCodeError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeDuplicateCode
}

// IsDuplicateRoleError checks for a duplicate role error.
func IsDuplicateRoleError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeDuplicateRole
}

// IsRoleNotFoundError checks for a role resolution failure.
func IsRoleNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeRoleNotFound
}

// IsResourceNotFoundError checks for a hierarchy lookup failure.
func IsResourceNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeResourceNotFound
}
