package apperror

// ErrorCode is the general system-level error category.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// BusinessCode identifies the specific business reason behind an error.
// The workflow/admin error taxonomy maps onto these codes:
// validation failures, permission denials, state conflicts, protected
// entities, and failures of external collaborators.
type BusinessCode string

const (
	BusinessCodeGeneral           BusinessCode = "GENERAL"
	BusinessCodeValidationFailed  BusinessCode = "VALIDATION_FAILED"
	BusinessCodePermissionDenied  BusinessCode = "PERMISSION_DENIED"
	BusinessCodeStateConflict     BusinessCode = "STATE_CONFLICT"
	BusinessCodeProtectedEntity   BusinessCode = "PROTECTED_ENTITY"
	BusinessCodeExternalFailure   BusinessCode = "EXTERNAL_FAILURE"
	BusinessCodeInvalidPermission BusinessCode = "INVALID_PERMISSION"
	BusinessCodeUnknownRole       BusinessCode = "UNKNOWN_ROLE"
	BusinessCodeProfileNotFound   BusinessCode = "PROFILE_NOT_FOUND"
	BusinessCodeGroupNotFound     BusinessCode = "GROUP_NOT_FOUND"
	BusinessCodeContentNotFound   BusinessCode = "CONTENT_NOT_FOUND"
	BusinessCodeDuplicateEmail    BusinessCode = "DUPLICATE_EMAIL"
	BusinessCodeDuplicateSlug     BusinessCode = "DUPLICATE_SLUG"
)
