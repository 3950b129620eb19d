package httputil

// Machine-readable error codes returned alongside human-readable messages.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeNotFound           = "NOT_FOUND"

	CodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	CodeCedulaAlreadyExists = "CEDULA_ALREADY_EXISTS"
	CodeInvalidCoach        = "INVALID_COACH"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidCreator      = "INVALID_CREATOR"
	CodeForbidden           = "FORBIDDEN"

	CodeEmailRequired    = "EMAIL_REQUIRED"
	CodeCedulaRequired   = "CEDULA_REQUIRED"
	CodeNameRequired     = "NAME_REQUIRED"
	CodePasswordRequired = "PASSWORD_REQUIRED"
	CodePasswordTooShort = "PASSWORD_TOO_SHORT"
	CodeInvalidEmail     = "INVALID_EMAIL_FORMAT"
	CodeInvalidRole      = "INVALID_ROLE"

	CodeMissingAuth         = "MISSING_AUTH"
	CodeInvalidAuthHeader   = "INVALID_AUTH_HEADER"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeTokenRequired       = "TOKEN_REQUIRED"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeAccountInactive     = "ACCOUNT_INACTIVE"
)
