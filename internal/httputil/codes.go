package httputil

// Machine-readable error codes returned in the "code" field of error bodies.
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidID          = "INVALID_ID"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"

	// auth
	CodeMissingAuth            = "MISSING_AUTH"
	CodeInvalidAuthHeader      = "INVALID_AUTH_HEADER"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeEmailAlreadyExists     = "EMAIL_ALREADY_EXISTS"
	CodeInvalidEmailFormat     = "INVALID_EMAIL_FORMAT"
	CodeWeakPassword           = "WEAK_PASSWORD"
	CodeInvalidDate            = "INVALID_DATE"
	CodePasswordMismatch       = "PASSWORD_MISMATCH"
	CodeInvalidResetToken      = "INVALID_RESET_TOKEN"
	CodeCurrentPasswordInvalid = "CURRENT_PASSWORD_INVALID"

	// resources
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeMovieNotFound    = "MOVIE_NOT_FOUND"
	CodeGenreEmpty       = "GENRE_EMPTY"
	CodeNoFieldsToUpdate = "NO_FIELDS_TO_UPDATE"
	CodeEmptyUsername    = "EMPTY_USERNAME"
)
