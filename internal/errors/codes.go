package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound            ErrorCode = "ACCOUNT_001"
	AccountInactive            ErrorCode = "ACCOUNT_002"
	AccountInvalidAmount       ErrorCode = "ACCOUNT_003"
	AccountInsufficientFunds   ErrorCode = "ACCOUNT_004"
	AccountAlreadyActive       ErrorCode = "ACCOUNT_005"
	AccountAlreadyInactive     ErrorCode = "ACCOUNT_006"
	AccountNonZeroBalance      ErrorCode = "ACCOUNT_007"
	AccountConcurrencyConflict ErrorCode = "ACCOUNT_008"
)

// Transfer error codes (TRANSFER_*)
const (
	TransferSameAccount       ErrorCode = "TRANSFER_001"
	TransferInsufficientFunds ErrorCode = "TRANSFER_002"
	TransferInvalidAmount     ErrorCode = "TRANSFER_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials: "Invalid username or password",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",

	// Account errors
	AccountNotFound:            "Could not find account with provided ID",
	AccountInactive:            "Account is not active",
	AccountInvalidAmount:       "Amount cannot be negative",
	AccountInsufficientFunds:   "Requested amount is more than account balance",
	AccountAlreadyActive:       "Account is already active",
	AccountAlreadyInactive:     "Account is already deactivated",
	AccountNonZeroBalance:      "Account still has a balance greater than 0, please withdraw before deactivating",
	AccountConcurrencyConflict: "Account was modified concurrently, please retry",

	// Transfer errors
	TransferSameAccount:       "Cannot transfer to the same account",
	TransferInsufficientFunds: "Source account has insufficient balance for this transfer",
	TransferInvalidAmount:     "Invalid transfer amount",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
