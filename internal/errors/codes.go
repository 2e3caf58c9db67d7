package errors

// ErrorCode is a stable, caller-facing error kind. Every failure the core
// surfaces maps to exactly one code so callers can render a precise message;
// there is no generic catch-all inside the core.
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationInvalidShape  ErrorCode = "VALIDATION_001"
	ValidationInvalidAmount ErrorCode = "VALIDATION_002"
	ValidationGeneral       ErrorCode = "VALIDATION_003"
)

// Authorization error codes (AUTH_*)
const (
	AuthUnauthorized ErrorCode = "AUTH_001"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound          ErrorCode = "ACCOUNT_001"
	AccountNotActive         ErrorCode = "ACCOUNT_002"
	AccountInsufficientFunds ErrorCode = "ACCOUNT_003"
	AccountLimitExceeded     ErrorCode = "ACCOUNT_004"
	AccountInvalidTransition ErrorCode = "ACCOUNT_005"
)

// Hold error codes (HOLD_*)
const (
	HoldNotFound        ErrorCode = "HOLD_001"
	HoldAlreadyReleased ErrorCode = "HOLD_002"
)

// System error codes (SYSTEM_*)
const (
	SystemIDGenerationExhausted ErrorCode = "SYSTEM_001"
	SystemLockTimeout           ErrorCode = "SYSTEM_002"
	SystemDatabaseError         ErrorCode = "SYSTEM_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	ValidationInvalidShape:  "Transaction accounts do not match its type",
	ValidationInvalidAmount: "Amount must be positive",
	ValidationGeneral:       "Validation failed",

	AuthUnauthorized: "Not authorized to operate on this account",

	AccountNotFound:          "Account not found",
	AccountNotActive:         "Account is not active",
	AccountInsufficientFunds: "Insufficient available balance",
	AccountLimitExceeded:     "Account limit exceeded",
	AccountInvalidTransition: "Invalid account state transition",

	HoldNotFound:        "Hold not found",
	HoldAlreadyReleased: "Hold is no longer active",

	SystemIDGenerationExhausted: "Failed to generate a unique identifier",
	SystemLockTimeout:           "Account is busy, please retry",
	SystemDatabaseError:         "Database error",
}

// retryableCodes are execution-phase failures the caller may retry; all
// validation failures are final.
var retryableCodes = map[ErrorCode]bool{
	SystemLockTimeout:   true,
	SystemDatabaseError: true,
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsRetryable reports whether the caller may retry the operation that
// produced this code.
func IsRetryable(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
