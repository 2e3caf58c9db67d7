package errors

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

// TestCodesTestSuite runs the test suite
func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func allErrorCodes() []ErrorCode {
	return []ErrorCode{
		ValidationInvalidShape,
		ValidationInvalidAmount,
		ValidationGeneral,
		AuthUnauthorized,
		AccountNotFound,
		AccountNotActive,
		AccountInsufficientFunds,
		AccountLimitExceeded,
		AccountInvalidTransition,
		HoldNotFound,
		HoldAlreadyReleased,
		SystemIDGenerationExhausted,
		SystemLockTimeout,
		SystemDatabaseError,
	}
}

// TestGetErrorMessage_ValidCode tests getting message for valid error codes
func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{
			name:     "Invalid Shape",
			code:     ValidationInvalidShape,
			expected: "Transaction accounts do not match its type",
		},
		{
			name:     "Unauthorized",
			code:     AuthUnauthorized,
			expected: "Not authorized to operate on this account",
		},
		{
			name:     "Insufficient Funds",
			code:     AccountInsufficientFunds,
			expected: "Insufficient available balance",
		},
		{
			name:     "Invalid Transition",
			code:     AccountInvalidTransition,
			expected: "Invalid account state transition",
		},
		{
			name:     "Hold Already Released",
			code:     HoldAlreadyReleased,
			expected: "Hold is no longer active",
		},
		{
			name:     "Lock Timeout",
			code:     SystemLockTimeout,
			expected: "Account is busy, please retry",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			message := GetErrorMessage(tc.code)
			s.Equal(tc.expected, message)
		})
	}
}

// TestGetErrorMessage_InvalidCode tests getting message for invalid error code
func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	message := GetErrorMessage("INVALID_CODE")
	s.Equal("An error occurred", message)
}

// TestIsValidErrorCode_ValidCodes tests validation of valid error codes
func (s *CodesTestSuite) TestIsValidErrorCode_ValidCodes() {
	for _, code := range allErrorCodes() {
		s.Run(string(code), func() {
			s.True(IsValidErrorCode(code), "Expected %s to be valid", code)
		})
	}
}

// TestIsValidErrorCode_InvalidCode tests validation of invalid error code
func (s *CodesTestSuite) TestIsValidErrorCode_InvalidCode() {
	invalidCodes := []ErrorCode{
		"INVALID_001",
		"UNKNOWN_CODE",
		"",
		"AUTH_999",
	}

	for _, code := range invalidCodes {
		s.Run(string(code), func() {
			s.False(IsValidErrorCode(code), "Expected %s to be invalid", code)
		})
	}
}

// TestIsRetryable ensures only execution-phase failures are retryable
func (s *CodesTestSuite) TestIsRetryable() {
	s.True(IsRetryable(SystemLockTimeout))
	s.True(IsRetryable(SystemDatabaseError))

	finalCodes := []ErrorCode{
		ValidationInvalidShape,
		ValidationInvalidAmount,
		ValidationGeneral,
		AuthUnauthorized,
		AccountNotFound,
		AccountNotActive,
		AccountInsufficientFunds,
		AccountLimitExceeded,
		AccountInvalidTransition,
		HoldNotFound,
		HoldAlreadyReleased,
		SystemIDGenerationExhausted,
	}
	for _, code := range finalCodes {
		s.Run(string(code), func() {
			s.False(IsRetryable(code), "Expected %s to be final", code)
		})
	}
}

// TestErrorCodeConstants_Uniqueness ensures all error codes are unique
func (s *CodesTestSuite) TestErrorCodeConstants_Uniqueness() {
	seen := make(map[ErrorCode]bool)
	for _, code := range allErrorCodes() {
		s.False(seen[code], "Duplicate error code found: %s", code)
		seen[code] = true
	}
}

// TestErrorCodeConstants_Format ensures all error codes follow naming convention
func (s *CodesTestSuite) TestErrorCodeConstants_Format() {
	testCases := []struct {
		prefix string
		codes  []ErrorCode
	}{
		{
			prefix: "VALIDATION_",
			codes: []ErrorCode{
				ValidationInvalidShape,
				ValidationInvalidAmount,
				ValidationGeneral,
			},
		},
		{
			prefix: "AUTH_",
			codes: []ErrorCode{
				AuthUnauthorized,
			},
		},
		{
			prefix: "ACCOUNT_",
			codes: []ErrorCode{
				AccountNotFound,
				AccountNotActive,
				AccountInsufficientFunds,
				AccountLimitExceeded,
				AccountInvalidTransition,
			},
		},
		{
			prefix: "HOLD_",
			codes: []ErrorCode{
				HoldNotFound,
				HoldAlreadyReleased,
			},
		},
		{
			prefix: "SYSTEM_",
			codes: []ErrorCode{
				SystemIDGenerationExhausted,
				SystemLockTimeout,
				SystemDatabaseError,
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.prefix, func() {
			for _, code := range tc.codes {
				s.Contains(string(code), tc.prefix, "Error code %s should start with %s", code, tc.prefix)
			}
		})
	}
}

// TestAllErrorCodesHaveMessages ensures every error code has a message
func (s *CodesTestSuite) TestAllErrorCodesHaveMessages() {
	for _, code := range allErrorCodes() {
		s.Run(string(code), func() {
			message := GetErrorMessage(code)
			s.NotEmpty(message, "Error code %s should have a message", code)
			s.NotEqual("An error occurred", message, "Error code %s should have a specific message", code)
		})
	}
}
