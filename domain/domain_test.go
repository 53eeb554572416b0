package domain

import (
	"errors"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Error("Unwrap should return the cause")
	}

	// Without cause
	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewInvalidInputError(t *testing.T) {
	cause := errors.New("invalid")
	err := NewInvalidInputError("bad input", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("syntax error")
	err := NewParseError("test.js", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeParseError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeParseError, domainErr.Code)
	}
}

func TestNewAnalysisError(t *testing.T) {
	err := NewAnalysisError("analysis failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeAnalysisError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeAnalysisError, domainErr.Code)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("invalid config", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeConfigError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeConfigError, domainErr.Code)
	}
}

func TestNewOutputError(t *testing.T) {
	err := NewOutputError("write failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeOutputError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeOutputError, domainErr.Code)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("xml")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedFormat {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedFormat, domainErr.Code)
	}
	if domainErr.Message != "unsupported format: xml" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

// Output format tests

func TestOutputFormat_Constants(t *testing.T) {
	formats := map[OutputFormat]string{
		OutputFormatText: "text",
		OutputFormatJSON: "json",
		OutputFormatYAML: "yaml",
		OutputFormatCSV:  "csv",
		OutputFormatHTML: "html",
		OutputFormatDOT:  "dot",
	}

	for format, expected := range formats {
		if string(format) != expected {
			t.Errorf("OutputFormat %s should equal '%s'", format, expected)
		}
	}
}

// Risk level tests

func TestRiskLevel_Constants(t *testing.T) {
	levels := map[RiskLevel]string{
		RiskLevelLow:    "low",
		RiskLevelMedium: "medium",
		RiskLevelHigh:   "high",
	}

	for level, expected := range levels {
		if string(level) != expected {
			t.Errorf("RiskLevel %s should equal '%s'", level, expected)
		}
	}
}

// Error code constants tests

func TestErrorCodeConstants(t *testing.T) {
	codes := map[string]string{
		ErrCodeInvalidInput:      "INVALID_INPUT",
		ErrCodeFileNotFound:      "FILE_NOT_FOUND",
		ErrCodeParseError:        "PARSE_ERROR",
		ErrCodeAnalysisError:     "ANALYSIS_ERROR",
		ErrCodeConfigError:       "CONFIG_ERROR",
		ErrCodeOutputError:       "OUTPUT_ERROR",
		ErrCodeUnsupportedFormat: "UNSUPPORTED_FORMAT",
	}

	for code, expected := range codes {
		if code != expected {
			t.Errorf("Error code should be '%s', got '%s'", expected, code)
		}
	}
}
