// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When a run fails, the CLI prints the code so users can quote it.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Not a CSV: Input or output path does not end in .csv
//	          Action: Use file names ending in .csv
//	          Matches: ErrExtension
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure file is comma-separated with no more columns than the header
//	          Matches: ErrInvalidCSV, "invalid csv"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save file as UTF-8 encoding
//	          Matches: ErrEncoding, "encoding error"
//
//	FILE004 - Not found: Input file does not exist
//	          Action: Check the input path and try again
//	          Matches: ErrNotFound
//
//	FILE005 - Empty file: The input file has no header line
//	          Action: Export the contacts again including the header row
//	          Matches: ErrEmptyFile, "empty file"
//
//	FILE006 - Output in use: The output file already exists
//	          Action: Choose a different output filename or remove the existing file
//	          Matches: ErrOutputConflict, ErrAlreadyExists
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: The Email column is missing from the CSV
//	         Action: Make sure the email column header is exactly "Email"
//	         Matches: ErrMissingColumn, "missing required column"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The run was interrupted
//	         Action: Remove the partial output file and run again
//	         Matches: context.Canceled, "context canceled"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log output for the underlying error
//
// # Matching
//
// Sentinels are checked with errors.Is first, in table order. If none match,
// message patterns are matched case-insensitively using strings.Contains.
// The first match wins, so more specific entries come first.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorTarget maps a sentinel error to its user message.
type errorTarget struct {
	target error
	msg    UserMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgExtension = UserMessage{
		Message: "Input and output files must be CSVs",
		Action:  "Use file names ending in .csv",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure file is comma-separated with no more columns than the header",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save file as UTF-8 encoding",
		Code:    "FILE003",
	}
	msgNotFound = UserMessage{
		Message: "Input file not found",
		Action:  "Check the input path and try again",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The input file is empty",
		Action:  "Export the contacts again including the header row",
		Code:    "FILE005",
	}
	msgOutputInUse = UserMessage{
		Message: "Output file already exists",
		Action:  "Choose a different output filename or remove the existing file and try again",
		Code:    "FILE006",
	}
	msgMissingColumn = UserMessage{
		Message: "Email column is missing from CSV",
		Action:  `Make sure the email column header is exactly "Email"`,
		Code:    "VAL004",
	}
	msgCancelled = UserMessage{
		Message: "Run was cancelled",
		Action:  "Remove the partial output file and run again",
		Code:    "RUN001",
	}
)

// errorTargets is checked with errors.Is before any pattern.
// ErrEmptyFile precedes ErrInvalidCSV since empty-file errors match both.
var errorTargets = []errorTarget{
	{target: ErrExtension, msg: msgExtension},
	{target: ErrOutputConflict, msg: msgOutputInUse},
	{target: ErrAlreadyExists, msg: msgOutputInUse},
	{target: ErrNotFound, msg: msgNotFound},
	{target: ErrEmptyFile, msg: msgEmptyFile},
	{target: ErrEncoding, msg: msgEncoding},
	{target: ErrInvalidCSV, msg: msgInvalidCSV},
	{target: ErrMissingColumn, msg: msgMissingColumn},
	{target: context.Canceled, msg: msgCancelled},
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that lost their sentinel, e.g. after crossing a process boundary.
var errorPatterns = []errorPattern{
	{pattern: "empty file", msg: msgEmptyFile},
	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "missing required column", msg: msgMissingColumn},
	{pattern: "context canceled", msg: msgCancelled},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for the underlying error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinels are matched with errors.Is, then message patterns, then the
// ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(&MissingColumnError{Column: "Email"})
//	// msg.Code == "VAL004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, et := range errorTargets {
		if errors.Is(err, et.target) {
			return et.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
