package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Firmware rejected (invalid file, no signature, etc.)
	ExitCommandError = 2 // Command error (unreadable file, bad config, etc.)
)

// Error codes reported in JSON output.
const (
	ErrCodeInvalid  = "INVALID"
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeParse    = "PARSE"
	ErrCodeConfig   = "CONFIG"
	ErrCodeIO       = "IO"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" | "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failure in JSON output.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
	Color  bool
}

// newFormatter creates a formatter writing to w. Colour is enabled only
// when w is a terminal.
func newFormatter(format string, w io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format: format,
		Writer: w,
		Color:  isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// JSON reports whether JSON output was requested.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes data as an "ok" JSON response.
func (f *OutputFormatter) Success(data any) error {
	return f.writeJSON(CLIResponse{Status: "ok", Data: data})
}

// Error writes an "error" JSON response, or a failure line in text mode.
func (f *OutputFormatter) Error(code, message string, data any) error {
	if f.JSON() {
		return f.writeJSON(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	f.Fail("%s", message)
	return nil
}

// Pass writes a text line marked as success.
func (f *OutputFormatter) Pass(format string, args ...any) {
	f.mark("✓", "\x1b[32m", format, args...)
}

// Fail writes a text line marked as failure.
func (f *OutputFormatter) Fail(format string, args ...any) {
	f.mark("✗", "\x1b[31m", format, args...)
}

// Printf writes unmarked text.
func (f *OutputFormatter) Printf(format string, args ...any) {
	fmt.Fprintf(f.Writer, format, args...)
}

func (f *OutputFormatter) mark(symbol, color, format string, args ...any) {
	if f.Color {
		symbol = color + symbol + "\x1b[0m"
	}
	fmt.Fprintf(f.Writer, "%s %s\n", symbol, fmt.Sprintf(format, args...))
}

func (f *OutputFormatter) writeJSON(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
