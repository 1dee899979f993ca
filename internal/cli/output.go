package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess        = 0
	ExitFailure        = 1
	ExitCommandError   = 2
	ExitAuthentication = 3
	ExitAccessDenied   = 4
	ExitNotFound       = 5
	ExitConflict       = 6
	ExitResourceDenied = 7
	ExitStoreFailure   = 8
)

var exitCodes = map[string]int{
	appErrors.ErrValidation.Code:            ExitCommandError,
	appErrors.ErrAuthenticationFailed.Code:  ExitAuthentication,
	appErrors.ErrUnauthorized.Code:          ExitAccessDenied,
	appErrors.ErrForbidden.Code:             ExitAccessDenied,
	appErrors.ErrNotFound.Code:              ExitNotFound,
	appErrors.ErrConflict.Code:              ExitConflict,
	appErrors.ErrResourceDenied.Code:        ExitResourceDenied,
	appErrors.ErrStoreUnavailable.Code:      ExitStoreFailure,
	appErrors.ErrPersistenceCorruption.Code: ExitStoreFailure,
}

// usageCode marks cobra argument and flag errors.
const usageCode = "USAGE_ERROR"

// ExitError carries an exit code for errors that are not portal errors.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		if code, ok := exitCodes[appErr.Code]; ok {
			return code
		}
	}
	return ExitFailure
}

// errorCode returns the stable code shown to the user.
func errorCode(err error) (code, message string) {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		return usageCode, err.Error()
	}
	return appErrors.ErrInternal.Code, err.Error()
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes data as JSON, or calls text for human output.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	if text != nil {
		text(f.Writer)
		return nil
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(err error) error {
	code, message := errorCode(err)
	var details interface{}
	if f.Verbose && err.Error() != message {
		details = err.Error()
	}
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.errWriter(), "Error [%s]: %s\n", code, message)
	if details != nil {
		fmt.Fprintf(f.errWriter(), "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes diagnostics when verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	return tw
}

func isPortalError(err error) bool {
	var appErr *appErrors.Error
	return errors.As(err, &appErr)
}
