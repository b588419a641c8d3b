// Package errors provides structured error types for vidproof operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindAssetNotFound means the asset path does not exist.
	KindAssetNotFound ErrorKind = iota
	// KindAssetNotReadable means the asset exists but cannot be opened.
	KindAssetNotReadable
	// KindToolUnavailable means a required external binary is missing.
	KindToolUnavailable
	// KindExtractionFailure means zero frames could be extracted.
	KindExtractionFailure
	// KindEncodingFailure means a single frame could not be encoded.
	KindEncodingFailure
	// KindServiceError means the vision service call failed (transport or timeout).
	KindServiceError
	// KindParseError means the vision response contained no recoverable JSON.
	KindParseError
	// KindCommand represents external command execution errors.
	KindCommand
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAssetNotFound:
		return "Asset not found"
	case KindAssetNotReadable:
		return "Asset not readable"
	case KindToolUnavailable:
		return "Tool unavailable"
	case KindExtractionFailure:
		return "Frame extraction failed"
	case KindEncodingFailure:
		return "Frame encoding failed"
	case KindServiceError:
		return "Vision service error"
	case KindParseError:
		return "Response parse error"
	case KindCommand:
		return "Command error"
	case KindConfig:
		return "Configuration error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandTimeout means the command exceeded its deadline.
	CommandTimeout
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandTimeout:
		return fmt.Sprintf("command %s timed out: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for vidproof operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Suggestion string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewAssetNotFoundError creates an error for a missing asset path.
func NewAssetNotFoundError(path string) *CoreError {
	return &CoreError{Kind: KindAssetNotFound, Message: fmt.Sprintf("asset does not exist: %s", path)}
}

// NewAssetNotReadableError creates an error for an unreadable asset.
func NewAssetNotReadableError(path string, underlying error) *CoreError {
	return &CoreError{Kind: KindAssetNotReadable, Message: fmt.Sprintf("asset cannot be read: %s", path), Underlying: underlying}
}

// NewToolUnavailableError creates an error for a missing external binary.
// The suggestion carries installation guidance for the user.
func NewToolUnavailableError(tool string) *CoreError {
	return &CoreError{
		Kind:       KindToolUnavailable,
		Message:    fmt.Sprintf("%s is not installed or not on PATH", tool),
		Suggestion: installSuggestion(tool),
	}
}

func installSuggestion(tool string) string {
	switch tool {
	case "ffmpeg", "ffprobe":
		return "install ffmpeg (e.g. 'sudo apt-get install ffmpeg' or 'brew install ffmpeg')"
	case "mediainfo":
		return "install mediainfo (e.g. 'sudo apt-get install mediainfo' or 'brew install mediainfo')"
	default:
		return fmt.Sprintf("install %s and ensure it is on PATH", tool)
	}
}

// NewExtractionFailureError creates an error for a run that produced no frames.
func NewExtractionFailureError(path string) *CoreError {
	return &CoreError{Kind: KindExtractionFailure, Message: fmt.Sprintf("no frames could be extracted from %s", path)}
}

// NewEncodingFailureError creates an error for a single undecodable frame.
func NewEncodingFailureError(framePath string, underlying error) *CoreError {
	return &CoreError{Kind: KindEncodingFailure, Message: fmt.Sprintf("frame could not be encoded: %s", framePath), Underlying: underlying}
}

// NewServiceError creates an error for a failed vision service call.
func NewServiceError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindServiceError, Message: message, Underlying: underlying}
}

// NewParseError creates an error for an unparseable vision response.
// rawText should already be truncated by the caller.
func NewParseError(rawText string) *CoreError {
	return &CoreError{Kind: KindParseError, Message: fmt.Sprintf("no JSON object found in response: %q", rawText)}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// Kind extracts the ErrorKind from an error chain, or KindCommand, false when absent.
func Kind(err error) (ErrorKind, bool) {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind, true
	}
	return KindCommand, false
}

// SuggestionFor returns the suggestion attached to an error, if any.
func SuggestionFor(err error) string {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Suggestion
	}
	return ""
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandError(cmd, CommandStart, err)
}
