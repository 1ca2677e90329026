package domain

import "fmt"

// ValidationError reports malformed or out-of-range caller input: an invalid
// state code, a score outside [0,100], a non-positive top-N, or an unknown
// tier label. The run fails before any output is written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports an inconsistent weight vector or other
// configuration problem detected before any computation begins.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// DataError reports a missing or unreadable input artifact, or a county
// record missing required fields. County is empty for artifact-level
// failures, which are fatal; per-county failures are skipped with a warning.
type DataError struct {
	County string
	Msg    string
	Err    error
}

func (e *DataError) Error() string {
	if e.County != "" {
		return fmt.Sprintf("county %s: %s", e.County, e.Msg)
	}
	return e.Msg
}

func (e *DataError) Unwrap() error { return e.Err }
