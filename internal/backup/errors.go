package backup

import (
	"fmt"

	"github.com/systmms/dupcomp/internal/keyring"
)

// ConfigurationError reports a structural problem with the whole document.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// MissingFieldError reports a required key absent from a sub-structure.
// Scope names the structure, e.g. `group "web"` or "encryption".
type MissingFieldError struct {
	Scope string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Scope, e.Field)
}

// InvalidFlagError reports a flag that is present but not a boolean.
type InvalidFlagError struct {
	Field string
	Value interface{}
}

func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("%s must be true or false, got %v", e.Field, e.Value)
}

// InvalidModeError reports a mode other than backup or restore.
type InvalidModeError struct {
	Mode Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (expected %q or %q)", string(e.Mode), ModeBackup, ModeRestore)
}

// InvalidPrefixKindError reports an unknown backup_file_prefixes key.
type InvalidPrefixKindError struct {
	Kind string
}

func (e *InvalidPrefixKindError) Error() string {
	return fmt.Sprintf("%q is not a valid file prefix kind (expected archive, manifest or signature)", e.Kind)
}

// InvalidValueError reports a value of the wrong type or range.
type InvalidValueError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s (%v): %s", e.Field, e.Value, e.Reason)
}

// PathValidationError reports an empty path or one carrying characters that
// are unsafe on the engine's command line.
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// UnrecognizedProviderError reports a url whose scheme selects no provider.
type UnrecognizedProviderError struct {
	URL string
}

func (e *UnrecognizedProviderError) Error() string {
	return fmt.Sprintf("URL %s is not recognized (expected file://, s3:// or scp://)", e.URL)
}

// MissingContextError reports a secret reference in a configuration that
// was built without a keyring resolver.
type MissingContextError struct {
	Field string
	Ref   keyring.Reference
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("%s refers to keyring entry %s but no keyring is available", e.Field, e.Ref)
}

// GroupError attributes a construction failure to a backup group.
type GroupError struct {
	Group string
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("backup group %q: %v", e.Group, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}
