package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/systmms/dupcomp/internal/backup"
	"github.com/systmms/dupcomp/internal/keyring"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"duplicity": "Install duplicity 0.7 or later, e.g. 'apt install duplicity' or 'pip install duplicity'",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}

// Suggest returns a hint for errors raised while building a backup
// configuration or reading the keyring. It returns "" when it has none.
func Suggest(err error) string {
	var (
		missingField *backup.MissingFieldError
		invalidFlag  *backup.InvalidFlagError
		prefixKind   *backup.InvalidPrefixKindError
		badPath      *backup.PathValidationError
		provider     *backup.UnrecognizedProviderError
		noContext    *backup.MissingContextError
		unknownGroup *backup.UnknownGroupError
		unknownUser  *keyring.UnknownUserError
		noSocket     *keyring.SocketNotFoundError
		notSocket    *keyring.NotASocketError
		ambiguous    *keyring.AmbiguousContextError
		notFound     *keyring.SecretNotFoundError
		elevation    *keyring.ElevationError
	)

	switch {
	case errors.As(err, &missingField):
		return fmt.Sprintf("Add '%s' to %s", missingField.Field, missingField.Scope)
	case errors.As(err, &invalidFlag):
		return fmt.Sprintf("Set %s to true or false without quotes", invalidFlag.Field)
	case errors.As(err, &prefixKind):
		return "Use only archive, manifest and signature under backup_file_prefixes"
	case errors.As(err, &badPath):
		return "Use paths without a leading '-', backslashes or control characters"
	case errors.As(err, &provider):
		return "Start backup_provider.url with file://, s3:// or scp://"
	case errors.As(err, &noContext):
		return "Keyring references need a keyring; check that the Secret Service is reachable"
	case errors.As(err, &unknownGroup):
		return "List the configured groups with 'dupcomp groups'"
	case errors.As(err, &unknownUser):
		return fmt.Sprintf("Check that the user '%s' exists on this host", unknownUser.Username)
	case errors.As(err, &noSocket), errors.As(err, &notSocket):
		return "Pass the keyring owner's session bus socket, usually /run/user/<uid>/bus"
	case errors.As(err, &ambiguous):
		return "Add --keyring-socket with the session bus socket of " + ambiguous.Username
	case errors.As(err, &notFound):
		return fmt.Sprintf("Store the secret first: secret-tool store --label=dupcomp service %s username %s",
			notFound.Ref.Service, notFound.Ref.Account)
	case errors.As(err, &elevation):
		return "Reading another user's keyring requires running as root"
	}
	return ""
}

// Explain wraps a configuration build failure in a UserError carrying a
// suggestion from Suggest.
func Explain(message string, err error) error {
	if err == nil {
		return nil
	}
	return UserError{
		Message:    message,
		Details:    err.Error(),
		Suggestion: Suggest(err),
		Err:        err,
	}
}

// SimplifyError turns low-level YAML and filesystem errors into messages
// for users. Errors that already carry context are returned unchanged.
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	switch err.(type) {
	case UserError, ConfigError, CommandError:
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) || strings.HasPrefix(rootErr.Error(), "yaml: ") {
		return ConfigError{
			Message:    "Invalid YAML format: " + rootErr.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if errors.Is(err, fs.ErrPermission) {
		return UserError{
			Message:    "Permission denied",
			Details:    err.Error(),
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if errors.Is(err, fs.ErrNotExist) {
		return UserError{
			Message:    "File or directory not found",
			Details:    err.Error(),
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}
