package errors_test

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/systmms/dupcomp/internal/backup"
	"github.com/systmms/dupcomp/internal/errors"
	"github.com/systmms/dupcomp/internal/keyring"
	"github.com/systmms/dupcomp/internal/logging"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Invalid configuration",
		Details:    `group "web": missing required field "volume_size"`,
		Suggestion: "Add 'volume_size' to the group",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Invalid configuration")
	assert.Contains(t, errMsg, "Details: group")
	assert.Contains(t, errMsg, "💡 Try: Add 'volume_size'")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "keyring.socket",
		Value:      "/run/user/1000/bus",
		Message:    "socket not found",
		Suggestion: "Log in as the keyring owner first",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "keyring.socket")
	assert.Contains(t, errMsg, "/run/user/1000/bus")
	assert.Contains(t, errMsg, "socket not found")
	assert.Contains(t, errMsg, "Log in as the keyring owner")
}

// TestCommandErrorFormatting verifies CommandError includes exit code
func TestCommandErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.CommandError{
		Command:  "duplicity --no-encryption --volsize 200 /etc file:///etc",
		ExitCode: 23,
		Message:  "backend error",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "duplicity --no-encryption")
	assert.Contains(t, errMsg, "exit code: 23")
	assert.Contains(t, errMsg, "backend error")
	assert.NotContains(t, errMsg, "💡")
}

func TestWrapCommandNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command            string
		expectedSuggestion string
	}{
		{"duplicity", "duplicity 0.7"},
		{"unknown-cmd", "in your PATH"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			err := errors.WrapCommandNotFound(tt.command, fmt.Errorf("executable file not found in $PATH"))

			errMsg := err.Error()
			assert.Contains(t, errMsg, tt.command)
			assert.Contains(t, errMsg, tt.expectedSuggestion)
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing_field",
			err:  &backup.MissingFieldError{Scope: `group "web"`, Field: "volume_size"},
			want: `Add 'volume_size' to group "web"`,
		},
		{
			name: "wrapped_in_group",
			err:  &backup.GroupError{Group: "web", Err: &backup.UnrecognizedProviderError{URL: "ftp://x"}},
			want: "file://, s3:// or scp://",
		},
		{
			name: "path",
			err:  &backup.PathValidationError{Path: "-x", Reason: "leading dash"},
			want: "leading '-'",
		},
		{
			name: "ambiguous",
			err:  &keyring.AmbiguousContextError{Username: "backup"},
			want: "--keyring-socket",
		},
		{
			name: "secret_not_found",
			err:  fmt.Errorf("encryption.gpg_passphrase: %w", &keyring.SecretNotFoundError{Ref: keyring.Reference{Service: "gpg", Account: "web"}}),
			want: "service gpg username web",
		},
		{
			name: "unknown_group",
			err:  &backup.UnknownGroupError{Name: "nope"},
			want: "dupcomp groups",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, errors.Suggest(tt.err), tt.want)
		})
	}

	assert.Empty(t, errors.Suggest(fmt.Errorf("plain")))
}

func TestExplain(t *testing.T) {
	t.Parallel()

	cause := &backup.GroupError{Group: "web", Err: &backup.InvalidFlagError{Field: "encryption.enabled", Value: "yes"}}
	err := errors.Explain("Invalid backup configuration", cause)

	var userErr errors.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Invalid backup configuration", userErr.Message)
	assert.Contains(t, userErr.Details, `backup group "web"`)
	assert.Contains(t, userErr.Suggestion, "true or false")

	var flagErr *backup.InvalidFlagError
	assert.ErrorAs(t, err, &flagErr)

	assert.Nil(t, errors.Explain("unused", nil))
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	var node struct{ Size int }
	typeErr := yaml.Unmarshal([]byte("size: big"), &node)
	require.Error(t, typeErr)
	syntaxErr := yaml.Unmarshal([]byte("a: [1"), &node)
	require.Error(t, syntaxErr)

	tests := []struct {
		name          string
		inputError    error
		expectedType  string
		expectedInMsg string
	}{
		{
			name:          "yaml_syntax",
			inputError:    fmt.Errorf("parse: %w", syntaxErr),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid YAML",
		},
		{
			name:          "yaml_type",
			inputError:    fmt.Errorf("decode: %w", typeErr),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid YAML",
		},
		{
			name:          "permission_denied_on_yaml_file",
			inputError:    &fs.PathError{Op: "open", Path: "/etc/dupcomp.yaml", Err: fs.ErrPermission},
			expectedType:  "UserError",
			expectedInMsg: "Permission denied",
		},
		{
			name:          "file_not_found",
			inputError:    fmt.Errorf("read cache: %w", &fs.PathError{Op: "open", Path: "/etc/x.yml.cached", Err: fs.ErrNotExist}),
			expectedType:  "UserError",
			expectedInMsg: "not found",
		},
		{
			name:          "already_friendly",
			inputError:    errors.CommandError{Command: "duplicity", Message: "yaml: not really"},
			expectedInMsg: "yaml: not really",
		},
		{
			name:          "mentions_yaml_only_in_text",
			inputError:    fmt.Errorf("backup of /srv/app.yaml failed"),
			expectedInMsg: "backup of /srv/app.yaml failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)
			assert.Contains(t, simplified.Error(), tt.expectedInMsg)

			switch tt.expectedType {
			case "ConfigError":
				_, ok := simplified.(errors.ConfigError)
				assert.True(t, ok, "Should be ConfigError type")
			case "UserError":
				_, ok := simplified.(errors.UserError)
				assert.True(t, ok, "Should be UserError type")
			default:
				assert.Equal(t, tt.inputError, simplified)
			}
		})
	}

	assert.Nil(t, errors.SimplifyError(nil))
}

func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("base error")
	userErr := errors.UserError{Message: "wrapped error", Err: baseErr}
	assert.Equal(t, baseErr, userErr.Unwrap())
}

func TestUserErrorKeepsSecretsRedacted(t *testing.T) {
	t.Parallel()

	secretValue := "gpg-passphrase-value"
	err := errors.UserError{
		Message: "duplicity rejected the passphrase",
		Details: fmt.Sprintf("PASSPHRASE=%s", logging.Secret(secretValue)),
	}
	assert.NotContains(t, err.Error(), secretValue)
	assert.Contains(t, err.Error(), "[REDACTED]")
}
