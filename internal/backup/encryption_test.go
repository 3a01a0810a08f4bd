package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/dupcomp/internal/keyring"
)

func TestEncryption_Disabled(t *testing.T) {
	t.Parallel()

	e, err := NewEncryption(map[string]interface{}{
		"enabled": false,
		// Keys next to a disabled block are ignored.
		"gpg_key": "ABCDEF01",
	}, nil)
	require.NoError(t, err)

	assert.False(t, e.Enabled())
	assert.Equal(t, []string{"--no-encryption"}, e.Cmd())
	env, err := e.Env()
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestEncryption_Enabled(t *testing.T) {
	t.Parallel()

	e, err := NewEncryption(map[string]interface{}{
		"enabled":        true,
		"gpg_key":        "ABCDEF01",
		"gpg_passphrase": "correct horse",
	}, nil)
	require.NoError(t, err)

	assert.True(t, e.Enabled())
	assert.Equal(t, "ABCDEF01", e.KeyID())
	assert.Equal(t, []string{"--encrypt-key=ABCDEF01", "--sign-key=ABCDEF01"}, e.Cmd())

	env, err := e.Env()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{EnvPassphrase: "correct horse"}, env)
}

func TestEncryption_KeyringPassphrase(t *testing.T) {
	t.Parallel()

	secrets := &fakeSecrets{values: map[keyring.Reference]string{
		{Service: "gpg", Account: "backup"}: "from keyring",
	}}
	e, err := NewEncryption(map[string]interface{}{
		"enabled":        true,
		"gpg_key":        "ABCDEF01",
		"gpg_passphrase": []interface{}{"gpg", "backup"},
	}, secrets)
	require.NoError(t, err)

	env, err := e.Env()
	require.NoError(t, err)
	assert.Equal(t, "from keyring", env[EnvPassphrase])
}

func TestEncryption_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      map[string]interface{}
		wantField string
		check     func(t *testing.T, err error)
	}{
		{
			name: "missing_enabled",
			data: map[string]interface{}{},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "enabled", target.Field)
			},
		},
		{
			name: "enabled_is_string",
			data: map[string]interface{}{"enabled": "yes"},
			check: func(t *testing.T, err error) {
				var target *InvalidFlagError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "yes", target.Value)
			},
		},
		{
			name: "enabled_is_int",
			data: map[string]interface{}{"enabled": 1},
			check: func(t *testing.T, err error) {
				var target *InvalidFlagError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "missing_key",
			data: map[string]interface{}{"enabled": true, "gpg_passphrase": "x"},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "gpg_key", target.Field)
			},
		},
		{
			name: "missing_passphrase",
			data: map[string]interface{}{"enabled": true, "gpg_key": "ABCDEF01"},
			check: func(t *testing.T, err error) {
				var target *MissingFieldError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "gpg_passphrase", target.Field)
			},
		},
		{
			name: "reference_without_resolver",
			data: map[string]interface{}{
				"enabled":        true,
				"gpg_key":        "ABCDEF01",
				"gpg_passphrase": []interface{}{"gpg", "backup"},
			},
			check: func(t *testing.T, err error) {
				var target *MissingContextError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "encryption.gpg_passphrase", target.Field)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEncryption(tt.data, nil)
			tt.check(t, err)
		})
	}
}
