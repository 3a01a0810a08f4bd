package backup

import (
	"github.com/systmms/dupcomp/internal/secure"
)

// Encryption holds the GPG settings of a group.
type Encryption struct {
	enabled    bool
	keyID      string
	passphrase *secure.SecureBuffer
}

// NewEncryption validates the encryption block of a group. An enabled block
// needs gpg_key and gpg_passphrase; a keyring passphrase is resolved here.
func NewEncryption(data map[string]interface{}, secrets SecretResolver) (*Encryption, error) {
	raw, ok := data["enabled"]
	if !ok {
		return nil, &MissingFieldError{Scope: "encryption", Field: "enabled"}
	}
	enabled, ok := raw.(bool)
	if !ok {
		return nil, &InvalidFlagError{Field: "encryption.enabled", Value: raw}
	}
	if !enabled {
		return &Encryption{}, nil
	}

	for _, field := range []string{"gpg_key", "gpg_passphrase"} {
		if _, ok := data[field]; !ok {
			return nil, &MissingFieldError{Scope: "encryption", Field: field}
		}
	}

	keyID, ok := data["gpg_key"].(string)
	if !ok || keyID == "" {
		return nil, &InvalidValueError{Field: "encryption.gpg_key", Value: data["gpg_key"], Reason: "expected a non-empty string"}
	}

	passphrase, err := loadCredential("encryption.gpg_passphrase", data["gpg_passphrase"], secrets)
	if err != nil {
		return nil, err
	}

	return &Encryption{enabled: true, keyID: keyID, passphrase: passphrase}, nil
}

// Enabled reports whether backups are encrypted.
func (e *Encryption) Enabled() bool {
	return e.enabled
}

// KeyID returns the GPG key used for encryption and signing.
func (e *Encryption) KeyID() string {
	return e.keyID
}

// Cmd returns the engine flags for this policy.
func (e *Encryption) Cmd() []string {
	if !e.enabled {
		return []string{"--no-encryption"}
	}
	return []string{
		"--encrypt-key=" + e.keyID,
		"--sign-key=" + e.keyID,
	}
}

// Env returns the passphrase variable when encryption is enabled.
func (e *Encryption) Env() (map[string]string, error) {
	env := map[string]string{}
	if !e.enabled {
		return env, nil
	}
	if err := revealInto(env, EnvPassphrase, e.passphrase); err != nil {
		return nil, err
	}
	return env, nil
}
