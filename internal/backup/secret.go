package backup

import (
	"fmt"

	"github.com/systmms/dupcomp/internal/keyring"
	"github.com/systmms/dupcomp/internal/secure"
)

// SecretResolver looks up keyring references found in the configuration.
// *keyring.Resolver satisfies it.
type SecretResolver interface {
	Resolve(ref keyring.Reference) (string, error)
}

// loadCredential turns a credential field into a sealed buffer. The field is
// either a literal string or a [service, account] keyring reference, which
// is resolved right away.
func loadCredential(field string, value interface{}, secrets SecretResolver) (*secure.SecureBuffer, error) {
	if s, ok := value.(string); ok {
		return secure.NewSecureBufferFromString(s)
	}

	ref, err := parseReference(field, value)
	if err != nil {
		return nil, err
	}
	if secrets == nil {
		return nil, &MissingContextError{Field: field, Ref: ref}
	}
	plain, err := secrets.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return secure.NewSecureBufferFromString(plain)
}

func parseReference(field string, value interface{}) (keyring.Reference, error) {
	var parts []interface{}
	switch v := value.(type) {
	case []interface{}:
		parts = v
	case []string:
		for _, s := range v {
			parts = append(parts, s)
		}
	default:
		return keyring.Reference{}, &InvalidValueError{
			Field:  field,
			Value:  value,
			Reason: "expected a string or a [service, account] keyring reference",
		}
	}

	if len(parts) != 2 {
		return keyring.Reference{}, &InvalidValueError{
			Field:  field,
			Value:  value,
			Reason: fmt.Sprintf("keyring reference needs exactly 2 items, got %d", len(parts)),
		}
	}
	service, ok1 := parts[0].(string)
	account, ok2 := parts[1].(string)
	if !ok1 || !ok2 || service == "" || account == "" {
		return keyring.Reference{}, &InvalidValueError{
			Field:  field,
			Value:  value,
			Reason: "keyring reference items must be non-empty strings",
		}
	}
	return keyring.Reference{Service: service, Account: account}, nil
}

// revealInto opens buf and stores it in env under key.
func revealInto(env map[string]string, key string, buf *secure.SecureBuffer) error {
	value, err := buf.Reveal()
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	env[key] = value
	return nil
}
