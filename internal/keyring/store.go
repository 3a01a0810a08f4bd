package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

// ErrNotFound is returned by a Store that has no entry for the requested
// service and account.
var ErrNotFound = errors.New("keyring item not found")

// Store abstracts the external credential store so it can be faked in tests.
type Store interface {
	Get(service, account string) (string, error)
}

// SecretServiceStore reads from the desktop keyring (Secret Service on
// Linux) of whichever session DBUS_SESSION_BUS_ADDRESS points at.
type SecretServiceStore struct{}

// Get retrieves the secret stored under service and account.
func (SecretServiceStore) Get(service, account string) (string, error) {
	secret, err := gokeyring.Get(service, account)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring query for %s/%s: %w", service, account, err)
	}
	return secret, nil
}

var _ Store = SecretServiceStore{}
