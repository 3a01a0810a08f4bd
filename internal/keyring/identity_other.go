//go:build !linux && !darwin

package keyring

import (
	"errors"
	"os"
)

var errIdentityUnsupported = errors.New("switching the effective user id is not supported on this platform")

type osIdentity struct{}

func (osIdentity) Geteuid() int {
	return os.Geteuid()
}

func (osIdentity) Seteuid(int) error {
	return errIdentityUnsupported
}
