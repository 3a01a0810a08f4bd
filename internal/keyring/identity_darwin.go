package keyring

import "golang.org/x/sys/unix"

// osIdentity switches the effective user id of the whole process.
type osIdentity struct{}

func (osIdentity) Geteuid() int {
	return unix.Geteuid()
}

func (osIdentity) Seteuid(euid int) error {
	return unix.Seteuid(euid)
}
