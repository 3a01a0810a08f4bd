package keyring

import "golang.org/x/sys/unix"

// osIdentity switches the effective user id of the whole process.
type osIdentity struct{}

func (osIdentity) Geteuid() int {
	return unix.Geteuid()
}

// Seteuid leaves the real and saved ids alone so the caller's identity can
// be restored afterwards. x/sys applies setresuid to every thread.
func (osIdentity) Seteuid(euid int) error {
	return unix.Setresuid(-1, euid, -1)
}
