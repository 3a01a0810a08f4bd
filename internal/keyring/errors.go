package keyring

import "fmt"

// UnknownUserError is returned when the keyring owner cannot be found in
// the user database.
type UnknownUserError struct {
	Username string
	Err      error
}

func (e *UnknownUserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown keyring user %q: %v", e.Username, e.Err)
	}
	return fmt.Sprintf("unknown keyring user %q", e.Username)
}

func (e *UnknownUserError) Unwrap() error {
	return e.Err
}

// SocketNotFoundError is returned when the configured bus socket does not
// exist or cannot be inspected.
type SocketNotFoundError struct {
	Path string
	Err  error
}

func (e *SocketNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bus socket %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("bus socket %s not found", e.Path)
}

func (e *SocketNotFoundError) Unwrap() error {
	return e.Err
}

// NotASocketError is returned when the configured bus address exists but is
// not a socket special file.
type NotASocketError struct {
	Path string
}

func (e *NotASocketError) Error() string {
	return fmt.Sprintf("path %s is not a socket", e.Path)
}

// AmbiguousContextError is returned when a keyring user is configured
// without the bus socket of that user's session.
type AmbiguousContextError struct {
	Username string
}

func (e *AmbiguousContextError) Error() string {
	return fmt.Sprintf("keyring user %q requires an explicit bus socket address", e.Username)
}

// SecretNotFoundError is returned when the store holds no entry for a
// reference.
type SecretNotFoundError struct {
	Ref Reference
}

func (e *SecretNotFoundError) Error() string {
	return fmt.Sprintf("no keyring entry for service %q, account %q", e.Ref.Service, e.Ref.Account)
}

// ElevationError is returned when the effective user id cannot be switched
// to or back from the keyring owner.
type ElevationError struct {
	UID int
	Err error
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("switch effective uid to %d: %v", e.UID, e.Err)
}

func (e *ElevationError) Unwrap() error {
	return e.Err
}
