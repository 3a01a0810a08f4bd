// Package keyring resolves secret references against the desktop credential
// store, optionally one owned by another local user.
//
// Reading another user's keyring needs two things: the process must run
// with that user's effective uid, and DBUS_SESSION_BUS_ADDRESS must point at
// that user's session bus. Resolve sets both for the duration of a single
// store query and always puts them back.
package keyring

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"strconv"
	"sync"
)

// SameUser is the target uid meaning "the caller's own identity".
const SameUser = -1

// BusAddressEnv is the variable the Secret Service client reads to find the
// session bus.
const BusAddressEnv = "DBUS_SESSION_BUS_ADDRESS"

// Identity reads and switches the process effective user id.
type Identity interface {
	Geteuid() int
	Seteuid(euid int) error
}

// Resolver holds the target identity and bus address used for keyring
// lookups. A single Resolver is shared by every component of a backup
// configuration that needs secrets.
type Resolver struct {
	mu         sync.Mutex
	store      Store
	identity   Identity
	lookupUser func(string) (*user.User, error)

	uid        int
	busAddress string
}

// NewResolver returns a resolver targeting the caller's own keyring on the
// caller's current session bus.
func NewResolver(store Store) *Resolver {
	return newResolver(store, osIdentity{}, user.Lookup)
}

func newResolver(store Store, identity Identity, lookup func(string) (*user.User, error)) *Resolver {
	return &Resolver{
		store:      store,
		identity:   identity,
		lookupUser: lookup,
		uid:        SameUser,
		busAddress: os.Getenv(BusAddressEnv),
	}
}

// UID returns the configured keyring owner, or SameUser.
func (r *Resolver) UID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uid
}

// BusAddress returns the bus address exported while querying the store.
func (r *Resolver) BusAddress() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busAddress
}

// Configure points the resolver at the keyring of username, reachable
// through the session bus socket at socketAddress. Passing only a socket
// keeps the caller's identity and changes the bus. Nothing is changed unless
// every check passes.
func (r *Resolver) Configure(username, socketAddress string) error {
	if username == "" && socketAddress == "" {
		return nil
	}
	if socketAddress == "" {
		return &AmbiguousContextError{Username: username}
	}

	uid := SameUser
	if username != "" {
		u, err := r.lookupUser(username)
		if err != nil {
			return &UnknownUserError{Username: username, Err: err}
		}
		id, err := strconv.Atoi(u.Uid)
		if err != nil {
			return &UnknownUserError{Username: username, Err: fmt.Errorf("non-numeric uid %q", u.Uid)}
		}
		// No switch is needed when we already run as the keyring owner.
		if id != r.identity.Geteuid() {
			uid = id
		}
	}

	if err := checkSocket(socketAddress); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if username != "" {
		r.uid = uid
	}
	r.busAddress = "unix:path=" + socketAddress
	return nil
}

func checkSocket(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SocketNotFoundError{Path: path}
		}
		return &SocketNotFoundError{Path: path, Err: err}
	}
	if info.Mode()&fs.ModeSocket == 0 {
		return &NotASocketError{Path: path}
	}
	return nil
}

// Resolve returns the secret stored under ref. The effective uid and the bus
// address variable are switched for the query and restored on every path.
func (r *Resolver) Resolve(ref Reference) (secret string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	release, err := r.elevate()
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			secret, err = "", rerr
		}
	}()

	value, err := r.store.Get(ref.Service, ref.Account)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", &SecretNotFoundError{Ref: ref}
		}
		return "", err
	}
	return value, nil
}

// elevate enters the keyring owner's context and returns the function that
// leaves it. Callers must hold r.mu.
func (r *Resolver) elevate() (func() error, error) {
	prevBus, hadBus := os.LookupEnv(BusAddressEnv)
	restoreEnv := func() error {
		if hadBus {
			return os.Setenv(BusAddressEnv, prevBus)
		}
		return os.Unsetenv(BusAddressEnv)
	}

	if r.busAddress != "" {
		if err := os.Setenv(BusAddressEnv, r.busAddress); err != nil {
			return nil, fmt.Errorf("set %s: %w", BusAddressEnv, err)
		}
	}

	callerUID := r.identity.Geteuid()
	switched := false
	if r.uid != SameUser && r.uid != callerUID {
		if err := r.identity.Seteuid(r.uid); err != nil {
			_ = restoreEnv()
			return nil, &ElevationError{UID: r.uid, Err: err}
		}
		switched = true
	}

	return func() error {
		var errs []error
		if switched {
			if err := r.identity.Seteuid(callerUID); err != nil {
				errs = append(errs, &ElevationError{UID: callerUID, Err: err})
			}
		}
		if err := restoreEnv(); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", BusAddressEnv, err))
		}
		return errors.Join(errs...)
	}, nil
}
