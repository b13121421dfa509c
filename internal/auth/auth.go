// Package auth provides minimal peer authentication helpers.
//
// It intentionally avoids policy decisions: callers choose whether a
// listener consults a Validator at all.
package auth

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

var ErrUnauthorized = errors.New("auth: unauthorized")

// Validator authorizes one accepted connection before any byte is
// read from it.
type Validator interface {
	Validate(conn net.Conn) error
}

// SameUser authorizes only peers whose effective UID matches UID.
// The socket file mode already gates connects; this additionally
// rejects privileged peers that bypass file permissions.
type SameUser struct {
	UID uint32
}

func (s SameUser) Validate(conn net.Conn) error {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return fmt.Errorf("%w: not a unix socket peer", ErrUnauthorized)
	}
	cred, err := peerCred(uc)
	if err != nil {
		return fmt.Errorf("auth: peer credentials: %w", err)
	}
	if cred.Uid != s.UID {
		return fmt.Errorf("%w: peer uid %d", ErrUnauthorized, cred.Uid)
	}
	return nil
}

// FuncValidator adapts a function into a Validator.
type FuncValidator func(conn net.Conn) error

func (f FuncValidator) Validate(conn net.Conn) error {
	return f(conn)
}

func peerCred(conn *net.UnixConn) (*unix.Ucred, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	var (
		cred    *unix.Ucred
		credErr error
	)
	if err := raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return nil, err
	}
	return cred, credErr
}
