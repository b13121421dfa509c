package signerd

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// socketBacklog caps pending connections between listen and accept.
const socketBacklog = 128

// listenUnix binds path and returns a listener whose socket file is
// restricted to mode 0600 before listen is called, so at no point can
// another user connect to a world-accessible socket.
func listenUnix(path string) (net.Listener, error) {
	if err := removeSocket(path); err != nil {
		return nil, fmt.Errorf("signerd: remove stale socket %q: %w", path, err)
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("signerd: socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("signerd: bind %q: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = unix.Close(fd)
		_ = removeSocket(path)
		return nil, fmt.Errorf("signerd: chmod %q: %w", path, err)
	}
	if err := unix.Listen(fd, socketBacklog); err != nil {
		_ = unix.Close(fd)
		_ = removeSocket(path)
		return nil, fmt.Errorf("signerd: listen %q: %w", path, err)
	}

	file := os.NewFile(uintptr(fd), path)
	defer file.Close()
	ln, err := net.FileListener(file)
	if err != nil {
		_ = removeSocket(path)
		return nil, fmt.Errorf("signerd: listener from fd: %w", err)
	}
	return ln, nil
}

// removeSocket unlinks path, treating absence as success.
func removeSocket(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
