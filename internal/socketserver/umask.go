package socketserver

import "golang.org/x/sys/unix"

// withUmask runs fn with the process creation mask set to mask, restoring
// the previous mask on every exit path. The mutation is process-wide and
// non-reentrant: concurrent binds would observe each other's mask, so this
// must wrap a single bind at a time. The listener calls it exactly once.
func withUmask(mask int, fn func() error) error {
	previous := unix.Umask(mask)
	defer unix.Umask(previous)
	return fn()
}
