package netlink

import "syscall"

// OpError is the (errno, message) pair every netlink operation fails with
// at the wire-engine boundary (spec §4.6/§7). Errno follows the kernel's
// convention — it is the value decoded straight from the error/ack control
// message, never reinterpreted by this package.
type OpError struct {
	Op    string
	Errno syscall.Errno
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Errno.Error()
}

// Unwrap lets callers use errors.Is(err, someErrno) against the embedded
// syscall.Errno.
func (e *OpError) Unwrap() error { return e.Errno }
