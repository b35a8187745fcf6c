package wifi

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/wifinl/nl80211ctl/netlink"
)

// Errno is the taxonomy of failure classes at the operation boundary (spec
// §4.6). UNDEF is not a real kernel errno; it marks a decode failure that
// never reached the kernel at all.
type Errno int

const (
	// EINVAL: parameter out of range, unknown enum tag, bad address,
	// missing required component.
	EINVAL = Errno(syscall.EINVAL)
	// ENODEV: a referenced wiphy, device, or interface index does not
	// exist.
	ENODEV = Errno(syscall.ENODEV)
	// EOPNOTSUPP: a command the driver or kernel does not implement.
	EOPNOTSUPP = Errno(syscall.EOPNOTSUPP)
	// EAFNOSUPPORT surfaces unexpected address families from the ioctl
	// collaborator (see package ioctlnet).
	EAFNOSUPPORT = Errno(syscall.EAFNOSUPPORT)
	// EADDRNOTAVAIL surfaces an attempt to read/set an IP-family property
	// on an unaddressed interface via the ioctl collaborator.
	EADDRNOTAVAIL = Errno(syscall.EADDRNOTAVAIL)
	// EAGAIN is the errno class for a receive-deadline expiry.
	EAGAIN = Errno(syscall.EAGAIN)
	// UNDEF is this library's own decode-error class: a reply was
	// malformed or an expected attribute was absent. Never surfaced as a
	// kernel errno, per spec §7.
	UNDEF = Errno(-1)
)

func (e Errno) String() string {
	if e == UNDEF {
		return "UNDEF"
	}
	return syscall.Errno(e).Error()
}

// OpError is the single (errno, message) pair every wifi operation fails
// with (spec §4.6: "Every operation produces either a success value or a
// failure carrying (numeric errno, message)"). The core neither retries
// nor reinterprets these failures (spec §7 Policy); it is purely a
// pass-through from the kernel or a local validation/decode check.
type OpError struct {
	Op      string
	Errno   Errno
	Message string
}

func (e *OpError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Errno, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Errno)
}

func newError(op string, errno Errno, format string, args ...interface{}) *OpError {
	return &OpError{Op: op, Errno: errno, Message: fmt.Sprintf(format, args...)}
}

// wrapOpError converts whatever netlink.Execute returned into the single
// (errno, message) *OpError every wifi operation fails with (spec §4.6:
// "every operation produces either a success value or a failure carrying
// (numeric errno, message)"). A kernel NACK (*netlink.OpError), a receive
// timeout, and a wrapped transport syscall.Errno are all propagated with
// their real errno (spec §7 "Transport... propagated verbatim"); only a
// failure that never carried a kernel or transport errno at all — a
// malformed reply (netlink.ErrDecode) or anything else unrecognized —
// becomes UNDEF, this library's own decode-error class (spec §7: "never
// surfaced as a kernel errno"). err == nil returns nil.
func wrapOpError(op string, err error) error {
	if err == nil {
		return nil
	}
	if already, ok := err.(*OpError); ok {
		return already
	}

	var netErr *netlink.OpError
	if errors.As(err, &netErr) {
		return &OpError{Op: op, Errno: Errno(netErr.Errno), Message: netErr.Error()}
	}
	if errors.Is(err, netlink.ErrTimeout) {
		return &OpError{Op: op, Errno: EAGAIN, Message: err.Error()}
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &OpError{Op: op, Errno: Errno(errno), Message: err.Error()}
	}
	return &OpError{Op: op, Errno: UNDEF, Message: err.Error()}
}
