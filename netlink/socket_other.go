//go:build !linux

package netlink

import (
	"errors"
	"time"
)

// ErrUnsupported is returned by every Socket operation on platforms other
// than Linux. nl80211 is a Linux kernel interface; this stub exists only so
// that non-socket packages (the codec, the schema) still build elsewhere,
// matching the teacher's netlink_darwin.go/collector_darwin.go split.
var ErrUnsupported = errors.New("netlink: nl80211 sockets are only supported on linux")

// DefaultTimeout mirrors the Linux build's constant so callers can
// reference it unconditionally.
const DefaultTimeout = 2 * time.Second

// ErrTimeout mirrors the Linux build's sentinel for cross-platform callers
// that only compare against it, never trigger it.
var ErrTimeout = errors.New("netlink: receive timed out")

// Socket is an unusable placeholder on non-Linux platforms.
type Socket struct{}

// Open always fails on non-Linux platforms.
func Open() (*Socket, error) { return nil, ErrUnsupported }

func (s *Socket) SetTimeout(d time.Duration) error { return ErrUnsupported }
func (s *Socket) Port() uint32                     { return 0 }
func (s *Socket) NextSeq() uint32                  { return 0 }
func (s *Socket) Send(m *Message) error            { return ErrUnsupported }
func (s *Socket) Receive() ([]*Message, error)     { return nil, ErrUnsupported }
func (s *Socket) Close() error                     { return nil }
