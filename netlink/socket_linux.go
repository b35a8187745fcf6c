//go:build linux

package netlink

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wifinl/nl80211ctl/netlink/portid"
)

// minRecvBuffer is the minimum buffer size for one Receive call (spec §4.2:
// "16 KiB minimum, grow on truncation").
const minRecvBuffer = 16 * 1024

// DefaultTimeout is the receive deadline applied to a Socket created
// without an explicit timeout (spec §5: "default: 2 seconds").
const DefaultTimeout = 2 * time.Second

// Socket owns one kernel netlink endpoint bound to NETLINK_GENERIC. It is
// single-owner, single-threaded per spec §3/§5: callers must serialize
// their own concurrent use of one Socket.
type Socket struct {
	fd      int
	port    uint32
	seq     uint32
	timeout time.Duration
}

// Open creates and binds a netlink socket of protocol NETLINK_GENERIC with
// a process-unique local port (spec §6 "External Interfaces": "a socket of
// the AF_NETLINK family, protocol NETLINK_GENERIC (value 16)").
func Open() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_DGRAM, unix.NETLINK_GENERIC)
	if err != nil {
		return nil, fmt.Errorf("netlink: socket: %w", err)
	}
	port := portid.Next()
	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Pid: port}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netlink: bind: %w", err)
	}
	s := &Socket{fd: fd, port: port, timeout: DefaultTimeout}
	if err := s.setTimeout(s.timeout); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return s, nil
}

// SetTimeout changes the receive deadline applied to future Receive calls.
func (s *Socket) SetTimeout(d time.Duration) error {
	if err := s.setTimeout(d); err != nil {
		return err
	}
	s.timeout = d
	return nil
}

func (s *Socket) setTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	return unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

// Port returns the bound local port identifier.
func (s *Socket) Port() uint32 { return s.port }

// NextSeq returns the next sequence number and advances the counter. The
// Request–Response Engine calls this once per submitted request.
func (s *Socket) NextSeq() uint32 { return atomic.AddUint32(&s.seq, 1) }

// Send serializes and transmits one complete message in one datagram,
// assigning the socket's port and sequence to the header if the header
// does not already carry a sequence (spec §4.2 "Send").
func (s *Socket) Send(m *Message) error {
	if m.Header.Seq == 0 {
		m.Header.Seq = s.NextSeq()
	}
	m.Header.Port = s.port
	buf := m.Encode()
	to := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(s.fd, buf, 0, to); err != nil {
		return fmt.Errorf("netlink: sendto: %w", err)
	}
	return nil
}

// ErrTimeout is returned by Receive when the socket's deadline elapses
// before any data arrives (spec §4.2/§7 "Timeout").
var ErrTimeout = fmt.Errorf("netlink: receive timed out")

// Receive reads one datagram and splits it into the one or more netlink
// messages it contains (spec §4.2: "netlink permits multiple concatenated"
// messages per datagram). The datagram is first peeked with MSG_TRUNC,
// which reports its full length; if it does not fit, the buffer grows to
// that length and the peek is repeated before the datagram is consumed.
func (s *Socket) Receive() ([]*Message, error) {
	buf := make([]byte, minRecvBuffer)
	for {
		n, _, err := unix.Recvfrom(s.fd, buf, unix.MSG_PEEK|unix.MSG_TRUNC)
		if err != nil {
			if isTimeout(err) {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("netlink: recvfrom: %w", err)
		}
		if n > len(buf) {
			// Truncated: the datagram is still queued, so grow the
			// buffer to its full length and peek again.
			buf = make([]byte, n)
			continue
		}
		if n, _, err = unix.Recvfrom(s.fd, buf, 0); err != nil {
			return nil, fmt.Errorf("netlink: recvfrom: %w", err)
		}
		return splitDatagram(buf[:n])
	}
}

// splitDatagram walks a single recvfrom()'d buffer, which may contain more
// than one netlink message back to back, each aligned to its own declared
// length (spec §4.2).
func splitDatagram(b []byte) ([]*Message, error) {
	var out []*Message
	for len(b) > 0 {
		if len(b) < SizeofNlMsghdr {
			return nil, fmt.Errorf("%w: %d trailing bytes too short for a header", ErrDecode, len(b))
		}
		length := int(leUint32(b))
		if length < SizeofNlMsghdr || length > len(b) {
			return nil, fmt.Errorf("%w: declared length %d invalid for %d remaining bytes", ErrDecode, length, len(b))
		}
		m, err := ParseMessage(b[:length])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		b = b[length:]
	}
	return out, nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func isTimeout(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

// Close releases the kernel socket. The Socket is not usable afterward.
func (s *Socket) Close() error {
	return unix.Close(s.fd)
}
