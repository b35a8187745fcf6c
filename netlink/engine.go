package netlink

import (
	"fmt"
	"syscall"
	"time"
)

// transport is the seam Execute and ResolveFamily drive requests through.
// *Socket is the only production implementation; spec §8's boundary
// scenarios are tests that instead supply a captured-bytes fake satisfying
// this interface, with no live kernel involved.
type transport interface {
	Send(m *Message) error
	Receive() ([]*Message, error)
}

// Conn is the full surface a Handle needs from a Socket: the transport
// plus the lifecycle and addressing methods package wifi calls directly.
// Exported so callers (and tests) can substitute a fake Socket while
// keeping Handle's field concretely typed.
type Conn interface {
	transport
	SetTimeout(d time.Duration) error
	Close() error
	Port() uint32
	NextSeq() uint32
}

// Execute drives exactly one logical request–response operation on s (spec
// §4.4). req's flags must already reflect the caller's intent — FlagRequest
// always, plus FlagAck for a single-reply command or FlagDump for one that
// enumerates. dump tells Execute whether to expect a NLMSG_DONE terminator
// (true) or a single ack/error (false).
//
// Replies accumulate in submission order and are returned once a terminal
// condition is observed: an ack (dump=false) or a done marker (dump=true)
// ends the stream successfully; a non-zero errno ends it with an error.
// With dump=false, a single reply that does not carry FlagMulti also ends
// the stream successfully.
// Because one Socket drives only one outstanding request, replies are never
// interleaved with another request's replies on the same handle (spec
// §4.4 "Ordering").
func Execute(s transport, req *Message, dump bool) ([]*Message, error) {
	if err := s.Send(req); err != nil {
		return nil, err
	}
	seq := req.Header.Seq

	var replies []*Message
	for {
		msgs, err := s.Receive()
		if err != nil {
			return replies, err
		}
		for _, m := range msgs {
			if m.Header.Seq != seq {
				// A reply belonging to a stale or foreign request; the
				// engine only ever has one outstanding request per
				// socket, so this indicates kernel-side multiplexing we
				// are not expecting. Skip rather than misattribute.
				continue
			}
			switch m.Header.Type {
			case TypeError:
				errno, derr := m.ErrnoOf()
				if derr != nil {
					return replies, derr
				}
				if errno == 0 {
					// ACK: operation succeeded, no more data expected.
					return replies, nil
				}
				return replies, &OpError{Errno: syscall.Errno(-errno), Op: "netlink"}
			case TypeDone:
				if !dump {
					return replies, fmt.Errorf("%w: unexpected NLMSG_DONE on non-dump request", ErrDecode)
				}
				return replies, nil
			default:
				replies = append(replies, m)
				if !dump && m.Header.Flags&FlagMulti == 0 {
					// A single non-multi reply with no trailing ack is
					// itself the terminal condition for plain requests
					// some kernels answer without the control ack.
					return replies, nil
				}
			}
		}
	}
}
