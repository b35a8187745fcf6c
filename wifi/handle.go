package wifi

import (
	"time"

	"github.com/wifinl/nl80211ctl/netlink"
)

// Handle owns one netlink Socket and the resolved nl80211 family
// identifier for it (spec §9 "One-shot vs persistent variants": "every
// operation takes a handle parameter; a free function wrapper constructs
// a scoped handle, invokes the operation, and releases the handle on all
// exit paths"). Handle is single-owner, single-threaded, matching the
// underlying Socket (spec §3/§5).
type Handle struct {
	sock   netlink.Conn
	family uint16

	// bandCandidates is the frequency table SetFrequencyTable installs for
	// the wiphy-bands scan fallback (spec §9).
	bandCandidates []uint32
}

// Open creates a scoped Socket, resolves the nl80211 family on it, and
// returns a ready-to-use Handle.
func Open() (*Handle, error) {
	s, err := netlink.Open()
	if err != nil {
		return nil, err
	}
	family, err := netlink.ResolveFamily(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return &Handle{sock: s, family: family}, nil
}

// SetTimeout changes the handle's receive deadline (spec §5 "caller
// configurable timeout").
func (h *Handle) SetTimeout(d time.Duration) error {
	return h.sock.SetTimeout(d)
}

// Close releases the underlying socket.
func (h *Handle) Close() error {
	return h.sock.Close()
}

// newRequest builds a message addressed to this handle's resolved nl80211
// family, carrying cmd and flags.
func (h *Handle) newRequest(flags uint16, cmd uint8) *netlink.Message {
	return netlink.NewMessage(h.family, flags, cmd)
}

// NewTestHandle builds a Handle around a caller-supplied netlink.Conn,
// bypassing Open's real socket and family resolution. Exported so other
// packages' tests (such as monitor's) can drive a Handle
// through a captured-bytes fake transport, per spec §8's boundary-scenario
// testing approach; no production code path calls it.
func NewTestHandle(conn netlink.Conn, family uint16) *Handle {
	return &Handle{sock: conn, family: family}
}

// withHandle is the free-function-wrapper pattern from spec §9: it opens a
// scoped Handle, invokes fn, and releases the handle on every exit path,
// for callers that do not want to own a persistent Handle across calls.
func withHandle(fn func(*Handle) error) error {
	h, err := Open()
	if err != nil {
		return err
	}
	defer h.Close()
	return fn(h)
}
