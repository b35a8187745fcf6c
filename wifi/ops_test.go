package wifi

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/wifinl/nl80211ctl/netlink"
	"github.com/wifinl/nl80211ctl/nl80211"
)

// fakeConn is the captured-bytes fake transport spec §8 asks boundary
// scenarios to use: a netlink.Conn with no live kernel behind it.
type fakeConn struct {
	sent    []*netlink.Message
	replies [][]*netlink.Message
	seq     uint32
	timeout time.Duration
	// recvDelay, when set, is slept before Receive returns its error —
	// used to model the no-data-available timeout scenario.
	recvDelay time.Duration
	recvErr   error
}

func (f *fakeConn) Send(m *netlink.Message) error {
	if m.Header.Seq == 0 {
		f.seq++
		m.Header.Seq = f.seq
	}
	f.sent = append(f.sent, m)
	for _, batch := range f.replies {
		for _, r := range batch {
			r.Header.Seq = m.Header.Seq
		}
	}
	return nil
}

func (f *fakeConn) Receive() ([]*netlink.Message, error) {
	if f.recvDelay > 0 {
		time.Sleep(f.recvDelay)
	}
	if f.recvErr != nil {
		return nil, f.recvErr
	}
	if len(f.replies) == 0 {
		return nil, netlink.ErrDecode
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next, nil
}

func (f *fakeConn) SetTimeout(d time.Duration) error { f.timeout = d; return nil }
func (f *fakeConn) Close() error                     { return nil }
func (f *fakeConn) Port() uint32                     { return 9000 }
func (f *fakeConn) NextSeq() uint32                  { f.seq++; return f.seq }

func newTestHandle(conn *fakeConn) *Handle {
	return &Handle{sock: conn, family: 0x1B}
}

// sentMessage re-parses a built (not yet decoded) outgoing message so its
// attributes become readable through Find/FindAll, which only look at a
// message's decoded attrs slice.
func sentMessage(m *netlink.Message) *netlink.Message {
	parsed, err := netlink.ParseMessage(m.Encode())
	if err != nil {
		panic(err)
	}
	return parsed
}

// dataReply builds a regular (non-control) reply message carrying
// attributes built by fill.
func dataReply(fill func(*netlink.Message)) *netlink.Message {
	m := netlink.NewMessage(0x1B, 0, 0)
	fill(m)
	parsed, err := netlink.ParseMessage(m.Encode())
	if err != nil {
		panic(err)
	}
	return parsed
}

// controlMessage builds an ack (errno 0) or error (errno != 0) reply.
func controlMessage(errno int32) *netlink.Message {
	body := make([]byte, 4)
	binary.LittleEndian.PutUint32(body, uint32(errno))
	buf := make([]byte, netlink.SizeofNlMsghdr+len(body))
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(buf)))
	binary.LittleEndian.PutUint16(buf[4:], netlink.TypeError)
	copy(buf[netlink.SizeofNlMsghdr:], body)
	m, err := netlink.ParseMessage(buf)
	if err != nil {
		panic(err)
	}
	return m
}

// TestGetReg is spec §8 boundary scenario 2.
func TestGetReg(t *testing.T) {
	reply := dataReply(func(m *netlink.Message) { m.PutString(nl80211.AttrRegAlpha2, "US") })
	conn := &fakeConn{replies: [][]*netlink.Message{{reply}}}
	h := newTestHandle(conn)

	alpha2, err := h.GetReg()
	if err != nil {
		t.Fatalf("GetReg: %v", err)
	}
	if alpha2 != "US" {
		t.Errorf("GetReg() = %q, want \"US\"", alpha2)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("sent %d requests, want 1", len(conn.sent))
	}
	if conn.sent[0].Genl.Cmd != uint8(nl80211.CmdGetReg) {
		t.Errorf("sent Genl.Cmd = %d, want %d", conn.sent[0].Genl.Cmd, nl80211.CmdGetReg)
	}
}

// TestReqSetReg is spec §8 boundary scenario 3: a lowercase alpha2 is
// upper-cased, NUL-terminated, and padded on the wire.
func TestReqSetReg(t *testing.T) {
	conn := &fakeConn{replies: [][]*netlink.Message{{controlMessage(0)}}}
	h := newTestHandle(conn)

	if err := h.ReqSetReg("bo"); err != nil {
		t.Fatalf("ReqSetReg: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("sent %d requests, want 1", len(conn.sent))
	}
	// On the wire the attribute payload is exactly 4 bytes: "BO" + NUL +
	// one pad byte. Bytes() returns the payload without its padding, so
	// the encoded attribute is read directly.
	body := conn.sent[0].Encode()[netlink.SizeofNlMsghdr+netlink.SizeofGenlMsghdr:]
	if id := binary.LittleEndian.Uint16(body[2:]); id != nl80211.AttrRegAlpha2 {
		t.Fatalf("first attribute id = %d, want NL80211_ATTR_REG_ALPHA2 (%d)", id, nl80211.AttrRegAlpha2)
	}
	payload := body[netlink.SizeofAttrHdr : netlink.SizeofAttrHdr+4]
	want := []byte{0x42, 0x4F, 0x00, 0x00}
	if diff := deep.Equal(want, payload); diff != nil {
		t.Errorf("REQ_SET_REG payload: %v", diff)
	}
}

// TestSetWiphyFrequency is spec §8 boundary scenario 4: the exact outgoing
// attribute sequence for SET_WIPHY(wiphy=2, freq=2412, channel-type=0).
func TestSetWiphyFrequency(t *testing.T) {
	conn := &fakeConn{replies: [][]*netlink.Message{{controlMessage(0)}}}
	h := newTestHandle(conn)

	if err := h.SetWiphyFrequency(2, 2412, ChanNoHT); err != nil {
		t.Fatalf("SetWiphyFrequency: %v", err)
	}
	req := conn.sent[0]
	if req.Genl.Cmd != uint8(nl80211.CmdSetWiphy) || req.Genl.Version != 0 || req.Genl.Reserved != 0 {
		t.Errorf("Genl header = %+v, want (SET_WIPHY, 0, 0, 0)", req.Genl)
	}

	attrs, err := netlink.DecodeAttrs(req.Encode()[netlink.SizeofNlMsghdr+netlink.SizeofGenlMsghdr:])
	if err != nil {
		t.Fatalf("DecodeAttrs: %v", err)
	}
	if len(attrs) != 3 {
		t.Fatalf("got %d attributes, want 3", len(attrs))
	}
	wantIDs := []uint16{nl80211.AttrWiphy, nl80211.AttrWiphyFreq, nl80211.AttrWiphyChannelType}
	wantPayloads := [][]byte{
		{2, 0, 0, 0},
		{0x6C, 0x09, 0, 0}, // 2412 little-endian
		{0, 0, 0, 0},
	}
	for i, a := range attrs {
		if a.ID() != wantIDs[i] {
			t.Errorf("attrs[%d].ID() = 0x%x, want 0x%x", i, a.ID(), wantIDs[i])
		}
		if diff := deep.Equal(wantPayloads[i], a.Bytes()); diff != nil {
			t.Errorf("attrs[%d] payload: %v", i, diff)
		}
	}
}

// TestNewInterfaceWithFlags is spec §8 boundary scenario 5.
func TestNewInterfaceWithFlags(t *testing.T) {
	reply := dataReply(func(m *netlink.Message) { m.PutU32(nl80211.AttrIfindex, 7) })
	conn := &fakeConn{replies: [][]*netlink.Message{{reply}}}
	h := newTestHandle(conn)

	card, err := h.NewInterface(1, "mon0", IftypeMonitor, []MntrFlag{MntrFlagFCSFail, MntrFlagOtherBSS})
	if err != nil {
		t.Fatalf("NewInterface: %v", err)
	}
	if card.Phy != 1 || card.Device != "mon0" || card.Ifindex != 7 {
		t.Errorf("NewInterface() = %+v, want {Phy:1 Device:mon0 Ifindex:7}", card)
	}

	flags := sentMessage(conn.sent[0]).FindAll(nl80211.AttrMntrFlags)
	if len(flags) != 2 {
		t.Fatalf("got %d NL80211_ATTR_MNTR_FLAGS attributes, want 2", len(flags))
	}
	f0 := binary.LittleEndian.Uint32(flags[0].Bytes())
	f1 := binary.LittleEndian.Uint32(flags[1].Bytes())
	if f0 != uint32(MntrFlagFCSFail) || f1 != uint32(MntrFlagOtherBSS) {
		t.Errorf("flags in wire order = (%d, %d), want (%d, %d)", f0, f1, MntrFlagFCSFail, MntrFlagOtherBSS)
	}
}

// TestTimeout models spec §8 boundary scenario 6 with a fake whose Receive
// fails with netlink.ErrTimeout after 5ms: the operation fails promptly and
// leaves the handle usable.
func TestTimeout(t *testing.T) {
	conn := &fakeConn{recvErr: netlink.ErrTimeout, recvDelay: 5 * time.Millisecond}
	h := newTestHandle(conn)

	start := time.Now()
	_, err := h.GetReg()
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("GetReg should have failed with a timeout")
	}
	if elapsed > 50*time.Millisecond {
		t.Errorf("GetReg took %v, want well under 50ms for this fake's configured delay", elapsed)
	}

	// The handle must remain usable for a subsequent operation.
	conn.recvErr = nil
	conn.recvDelay = 0
	conn.replies = [][]*netlink.Message{{dataReply(func(m *netlink.Message) {
		m.PutString(nl80211.AttrRegAlpha2, "US")
	})}}
	alpha2, err := h.GetReg()
	if err != nil {
		t.Fatalf("GetReg after timeout: %v", err)
	}
	if alpha2 != "US" {
		t.Errorf("GetReg() after recovery = %q, want \"US\"", alpha2)
	}
}
