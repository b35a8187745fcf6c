package netlink

import (
	"errors"
	"testing"

	"github.com/wifinl/nl80211ctl/nl80211"
)

// fakeTransport is the "captured-bytes fake" spec §8 asks boundary-scenario
// tests to drive Execute and ResolveFamily through, with no live kernel.
type fakeTransport struct {
	sent    []*Message
	replies [][]*Message // one slice of messages per Receive() call
}

func (f *fakeTransport) Send(m *Message) error {
	if m.Header.Seq == 0 {
		m.Header.Seq = uint32(len(f.sent) + 1)
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeTransport) Receive() ([]*Message, error) {
	if len(f.replies) == 0 {
		return nil, errors.New("fakeTransport: no more queued replies")
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next, nil
}

func ackMessage(seq uint32) *Message {
	m := &Message{Header: Header{Type: TypeError, Seq: seq}}
	m.body = []byte{0, 0, 0, 0}
	return m
}

func errMessage(seq uint32, errno int32) *Message {
	m := &Message{Header: Header{Type: TypeError, Seq: seq}}
	m.body = []byte{byte(errno), byte(errno >> 8), byte(errno >> 16), byte(errno >> 24)}
	return m
}

func doneMessage(seq uint32) *Message {
	return &Message{Header: Header{Type: TypeDone, Seq: seq}}
}

func replyMessage(seq uint32, flags uint16, build func(*Message)) *Message {
	m := NewMessage(0x1B, flags, 0)
	build(m)
	m.Header.Seq = seq
	attrs, err := decodeAttrs(m.body)
	if err != nil {
		panic(err)
	}
	m.attrs = attrs
	return m
}

// TestEngineAckRequest covers spec §8's "ACK-requested and no DUMP" engine
// property for the success path: one non-control reply followed by an ack.
func TestEngineAckRequest(t *testing.T) {
	req := NewMessage(0x1B, FlagRequest|FlagAck, uint8(nl80211.CmdGetInterface))
	req.PutU32(nl80211.AttrIfindex, 3)

	reply := replyMessage(0, FlagMulti, func(m *Message) {
		m.PutU32(nl80211.AttrIfindex, 3)
		m.PutString(nl80211.AttrIfname, "wlan0")
	})

	tr := &fakeTransport{}
	tr.replies = [][]*Message{
		{reply},
		{ackMessage(0)},
	}

	replies, err := executeWithStampedSeq(tr, req, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("Execute returned %d replies, want 1", len(replies))
	}
	name, ok := replies[0].Find(nl80211.AttrIfname).String()
	if !ok || name != "wlan0" {
		t.Errorf("AttrIfname = (%q, %v), want (\"wlan0\", true)", name, ok)
	}
}

// TestEngineErrorRequest covers the "exactly one error with non-zero errno"
// branch of the same engine property.
func TestEngineErrorRequest(t *testing.T) {
	req := NewMessage(0x1B, FlagRequest|FlagAck, uint8(nl80211.CmdGetInterface))
	tr := &fakeTransport{}
	errReply := errMessage(0, -19) // -ENODEV
	tr.replies = [][]*Message{{errReply}}

	_, err := executeWithStampedSeq(tr, req, false)
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("Execute returned %v, want an *OpError", err)
	}
	if opErr.Errno != 19 {
		t.Errorf("OpError.Errno = %v, want ENODEV (19)", opErr.Errno)
	}
}

// TestEngineDump covers the DUMP engine property: N>=0 non-control replies
// terminated by a done marker, submission order preserved.
func TestEngineDump(t *testing.T) {
	req := NewMessage(0x1B, FlagRequest|FlagDump, uint8(nl80211.CmdGetInterface))
	tr := &fakeTransport{}
	r1 := replyMessage(0, FlagMulti, func(m *Message) { m.PutU32(nl80211.AttrIfindex, 1) })
	r2 := replyMessage(0, FlagMulti, func(m *Message) { m.PutU32(nl80211.AttrIfindex, 2) })
	tr.replies = [][]*Message{{r1, r2}, {doneMessage(0)}}

	replies, err := executeWithStampedSeq(tr, req, true)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("Execute returned %d replies, want 2", len(replies))
	}
	first, _ := replies[0].Find(nl80211.AttrIfindex).Uint32()
	second, _ := replies[1].Find(nl80211.AttrIfindex).Uint32()
	if first != 1 || second != 2 {
		t.Errorf("submission order not preserved: got %d, %d", first, second)
	}
}

// executeWithStampedSeq calls Execute through a transport that rewrites
// every queued reply's sequence number to match the request's assigned
// seq, since the fake has no real kernel turning the request around.
func executeWithStampedSeq(tr *fakeTransport, req *Message, dump bool) ([]*Message, error) {
	return Execute(stampingTransport{tr}, req, dump)
}

// stampingTransport wraps fakeTransport so every queued reply's Seq is
// rewritten to the just-sent request's Seq before Execute reads it back,
// without requiring the fake to predict the Socket-assigned sequence
// number in advance.
type stampingTransport struct {
	tr *fakeTransport
}

func (s stampingTransport) Send(m *Message) error {
	if err := s.tr.Send(m); err != nil {
		return err
	}
	for _, batch := range s.tr.replies {
		for _, r := range batch {
			r.Header.Seq = m.Header.Seq
		}
	}
	return nil
}

func (s stampingTransport) Receive() ([]*Message, error) { return s.tr.Receive() }
