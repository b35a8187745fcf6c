// Package netlink implements the wire engine this library is built on: the
// netlink/generic-netlink message codec, a socket handle, the nl80211
// family resolver, and the single-request/single-response engine. It knows
// nothing about nl80211 attribute semantics beyond the generic TLV rules;
// package wifi builds the nl80211 operations on top of it.
//
// Parsing is adapted from the teacher's inetdiag/netlink route-attribute
// walk (encoding/binary + manual alignment instead of unsafe-pointer casts,
// since here we build messages as well as parse them).
package netlink

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/wifinl/nl80211ctl/nl80211"
)

// Header sizes, in bytes. Mirrors uapi/linux/netlink.h and genetlink.h.
const (
	SizeofNlMsghdr   = 16
	SizeofGenlMsghdr = 4
	SizeofAttrHdr    = 4
)

// Netlink message flags, as in uapi/linux/netlink.h.
const (
	FlagRequest   uint16 = 1
	FlagMulti     uint16 = 2
	FlagAck       uint16 = 4
	FlagDump      uint16 = 0x100 | 0x200 // NLM_F_ROOT | NLM_F_MATCH
	FlagAckNeeded        = FlagAck
)

// Control message types, as in uapi/linux/netlink.h.
const (
	TypeError uint16 = 2
	TypeDone  uint16 = 3
)

// Header is the fixed-size netlink header. Fields are in host byte order on
// the wire, per spec §4.1.
type Header struct {
	Len   uint32
	Type  uint16
	Flags uint16
	Seq   uint32
	Port  uint32
}

// GenlHeader is the generic-netlink sub-header that follows Header on every
// message addressed to a genl family (including the control family and
// nl80211 itself).
type GenlHeader struct {
	Cmd     uint8
	Version uint8
	// Reserved is wire padding; always zero on the way out, ignored on the
	// way in.
	Reserved uint16
}

// Attribute is a single decoded TLV: its identifier (nested high bit still
// masked on access via ID()), the schema's declared kind for that
// identifier, and its raw, unpadded payload.
type Attribute struct {
	RawID uint16
	Kind  nl80211.Kind
	Data  []byte
}

// ID returns the attribute identifier with the kernel's "nested" high bit
// masked off.
func (a Attribute) ID() uint16 { return nl80211.MaskNested(a.RawID) }

// ErrDecode is returned when a reply is malformed or a required attribute
// is absent — the core's "UNDEF" decode-error class from spec §4.6/§7.
var ErrDecode = errors.New("netlink: malformed message or attribute")

// errAttr is the sentinel Attribute returned by Find when the requested
// identifier is not present.
var errAttr = Attribute{Kind: nl80211.Error}

// Message is a mutable builder/parser for one netlink+genl message. The
// zero value is not usable; construct with NewMessage or ParseMessage.
type Message struct {
	Header Header
	Genl   GenlHeader
	// body holds the attribute bytes only (after the genl sub-header), in
	// wire form including inter-attribute padding.
	body  []byte
	attrs []Attribute // populated lazily by decode, empty while building
}

// NewMessage creates an outgoing message addressed to msgType (either the
// control family's numeric id or the resolved nl80211 family id) carrying
// genl command cmd. flags should include FlagRequest and, per spec §4.4,
// FlagAck for non-dump commands or FlagDump for enumerating commands.
func NewMessage(msgType uint16, flags uint16, cmd uint8) *Message {
	m := &Message{
		Header: Header{Type: msgType, Flags: flags},
		Genl:   GenlHeader{Cmd: cmd},
	}
	m.Header.Len = uint32(SizeofNlMsghdr + SizeofGenlMsghdr)
	return m
}

// appendAttr appends the TLV header and payload for id, zero-pads to the
// next 4-byte boundary, and recomputes the outer length (spec §4.1 "Append
// operations": "After every append, the outer netlink length is
// recomputed.").
func (m *Message) appendAttr(id uint16, payload []byte) {
	hdr := make([]byte, SizeofAttrHdr)
	binary.LittleEndian.PutUint16(hdr, uint16(SizeofAttrHdr+len(payload)))
	binary.LittleEndian.PutUint16(hdr[2:], id)
	m.body = append(m.body, hdr...)
	m.body = append(m.body, payload...)
	padded := align4(SizeofAttrHdr + len(payload))
	for i := SizeofAttrHdr + len(payload); i < padded; i++ {
		m.body = append(m.body, 0)
	}
	m.Header.Len = uint32(SizeofNlMsghdr + SizeofGenlMsghdr + len(m.body))
}

// PutU8 appends a fixed-width u8 attribute.
func (m *Message) PutU8(id uint16, v uint8) { m.appendAttr(id, []byte{v}) }

// PutU16 appends a fixed-width u16 attribute in host byte order.
func (m *Message) PutU16(id uint16, v uint16) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	m.appendAttr(id, b)
}

// PutU32 appends a fixed-width u32 attribute in host byte order.
func (m *Message) PutU32(id uint16, v uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	m.appendAttr(id, b)
}

// PutU64 appends a fixed-width u64 attribute in host byte order.
func (m *Message) PutU64(id uint16, v uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	m.appendAttr(id, b)
}

// PutString appends a NUL-terminated string attribute.
func (m *Message) PutString(id uint16, s string) {
	b := append([]byte(s), 0)
	m.appendAttr(id, b)
}

// PutBytes appends an opaque (Unspec) byte-string attribute verbatim, e.g. a
// hardware address.
func (m *Message) PutBytes(id uint16, b []byte) { m.appendAttr(id, b) }

// PutFlag appends a zero-length presence-only attribute.
func (m *Message) PutFlag(id uint16) { m.appendAttr(id, nil) }

// PutNested appends id as a Nested container whose payload is built by
// build against a fresh sub-Message sharing no state with m.
func (m *Message) PutNested(id uint16, build func(*Message)) {
	sub := &Message{}
	build(sub)
	m.appendAttr(id, sub.body)
}

// Encode serializes the complete message: the netlink header, the genl
// sub-header, then the accumulated attribute bytes. The length field is
// authoritative and always equals len(out) (spec §8 round-trip invariant).
func (m *Message) Encode() []byte {
	out := make([]byte, SizeofNlMsghdr+SizeofGenlMsghdr+len(m.body))
	binary.LittleEndian.PutUint32(out[0:], m.Header.Len)
	binary.LittleEndian.PutUint16(out[4:], m.Header.Type)
	binary.LittleEndian.PutUint16(out[6:], m.Header.Flags)
	binary.LittleEndian.PutUint32(out[8:], m.Header.Seq)
	binary.LittleEndian.PutUint32(out[12:], m.Header.Port)
	out[16] = m.Genl.Cmd
	out[17] = m.Genl.Version
	binary.LittleEndian.PutUint16(out[18:], m.Genl.Reserved)
	copy(out[SizeofNlMsghdr+SizeofGenlMsghdr:], m.body)
	return out
}

// ParseMessage decodes a single concatenated netlink datagram entry: the
// netlink header, the genl sub-header (when the message is not itself a
// control message; callers check Header.Type before assuming a genl body),
// and the trailing attributes. b must hold exactly one message (no trailing
// bytes belonging to the next message in the same datagram).
func ParseMessage(b []byte) (*Message, error) {
	if len(b) < SizeofNlMsghdr {
		return nil, fmt.Errorf("%w: short netlink header (%d bytes)", ErrDecode, len(b))
	}
	m := &Message{}
	m.Header.Len = binary.LittleEndian.Uint32(b[0:])
	m.Header.Type = binary.LittleEndian.Uint16(b[4:])
	m.Header.Flags = binary.LittleEndian.Uint16(b[6:])
	m.Header.Seq = binary.LittleEndian.Uint32(b[8:])
	m.Header.Port = binary.LittleEndian.Uint32(b[12:])
	if int(m.Header.Len) > len(b) {
		return nil, fmt.Errorf("%w: header length %d exceeds buffer %d", ErrDecode, m.Header.Len, len(b))
	}
	rest := b[SizeofNlMsghdr:m.Header.Len]

	if m.Header.Type == TypeError || m.Header.Type == TypeDone {
		// Control messages carry no genl sub-header; their payload is
		// handled by the engine directly.
		m.body = rest
		return m, nil
	}

	if len(rest) < SizeofGenlMsghdr {
		return nil, fmt.Errorf("%w: short genl header (%d bytes)", ErrDecode, len(rest))
	}
	m.Genl.Cmd = rest[0]
	m.Genl.Version = rest[1]
	m.Genl.Reserved = binary.LittleEndian.Uint16(rest[2:])
	m.body = rest[SizeofGenlMsghdr:]

	attrs, err := decodeAttrs(m.body)
	if err != nil {
		return nil, err
	}
	m.attrs = attrs
	return m, nil
}

// ErrnoOf extracts the embedded errno from a decoded TypeError control
// message. Zero means ack; non-zero means the kernel rejected the request
// (spec §4.2 Receive).
func (m *Message) ErrnoOf() (int32, error) {
	if m.Header.Type != TypeError {
		return 0, fmt.Errorf("%w: not an error/ack message", ErrDecode)
	}
	if len(m.body) < 4 {
		return 0, fmt.Errorf("%w: truncated error message", ErrDecode)
	}
	return int32(binary.LittleEndian.Uint32(m.body[0:4])), nil
}

// decodeAttrs walks a flat TLV payload into a slice of Attributes, applying
// the schema's declared kind to each. Nested containers are exposed as raw
// bytes (Kind Nested) — callers that need to recurse call DecodeAttrs again
// on Attribute.Data, matching spec §4.1's nested-decode note.
func decodeAttrs(b []byte) ([]Attribute, error) {
	var attrs []Attribute
	for len(b) >= SizeofAttrHdr {
		length := binary.LittleEndian.Uint16(b[0:])
		id := binary.LittleEndian.Uint16(b[2:])
		if int(length) < SizeofAttrHdr || int(length) > len(b) {
			return nil, fmt.Errorf("%w: attribute length %d out of range (%d remaining)", ErrDecode, length, len(b))
		}
		payload := b[SizeofAttrHdr:length]
		kind, known := nl80211.Declared(id)
		if !known {
			kind = nl80211.Unspec
		} else if width, fixed := nl80211.FixedWidth(kind); fixed && len(payload) != width {
			// Spec §8 schema-validation property: a reply payload of the
			// wrong width for a declared fixed-width scalar yields the
			// Error sentinel, not silent truncation or reinterpretation.
			kind = nl80211.Error
		}
		attrs = append(attrs, Attribute{RawID: id, Kind: kind, Data: payload})
		// The last attribute's trailing pad may be absent; never slice
		// past the end of the buffer.
		next := align4(int(length))
		if next > len(b) {
			next = len(b)
		}
		b = b[next:]
	}
	return attrs, nil
}

// DecodeAttrs is the exported form of decodeAttrs, for callers decoding a
// nested container's raw bytes (e.g. package wifi's monitor-flags or
// supported-interface-types handling).
func DecodeAttrs(b []byte) ([]Attribute, error) { return decodeAttrs(b) }

// Find returns the first attribute in the message whose masked identifier
// equals id (spec §4.1 "tie-break on duplicates: first occurrence wins"),
// or the Error sentinel if none matches.
func (m *Message) Find(id uint16) Attribute {
	for _, a := range m.attrs {
		if a.ID() == id {
			return a
		}
	}
	return errAttr
}

// FindAll returns every attribute in the message whose masked identifier
// equals id, in wire order. Used for repeated attributes such as
// NL80211_ATTR_MNTR_FLAGS (spec's "open question": repeated top-level
// attributes, not one nested container).
func (m *Message) FindAll(id uint16) []Attribute {
	var out []Attribute
	for _, a := range m.attrs {
		if a.ID() == id {
			out = append(out, a)
		}
	}
	return out
}

// Attrs returns every attribute decoded from the message, in wire order.
func (m *Message) Attrs() []Attribute { return m.attrs }

// Present reports whether a is a real decoded attribute rather than the
// Error/not-present sentinel.
func (a Attribute) Present() bool { return a.Kind != nl80211.Error }

// Uint8 decodes a as a u8. ok is false if the attribute is absent or its
// declared/validated kind is not U8.
func (a Attribute) Uint8() (uint8, bool) {
	if a.Kind != nl80211.U8 || len(a.Data) != 1 {
		return 0, false
	}
	return a.Data[0], true
}

// Uint16 decodes a as a u16 in host byte order.
func (a Attribute) Uint16() (uint16, bool) {
	if a.Kind != nl80211.U16 || len(a.Data) != 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(a.Data), true
}

// Uint32 decodes a as a u32 in host byte order.
func (a Attribute) Uint32() (uint32, bool) {
	if a.Kind != nl80211.U32 || len(a.Data) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(a.Data), true
}

// Uint64 decodes a as a u64 in host byte order.
func (a Attribute) Uint64() (uint64, bool) {
	if a.Kind != nl80211.U64 || len(a.Data) != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(a.Data), true
}

// String decodes a as a NUL-terminated string, trimming the terminator and
// any alignment padding following it.
func (a Attribute) String() (string, bool) {
	if a.Kind != nl80211.String && a.Kind != nl80211.Unspec {
		return "", false
	}
	i := 0
	for i < len(a.Data) && a.Data[i] != 0 {
		i++
	}
	return string(a.Data[:i]), true
}

// Bytes returns the raw payload regardless of declared kind. This is the
// "raw mode" lookup from spec §4.1/§9: always available, used for the
// wiphy-bands fallback scan and for interpreting nested-as-big-endian
// identifier lists.
func (a Attribute) Bytes() []byte { return a.Data }
