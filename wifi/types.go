// Package wifi is the nl80211 Operation Layer (spec §4.5): it assembles one
// nl80211 command per call, submits it through package netlink's engine on
// a caller-supplied or scoped Handle, and decodes the reply into one of the
// structured records below.
//
// The build→execute→decode shape and the per-attribute decode-with-ok-bool
// idiom are grounded on the teacher's collector.collectDefaultNamespace and
// snapshot.Decode, respectively.
package wifi

import "fmt"

// Card is the immutable (wiphy index, device name, interface index) triple
// identifying one wireless interface (spec §3 "Card Record"). Identity is
// structural: two Cards are equal iff all three fields match.
type Card struct {
	Phy     int
	Device  string
	Ifindex int
}

// Equal reports structural equality, field by field (spec §9 "Card as a
// named tuple... Compare field-by-field").
func (c Card) Equal(other Card) bool {
	return c.Phy == other.Phy && c.Device == other.Device && c.Ifindex == other.Ifindex
}

func (c Card) String() string {
	return fmt.Sprintf("%s (phy%d, ifindex %d)", c.Device, c.Phy, c.Ifindex)
}

// DeviceInfo is the outcome of a GetInterface operation (spec §3
// "Device-Info Record"). Frequency, CenterFreq1, and ChannelWidth are
// pointers because the kernel omits them for interfaces with no channel
// assigned; a nil pointer is the "not present" case, distinct from a
// present zero value.
type DeviceInfo struct {
	Card        Card
	IfType      IfType
	Wdev        uint64
	HardwareMAC []byte // 6 bytes when present
	Frequency   *uint32
	CenterFreq1 *uint32
	ChannelWidth *ChanWidth
}

// WiphyInfo is the outcome of a GetWiphy operation (spec §3 "Wiphy-Info
// Record").
type WiphyInfo struct {
	Phy int

	Generation uint32

	RetryShort      uint8
	RetryLong       uint8
	FragThreshold   Threshold
	RTSThreshold    Threshold
	CoverageClass   uint8
	MaxScanSSIDs    uint8

	// Frequencies lists, in MHz, each entry of the handle's frequency table
	// (SetFrequencyTable) whose 4-byte little-endian encoding occurs in the
	// raw wiphy-bands attribute; it is empty when no table is set. The
	// bands are not decoded as nested attributes.
	Frequencies []uint32

	SupportedIfModes []IfType
	SupportedSWModes []IfType
	SupportedCommands []string
	CipherSuites       []string
}

// Threshold represents an RTS or fragmentation threshold value that may be
// the kernel's symbolic "off" sentinel (spec §4.5 "Decoding": "Threshold
// values equal to or exceeding the kernel's off sentinel are normalized to
// the symbolic value off").
type Threshold struct {
	Off   bool
	Value uint32
}

func (t Threshold) String() string {
	if t.Off {
		return "off"
	}
	return fmt.Sprintf("%d", t.Value)
}
