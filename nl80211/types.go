package nl80211

import "fmt"

// IfType is the enumeration of nl80211 interface types, as in
// NL80211_IFTYPE_* and uapi/linux/nl80211.h.
type IfType uint32

// The values match the kernel's NL80211_IFTYPE_* enum.
const (
	IftypeUnspecified IfType = 0
	IftypeAdhoc       IfType = 1
	IftypeStation     IfType = 2
	IftypeAP          IfType = 3
	IftypeAPVLAN      IfType = 4
	IftypeWDS         IfType = 5
	IftypeMonitor     IfType = 6
	IftypeMeshPoint   IfType = 7
	IftypeP2PClient   IfType = 8
	IftypeP2PGO       IfType = 9
	IftypeP2PDevice   IfType = 10
)

var iftypeName = map[IfType]string{
	IftypeUnspecified: "unspecified",
	IftypeAdhoc:       "IBSS",
	IftypeStation:     "managed",
	IftypeAP:          "AP",
	IftypeAPVLAN:      "AP/VLAN",
	IftypeWDS:         "WDS",
	IftypeMonitor:     "monitor",
	IftypeMeshPoint:   "mesh point",
	IftypeP2PClient:   "P2P-client",
	IftypeP2PGO:       "P2P-GO",
	IftypeP2PDevice:   "P2P-device",
}

func (t IfType) String() string {
	if s, ok := iftypeName[t]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_IFTYPE_%d", uint32(t))
}

// ChanWidth is the enumeration of nl80211 channel width tags, as in
// NL80211_CHAN_WIDTH_*.
type ChanWidth uint32

const (
	ChanWidthNOHT  ChanWidth = 0
	ChanWidth20    ChanWidth = 1
	ChanWidth40    ChanWidth = 2
	ChanWidth80    ChanWidth = 3
	ChanWidth80P80 ChanWidth = 4
	ChanWidth160   ChanWidth = 5
	ChanWidth5     ChanWidth = 6
	ChanWidth10    ChanWidth = 7
)

var chanWidthName = map[ChanWidth]string{
	ChanWidthNOHT:  "NOHT",
	ChanWidth20:    "HT20",
	ChanWidth40:    "HT40",
	ChanWidth80:    "80MHz",
	ChanWidth80P80: "80+80MHz",
	ChanWidth160:   "160MHz",
	ChanWidth5:     "5MHz",
	ChanWidth10:    "10MHz",
}

func (w ChanWidth) String() string {
	if s, ok := chanWidthName[w]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_CHAN_WIDTH_%d", uint32(w))
}

// ChannelType is the legacy HT channel-type tag used by SET_WIPHY alongside
// AttrWiphyFreq, as in NL80211_CHAN_*.
type ChannelType uint32

const (
	ChanNoHT    ChannelType = 0
	ChanHT20    ChannelType = 1
	ChanHT40Neg ChannelType = 2
	ChanHT40Pos ChannelType = 3
)

func (c ChannelType) String() string {
	switch c {
	case ChanNoHT:
		return "NOHT"
	case ChanHT20:
		return "HT20"
	case ChanHT40Neg:
		return "HT40-"
	case ChanHT40Pos:
		return "HT40+"
	default:
		return fmt.Sprintf("UNKNOWN_CHANNEL_TYPE_%d", uint32(c))
	}
}

// PSState is the nl80211 power-save state, as in NL80211_PS_*.
type PSState uint32

const (
	PSDisabled PSState = 0
	PSEnabled  PSState = 1
)

func (p PSState) String() string {
	if p == PSEnabled {
		return "enabled"
	}
	return "disabled"
}

// MntrFlag is a single monitor-mode flag applicable only when IfType is
// IftypeMonitor, as in NL80211_MNTR_FLAG_*.
type MntrFlag uint32

const (
	MntrFlagFCSFail    MntrFlag = 1
	MntrFlagPLCPFail   MntrFlag = 2
	MntrFlagControl    MntrFlag = 3
	MntrFlagOtherBSS   MntrFlag = 4
	MntrFlagCookFrames MntrFlag = 5
	MntrFlagActive     MntrFlag = 6
)

var mntrFlagName = map[MntrFlag]string{
	MntrFlagFCSFail:    "fcsfail",
	MntrFlagPLCPFail:   "plcpfail",
	MntrFlagControl:    "control",
	MntrFlagOtherBSS:   "otherbss",
	MntrFlagCookFrames: "cook",
	MntrFlagActive:     "active",
}

func (f MntrFlag) String() string {
	if s, ok := mntrFlagName[f]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_MNTR_FLAG_%d", uint32(f))
}

// Cipher suite selectors, as in WLAN_CIPHER_SUITE_* (uapi/linux/nl80211.h).
// WiphyInfo.CipherSuites reports these by name (spec §3 "supported cipher
// suite selectors (by name)"), the same treatment §3 gives supported
// commands.
const (
	CipherSuiteWEP40      uint32 = 0x000FAC01
	CipherSuiteTKIP       uint32 = 0x000FAC02
	CipherSuiteCCMP       uint32 = 0x000FAC04
	CipherSuiteWEP104     uint32 = 0x000FAC05
	CipherSuiteAESCMAC    uint32 = 0x000FAC06
	CipherSuiteGCMP       uint32 = 0x000FAC08
	CipherSuiteGCMP256    uint32 = 0x000FAC09
	CipherSuiteCCMP256    uint32 = 0x000FAC0A
	CipherSuiteBIPGMAC128 uint32 = 0x000FAC0B
	CipherSuiteBIPGMAC256 uint32 = 0x000FAC0C
	CipherSuiteBIPCMAC256 uint32 = 0x000FAC0D
	CipherSuiteSMS4       uint32 = 0x00147201
)

var cipherSuiteName = map[uint32]string{
	CipherSuiteWEP40:      "WEP40",
	CipherSuiteTKIP:       "TKIP",
	CipherSuiteCCMP:       "CCMP",
	CipherSuiteWEP104:     "WEP104",
	CipherSuiteAESCMAC:    "AES-CMAC",
	CipherSuiteGCMP:       "GCMP",
	CipherSuiteGCMP256:    "GCMP-256",
	CipherSuiteCCMP256:    "CCMP-256",
	CipherSuiteBIPGMAC128: "BIP-GMAC-128",
	CipherSuiteBIPGMAC256: "BIP-GMAC-256",
	CipherSuiteBIPCMAC256: "BIP-CMAC-256",
	CipherSuiteSMS4:       "SMS4",
}

// CipherSuiteName resolves a raw WLAN_CIPHER_SUITE_* selector to its
// symbolic name, as PyRIC's _ciphers_ resolves each selector through
// wlan.WLAN_CIPHER_SUITE_SELECTORS. An unrecognized selector — the kernel
// adds these faster than userspace tables track them — reports as
// "RSRV-0x<selector>" rather than being dropped.
func CipherSuiteName(selector uint32) string {
	if s, ok := cipherSuiteName[selector]; ok {
		return s
	}
	return fmt.Sprintf("RSRV-0x%x", selector)
}

// Sentinel values from the kernel's wiphy parameter conventions. A threshold
// at or above Off is reported to callers as the symbolic "off" rather than
// the raw sentinel (spec §4.5 "Decoding").
const (
	RTSThresholdOff  uint32 = 2347
	FragThresholdOff uint32 = 2346
	RetryMin         uint8  = 1
	RetryMax         uint8  = 255
	CoverageClassMax uint8  = 31
)
