// Package nl80211 defines the constants and the attribute schema of the
// Linux kernel's nl80211 generic-netlink family, as in
// uapi/linux/nl80211.h. It holds no socket or decoding logic of its own;
// see package netlink for the wire engine and package wifi for the
// operations built on top of it.
package nl80211

// Family is the well-known name of the generic-netlink family resolved at
// runtime by the control family (see package netlink's family resolver).
const Family = "nl80211"

// Command identifies an nl80211 request or notification, as in the
// NL80211_CMD_* enum.
type Command uint8

// Commands used by the operation layer. Numeric values match the kernel's
// nl80211 enum exactly; gaps are commands this library does not issue.
const (
	CmdGetWiphy      Command = 1
	CmdSetWiphy      Command = 2
	CmdNewWiphy      Command = 3
	CmdDelWiphy      Command = 4
	CmdGetInterface  Command = 5
	CmdSetInterface  Command = 6
	CmdNewInterface  Command = 7
	CmdDelInterface  Command = 8
	CmdGetReg        Command = 31
	CmdReqSetReg     Command = 27
	CmdGetPowerSave  Command = 62
	CmdSetPowerSave  Command = 61
)

func (c Command) String() string {
	if s, ok := commandName[c]; ok {
		return s
	}
	return "NL80211_CMD_UNKNOWN"
}

var commandName = map[Command]string{
	CmdGetWiphy:     "NL80211_CMD_GET_WIPHY",
	CmdSetWiphy:     "NL80211_CMD_SET_WIPHY",
	CmdNewWiphy:     "NL80211_CMD_NEW_WIPHY",
	CmdDelWiphy:     "NL80211_CMD_DEL_WIPHY",
	CmdGetInterface: "NL80211_CMD_GET_INTERFACE",
	CmdSetInterface: "NL80211_CMD_SET_INTERFACE",
	CmdNewInterface: "NL80211_CMD_NEW_INTERFACE",
	CmdDelInterface: "NL80211_CMD_DEL_INTERFACE",
	CmdGetReg:       "NL80211_CMD_GET_REG",
	CmdReqSetReg:    "NL80211_CMD_REQ_SET_REG",
	CmdGetPowerSave: "NL80211_CMD_GET_POWER_SAVE",
	CmdSetPowerSave: "NL80211_CMD_SET_POWER_SAVE",
}

// Generic netlink control family constants, as in uapi/linux/genetlink.h.
const (
	GenlCtrlFamilyName   = "nlctrl"
	GenlCmdGetFamily     = 3
	CtrlAttrFamilyID     = 1
	CtrlAttrFamilyName   = 2
)

// NL80211_ATTR_* values this library builds or decodes. Not exhaustive —
// only the attributes the operation layer in package wifi touches.
const (
	AttrWiphy              = 1
	AttrWiphyName          = 2
	AttrIfindex            = 3
	AttrIfname             = 4
	AttrIftype             = 5
	AttrMac                = 6
	AttrWiphyFreq          = 38
	AttrWiphyChannelType   = 39
	AttrWdev               = 153
	AttrWiphyRetryShort    = 61
	AttrWiphyRetryLong     = 62
	AttrWiphyFragThreshold = 63
	AttrWiphyRtsThreshold  = 64
	AttrWiphyCoverageClass = 89
	AttrMaxNumScanSSIDs    = 43
	AttrGeneration         = 46
	AttrRegAlpha2          = 33
	AttrPsState            = 93
	AttrMntrFlags          = 23
	AttrSupportedIftypes   = 32
	AttrSupportedCommands  = 50
	AttrCipherSuites       = 57
	AttrWiphyBands         = 22
	AttrSoftwareIftypes    = 121
	AttrChannelWidth       = 159
	AttrCenterFreq1        = 160
)

// nestedMask is the high bit the kernel sometimes sets on nested attribute
// identifiers; decoders must mask it before comparing against the schema
// (spec §4.1 "TLV layout").
const nestedMask = uint16(1) << 15

// MaskNested clears the kernel's "this is a nested container" high bit from
// a decoded attribute identifier.
func MaskNested(id uint16) uint16 {
	return id &^ nestedMask
}

// Kind is a tagged enumeration of declared attribute payload shapes.
type Kind int

// The attribute kinds the schema can declare. Error is a sentinel, never a
// kernel wire value: it is returned when an attribute is absent or the
// decoder could not trust the declared kind for the payload found.
const (
	U8 Kind = iota
	U16
	U32
	U64
	String
	Flag
	Unspec
	Nested
	Error
)

func (k Kind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case String:
		return "string"
	case Flag:
		return "flag"
	case Unspec:
		return "unspec"
	case Nested:
		return "nested"
	default:
		return "error"
	}
}

// schema maps an attribute identifier to its declared kind. It is policy,
// not contract: see Declared and package netlink's attribute decoder for how
// a payload whose length disagrees with the declared kind is handled.
var schema = map[uint16]Kind{
	AttrWiphy:              U32,
	AttrWiphyName:          String,
	AttrIfindex:            U32,
	AttrIfname:             String,
	AttrIftype:             U32,
	AttrMac:                Unspec,
	AttrWiphyFreq:          U32,
	AttrWiphyChannelType:   U32,
	AttrWdev:               U64,
	AttrWiphyRetryShort:    U8,
	AttrWiphyRetryLong:     U8,
	AttrWiphyFragThreshold: U32,
	AttrWiphyRtsThreshold:  U32,
	AttrWiphyCoverageClass: U8,
	AttrMaxNumScanSSIDs:    U8,
	AttrGeneration:         U32,
	AttrRegAlpha2:          String,
	AttrPsState:            U32,
	AttrMntrFlags:          Nested,
	AttrSupportedIftypes:   Nested,
	AttrSupportedCommands:  Nested,
	AttrCipherSuites:       Unspec,
	AttrWiphyBands:         Nested,
	AttrSoftwareIftypes:    Nested,
	AttrChannelWidth:       U32,
	AttrCenterFreq1:        U32,
}

// Declared returns the schema's declared kind for id, and whether the
// identifier is known at all. Unknown identifiers decode as Unspec by
// convention, matching the kernel's habit of adding attributes faster than
// userspace schemas track them.
func Declared(id uint16) (Kind, bool) {
	id = MaskNested(id)
	k, ok := schema[id]
	return k, ok
}

// FixedWidth reports the byte width a scalar kind requires, and whether the
// kind has a fixed width at all (String/Unspec/Nested/Flag do not).
func FixedWidth(k Kind) (int, bool) {
	switch k {
	case U8:
		return 1, true
	case U16:
		return 2, true
	case U32:
		return 4, true
	case U64:
		return 8, true
	default:
		return 0, false
	}
}
