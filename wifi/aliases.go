package wifi

import "github.com/wifinl/nl80211ctl/nl80211"

// Re-exported so callers of package wifi never need to import nl80211
// directly for the enumerations that appear in DeviceInfo/WiphyInfo.
type (
	IfType      = nl80211.IfType
	ChanWidth   = nl80211.ChanWidth
	ChannelType = nl80211.ChannelType
	PSState     = nl80211.PSState
	MntrFlag    = nl80211.MntrFlag
)

const (
	IftypeUnspecified = nl80211.IftypeUnspecified
	IftypeAdhoc       = nl80211.IftypeAdhoc
	IftypeStation     = nl80211.IftypeStation
	IftypeAP          = nl80211.IftypeAP
	IftypeAPVLAN      = nl80211.IftypeAPVLAN
	IftypeWDS         = nl80211.IftypeWDS
	IftypeMonitor     = nl80211.IftypeMonitor
	IftypeMeshPoint   = nl80211.IftypeMeshPoint
	IftypeP2PClient   = nl80211.IftypeP2PClient
	IftypeP2PGO       = nl80211.IftypeP2PGO
	IftypeP2PDevice   = nl80211.IftypeP2PDevice

	ChanNoHT    = nl80211.ChanNoHT
	ChanHT20    = nl80211.ChanHT20
	ChanHT40Neg = nl80211.ChanHT40Neg
	ChanHT40Pos = nl80211.ChanHT40Pos

	PSDisabled = nl80211.PSDisabled
	PSEnabled  = nl80211.PSEnabled

	MntrFlagFCSFail    = nl80211.MntrFlagFCSFail
	MntrFlagPLCPFail   = nl80211.MntrFlagPLCPFail
	MntrFlagControl    = nl80211.MntrFlagControl
	MntrFlagOtherBSS   = nl80211.MntrFlagOtherBSS
	MntrFlagCookFrames = nl80211.MntrFlagCookFrames
	MntrFlagActive     = nl80211.MntrFlagActive
)
