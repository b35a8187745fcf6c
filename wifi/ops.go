package wifi

import (
	"time"

	"github.com/wifinl/nl80211ctl/netlink"
	"github.com/wifinl/nl80211ctl/nl80211"
)

// SetFrequencyTable installs the candidate frequency list GetWiphy and
// Phys use for the wiphy-bands scan fallback (spec §9 "Wiphy-bands parsing
// quirk"). Frequency/channel numeric tables are an external collaborator
// per spec §1; callers that care about WiphyInfo.Frequencies must supply
// one. A nil or empty table simply yields an empty Frequencies slice.
func (h *Handle) SetFrequencyTable(freqsMHz []uint32) {
	h.bandCandidates = freqsMHz
}

// GetInterface assembles NL80211_CMD_GET_INTERFACE for ifindex and decodes
// the reply into a DeviceInfo (spec §4.5 table).
func (h *Handle) GetInterface(ifindex int) (_ DeviceInfo, err error) {
	defer func(start time.Time) { observe("get-interface", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdGetInterface))
	req.PutU32(nl80211.AttrIfindex, uint32(ifindex))

	replies, err := netlink.Execute(h.sock, req, false)
	if err != nil {
		return DeviceInfo{}, wrapOpError("get-interface", err)
	}
	if len(replies) == 0 {
		return DeviceInfo{}, newError("get-interface", UNDEF, "no reply")
	}
	return decodeDeviceInfo(replies[0])
}

// GetInterface opens a scoped Handle, calls Handle.GetInterface, and
// releases the handle on every exit path (spec §9 one-shot variant).
func GetInterface(ifindex int) (DeviceInfo, error) {
	var out DeviceInfo
	err := withHandle(func(h *Handle) error {
		var err error
		out, err = h.GetInterface(ifindex)
		return err
	})
	return out, err
}

// Interfaces enumerates every interface on the system via
// NL80211_CMD_GET_INTERFACE with the dump convention (spec §4.5's
// get-interface row, generalized per SPEC_FULL.md's supplemented
// enumeration operations).
func (h *Handle) Interfaces() (_ []DeviceInfo, err error) {
	defer func(start time.Time) { observe("interfaces", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagDump, uint8(nl80211.CmdGetInterface))
	replies, err := netlink.Execute(h.sock, req, true)
	if err != nil {
		return nil, wrapOpError("interfaces", err)
	}
	out := make([]DeviceInfo, 0, len(replies))
	for _, m := range replies {
		dev, err := decodeDeviceInfo(m)
		if err != nil {
			return nil, err
		}
		out = append(out, dev)
	}
	return out, nil
}

// Interfaces is the one-shot free-function variant of Handle.Interfaces.
func Interfaces() ([]DeviceInfo, error) {
	var out []DeviceInfo
	err := withHandle(func(h *Handle) error {
		var err error
		out, err = h.Interfaces()
		return err
	})
	return out, err
}

func decodeDeviceInfo(m *netlink.Message) (DeviceInfo, error) {
	ifindex, ok := m.Find(nl80211.AttrIfindex).Uint32()
	if !ok {
		return DeviceInfo{}, newError("get-interface", UNDEF, "missing required NL80211_ATTR_IFINDEX")
	}
	wiphy, _ := m.Find(nl80211.AttrWiphy).Uint32()
	ifname, _ := m.Find(nl80211.AttrIfname).String()
	iftypeRaw, ok := m.Find(nl80211.AttrIftype).Uint32()
	if !ok {
		return DeviceInfo{}, newError("get-interface", UNDEF, "missing required NL80211_ATTR_IFTYPE")
	}
	wdev, _ := m.Find(nl80211.AttrWdev).Uint64()

	info := DeviceInfo{
		Card: Card{
			Phy:     int(wiphy),
			Device:  ifname,
			Ifindex: int(ifindex),
		},
		IfType: IfType(iftypeRaw),
		Wdev:   wdev,
	}
	if mac := m.Find(nl80211.AttrMac); mac.Present() {
		info.HardwareMAC = append([]byte(nil), mac.Bytes()...)
	}
	if freq, ok := m.Find(nl80211.AttrWiphyFreq).Uint32(); ok {
		info.Frequency = &freq
	}
	if cf1, ok := m.Find(nl80211.AttrCenterFreq1).Uint32(); ok {
		info.CenterFreq1 = &cf1
	}
	if cw, ok := m.Find(nl80211.AttrChannelWidth).Uint32(); ok {
		width := ChanWidth(cw)
		info.ChannelWidth = &width
	}
	return info, nil
}

// GetWiphy assembles NL80211_CMD_GET_WIPHY for phy and decodes the reply
// into a WiphyInfo (spec §4.5 table).
func (h *Handle) GetWiphy(phy int) (_ WiphyInfo, err error) {
	defer func(start time.Time) { observe("get-wiphy", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdGetWiphy))
	req.PutU32(nl80211.AttrWiphy, uint32(phy))

	replies, err := netlink.Execute(h.sock, req, false)
	if err != nil {
		return WiphyInfo{}, wrapOpError("get-wiphy", err)
	}
	if len(replies) == 0 {
		return WiphyInfo{}, newError("get-wiphy", UNDEF, "no reply")
	}
	return decodeWiphyInfo(replies[0], h.bandCandidates)
}

// GetWiphy is the one-shot free-function variant of Handle.GetWiphy.
func GetWiphy(phy int) (WiphyInfo, error) {
	var out WiphyInfo
	err := withHandle(func(h *Handle) error {
		var err error
		out, err = h.GetWiphy(phy)
		return err
	})
	return out, err
}

// Phys enumerates every wiphy on the system via NL80211_CMD_GET_WIPHY with
// the dump convention (SPEC_FULL.md's supplemented enumeration operation,
// grounded on PyRIC's pyw.phylist()).
func (h *Handle) Phys() (_ []WiphyInfo, err error) {
	defer func(start time.Time) { observe("phys", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagDump, uint8(nl80211.CmdGetWiphy))
	replies, err := netlink.Execute(h.sock, req, true)
	if err != nil {
		return nil, wrapOpError("phys", err)
	}
	out := make([]WiphyInfo, 0, len(replies))
	for _, m := range replies {
		w, err := decodeWiphyInfo(m, h.bandCandidates)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Phys is the one-shot free-function variant of Handle.Phys.
func Phys() ([]WiphyInfo, error) {
	var out []WiphyInfo
	err := withHandle(func(h *Handle) error {
		var err error
		out, err = h.Phys()
		return err
	})
	return out, err
}

func decodeWiphyInfo(m *netlink.Message, bandCandidates []uint32) (WiphyInfo, error) {
	wiphy, ok := m.Find(nl80211.AttrWiphy).Uint32()
	if !ok {
		return WiphyInfo{}, newError("get-wiphy", UNDEF, "missing required NL80211_ATTR_WIPHY")
	}
	info := WiphyInfo{Phy: int(wiphy)}

	if gen, ok := m.Find(nl80211.AttrGeneration).Uint32(); ok {
		info.Generation = gen
	}
	if rs, ok := m.Find(nl80211.AttrWiphyRetryShort).Uint8(); ok {
		info.RetryShort = rs
	}
	if rl, ok := m.Find(nl80211.AttrWiphyRetryLong).Uint8(); ok {
		info.RetryLong = rl
	}
	if frag, ok := m.Find(nl80211.AttrWiphyFragThreshold).Uint32(); ok {
		info.FragThreshold = thresholdFromAttr(frag, nl80211.FragThresholdOff)
	} else {
		info.FragThreshold = Threshold{Off: true}
	}
	if rts, ok := m.Find(nl80211.AttrWiphyRtsThreshold).Uint32(); ok {
		info.RTSThreshold = thresholdFromAttr(rts, nl80211.RTSThresholdOff)
	} else {
		info.RTSThreshold = Threshold{Off: true}
	}
	if cc, ok := m.Find(nl80211.AttrWiphyCoverageClass).Uint8(); ok {
		info.CoverageClass = cc
	}
	if maxssid, ok := m.Find(nl80211.AttrMaxNumScanSSIDs).Uint8(); ok {
		info.MaxScanSSIDs = maxssid
	}

	if bands := m.Find(nl80211.AttrWiphyBands); bands.Present() {
		info.Frequencies = scanBandsForFrequencies(bands.Bytes(), bandCandidates)
	}
	if modes := m.Find(nl80211.AttrSupportedIftypes); modes.Present() {
		types, err := decodeIftypeList(modes.Bytes())
		if err != nil {
			return WiphyInfo{}, err
		}
		info.SupportedIfModes = types
	}
	if modes := m.Find(nl80211.AttrSoftwareIftypes); modes.Present() {
		types, err := decodeIftypeList(modes.Bytes())
		if err != nil {
			return WiphyInfo{}, err
		}
		info.SupportedSWModes = types
	}
	if cmds := m.Find(nl80211.AttrSupportedCommands); cmds.Present() {
		names, err := decodeCommandList(cmds.Bytes())
		if err != nil {
			return WiphyInfo{}, err
		}
		info.SupportedCommands = names
	}
	if ciphers := m.Find(nl80211.AttrCipherSuites); ciphers.Present() {
		info.CipherSuites = decodeCipherSuites(ciphers.Bytes())
	}
	return info, nil
}

// NewInterface assembles NL80211_CMD_NEW_INTERFACE (spec §4.5 table).
// mntrFlags are only meaningful when iftype is IftypeMonitor; they are
// encoded as repeated top-level NL80211_ATTR_MNTR_FLAGS attributes, per
// the Open Question in spec §9 resolved in favor of the repeated encoding.
func (h *Handle) NewInterface(phy int, ifname string, iftype IfType, mntrFlags []MntrFlag) (_ Card, err error) {
	defer func(start time.Time) { observe("new-interface", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdNewInterface))
	req.PutU32(nl80211.AttrWiphy, uint32(phy))
	req.PutString(nl80211.AttrIfname, ifname)
	req.PutU32(nl80211.AttrIftype, uint32(iftype))
	for _, f := range mntrFlags {
		req.PutU32(nl80211.AttrMntrFlags, uint32(f))
	}

	replies, err := netlink.Execute(h.sock, req, false)
	if err != nil {
		return Card{}, wrapOpError("new-interface", err)
	}
	card := Card{Phy: phy, Device: ifname}
	if len(replies) > 0 {
		if ifindex, ok := replies[0].Find(nl80211.AttrIfindex).Uint32(); ok {
			card.Ifindex = int(ifindex)
		}
	}
	if card.Ifindex == 0 {
		return Card{}, newError("new-interface", UNDEF, "missing required NL80211_ATTR_IFINDEX in reply")
	}
	return card, nil
}

// DelInterface assembles NL80211_CMD_DEL_INTERFACE (spec §4.5 table).
func (h *Handle) DelInterface(ifindex int) (err error) {
	defer func(start time.Time) { observe("del-interface", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdDelInterface))
	req.PutU32(nl80211.AttrIfindex, uint32(ifindex))
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("del-interface", err)
}

// SetInterface assembles NL80211_CMD_SET_INTERFACE (spec §4.5 table), with
// the same repeated-flags encoding as NewInterface.
func (h *Handle) SetInterface(ifindex int, iftype IfType, mntrFlags []MntrFlag) (err error) {
	defer func(start time.Time) { observe("set-interface", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdSetInterface))
	req.PutU32(nl80211.AttrIfindex, uint32(ifindex))
	req.PutU32(nl80211.AttrIftype, uint32(iftype))
	for _, f := range mntrFlags {
		req.PutU32(nl80211.AttrMntrFlags, uint32(f))
	}
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("set-interface", err)
}

// SetWiphyFrequency assembles the frequency variant of NL80211_CMD_SET_WIPHY
// (spec §4.5 table row "set-wiphy (freq)"; spec §8 boundary scenario 4).
// freqMHz is the channel's center frequency in MHz.
func (h *Handle) SetWiphyFrequency(phy int, freqMHz uint32, ct ChannelType) (err error) {
	defer func(start time.Time) { observe("set-wiphy-freq", start, err) }(time.Now())
	if err = validateChannelType(ct); err != nil {
		return err
	}
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdSetWiphy))
	req.PutU32(nl80211.AttrWiphy, uint32(phy))
	req.PutU32(nl80211.AttrWiphyFreq, freqMHz)
	req.PutU32(nl80211.AttrWiphyChannelType, uint32(ct))
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("set-wiphy-freq", err)
}

// SetWiphyCoverageClass assembles the coverage-class variant of
// NL80211_CMD_SET_WIPHY (spec §4.5 table row "set-wiphy (coverage)").
func (h *Handle) SetWiphyCoverageClass(phy int, cc uint8) (err error) {
	defer func(start time.Time) { observe("set-wiphy-coverage", start, err) }(time.Now())
	if err = validateCoverageClass(cc); err != nil {
		return err
	}
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdSetWiphy))
	req.PutU32(nl80211.AttrWiphy, uint32(phy))
	req.PutU8(nl80211.AttrWiphyCoverageClass, cc)
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("set-wiphy-coverage", err)
}

// RetryThresholdUpdate selects which of the retry/threshold variant's
// optional components to send on one NL80211_CMD_SET_WIPHY request (spec
// §4.5 table row "set-wiphy (retry/threshold)": "wiphy-index,
// {retry-short|retry-long|frag-thresh|rts-thresh}" — any non-empty subset).
// A nil field is omitted from the request entirely.
type RetryThresholdUpdate struct {
	RetryShort    *uint8
	RetryLong     *uint8
	FragThreshold *uint32
	RTSThreshold  *uint32
}

// SetWiphyRetryThreshold assembles the retry/threshold variant of
// NL80211_CMD_SET_WIPHY, sending only the fields set in u.
func (h *Handle) SetWiphyRetryThreshold(phy int, u RetryThresholdUpdate) (err error) {
	defer func(start time.Time) { observe("set-wiphy-retry-threshold", start, err) }(time.Now())
	if u.RetryShort != nil {
		if err := validateRetry("set-wiphy", *u.RetryShort); err != nil {
			return err
		}
	}
	if u.RetryLong != nil {
		if err := validateRetry("set-wiphy", *u.RetryLong); err != nil {
			return err
		}
	}
	if u.FragThreshold != nil {
		if err := validateThreshold("set-wiphy", *u.FragThreshold, nl80211.FragThresholdOff); err != nil {
			return err
		}
	}
	if u.RTSThreshold != nil {
		if err := validateThreshold("set-wiphy", *u.RTSThreshold, nl80211.RTSThresholdOff); err != nil {
			return err
		}
	}
	if u.RetryShort == nil && u.RetryLong == nil && u.FragThreshold == nil && u.RTSThreshold == nil {
		return newError("set-wiphy", EINVAL, "at least one of retry-short, retry-long, frag-thresh, rts-thresh is required")
	}

	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdSetWiphy))
	req.PutU32(nl80211.AttrWiphy, uint32(phy))
	if u.RetryShort != nil {
		req.PutU8(nl80211.AttrWiphyRetryShort, *u.RetryShort)
	}
	if u.RetryLong != nil {
		req.PutU8(nl80211.AttrWiphyRetryLong, *u.RetryLong)
	}
	if u.FragThreshold != nil {
		req.PutU32(nl80211.AttrWiphyFragThreshold, *u.FragThreshold)
	}
	if u.RTSThreshold != nil {
		req.PutU32(nl80211.AttrWiphyRtsThreshold, *u.RTSThreshold)
	}
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("set-wiphy-retry-threshold", err)
}

// GetPowerSave assembles NL80211_CMD_GET_POWER_SAVE (spec §4.5 table).
func (h *Handle) GetPowerSave(ifindex int) (_ bool, err error) {
	defer func(start time.Time) { observe("get-power-save", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdGetPowerSave))
	req.PutU32(nl80211.AttrIfindex, uint32(ifindex))

	replies, err := netlink.Execute(h.sock, req, false)
	if err != nil {
		return false, wrapOpError("get-power-save", err)
	}
	if len(replies) == 0 {
		return false, newError("get-power-save", UNDEF, "no reply")
	}
	state, ok := replies[0].Find(nl80211.AttrPsState).Uint32()
	if !ok {
		return false, newError("get-power-save", UNDEF, "missing required NL80211_ATTR_PS_STATE")
	}
	return PSState(state) == PSEnabled, nil
}

// SetPowerSave assembles NL80211_CMD_SET_POWER_SAVE (spec §4.5 table).
func (h *Handle) SetPowerSave(ifindex int, state PSState) (err error) {
	defer func(start time.Time) { observe("set-power-save", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdSetPowerSave))
	req.PutU32(nl80211.AttrIfindex, uint32(ifindex))
	req.PutU32(nl80211.AttrPsState, uint32(state))
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("set-power-save", err)
}

// GetReg assembles NL80211_CMD_GET_REG and decodes the 2-character
// regulatory-domain code (spec §4.5 table; spec §8 boundary scenario 2).
func (h *Handle) GetReg() (_ string, err error) {
	defer func(start time.Time) { observe("get-reg", start, err) }(time.Now())
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdGetReg))

	replies, err := netlink.Execute(h.sock, req, false)
	if err != nil {
		return "", wrapOpError("get-reg", err)
	}
	if len(replies) == 0 {
		return "", newError("get-reg", UNDEF, "no reply")
	}
	alpha2, ok := replies[0].Find(nl80211.AttrRegAlpha2).String()
	if !ok {
		return "", newError("get-reg", UNDEF, "missing required NL80211_ATTR_REG_ALPHA2")
	}
	return alpha2, nil
}

// GetReg is the one-shot free-function variant of Handle.GetReg.
func GetReg() (string, error) {
	var out string
	err := withHandle(func(h *Handle) error {
		var err error
		out, err = h.GetReg()
		return err
	})
	return out, err
}

// ReqSetReg assembles NL80211_CMD_REQ_SET_REG (spec §4.5 table; spec §8
// boundary scenario 3: the alpha2 code is upper-cased before sending).
func (h *Handle) ReqSetReg(alpha2 string) (err error) {
	defer func(start time.Time) { observe("req-set-reg", start, err) }(time.Now())
	normalized, err := normalizeAlpha2(alpha2)
	if err != nil {
		return err
	}
	req := h.newRequest(netlink.FlagRequest|netlink.FlagAck, uint8(nl80211.CmdReqSetReg))
	req.PutString(nl80211.AttrRegAlpha2, normalized)
	_, err = netlink.Execute(h.sock, req, false)
	return wrapOpError("req-set-reg", err)
}
