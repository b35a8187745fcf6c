package wifi

import (
	"encoding/binary"

	"github.com/wifinl/nl80211ctl/netlink"
	"github.com/wifinl/nl80211ctl/nl80211"
)

// decodeIftypeList decodes a NL80211_ATTR_SUPPORTED_IFTYPES or
// NL80211_ATTR_SOFTWARE_IFTYPES nested container. The kernel reuses each
// member attribute's identifier slot as the interface-type value itself,
// in big-endian — spec §9 "Interface-type list decoding endianness": "the
// supported-iftype and software-iftype lists carry each value in the
// attribute identifier slot, big-endian; decoders must extract the
// identifier, not the payload."
func decodeIftypeList(raw []byte) ([]IfType, error) {
	attrs, err := netlink.DecodeAttrs(raw)
	if err != nil {
		return nil, err
	}
	types := make([]IfType, 0, len(attrs))
	for _, a := range attrs {
		// The identifier IS the value, but decodeAttrs read its wire bytes
		// little-endian while the kernel wrote them big-endian; swap the
		// two bytes back rather than reading a.Data.
		var wire [2]byte
		binary.LittleEndian.PutUint16(wire[:], a.RawID)
		types = append(types, IfType(binary.BigEndian.Uint16(wire[:])))
	}
	return types, nil
}

// decodeCommandList decodes a NL80211_ATTR_SUPPORTED_COMMANDS nested
// container into command names via the schema's Command.String().
func decodeCommandList(raw []byte) ([]string, error) {
	attrs, err := netlink.DecodeAttrs(raw)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		// Member identifiers are list positions, not NL80211_ATTR_* values,
		// so the kind decodeAttrs assigned from the schema does not apply:
		// read the u32 payload directly.
		data := a.Bytes()
		if len(data) != 4 {
			continue
		}
		names = append(names, nl80211.Command(binary.LittleEndian.Uint32(data)).String())
	}
	return names, nil
}

// scanBandsForFrequencies implements the documented fallback for the
// wiphy-bands nested attribute, which spec §4.1/§9 says "is not reliably
// decodable by generic nested parsing": scan the raw bytes for the 4-byte
// little-endian encoding of each candidate frequency and treat a hit as
// "supported". candidates is supplied by the caller from an external
// frequency table (out of the core's scope per spec §1); this function
// performs no frequency-table lookups of its own.
//
// This is a lossy heuristic for the frequency list only: it does not
// recover per-frequency power or disabled flags (spec §9).
func scanBandsForFrequencies(raw []byte, candidates []uint32) []uint32 {
	var found []uint32
	for _, freq := range candidates {
		var enc [4]byte
		binary.LittleEndian.PutUint32(enc[:], freq)
		if containsSequence(raw, enc[:]) {
			found = append(found, freq)
		}
	}
	return found
}

func containsSequence(haystack, needle []byte) bool {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// decodeCipherSuites decodes a NL80211_ATTR_CIPHER_SUITES attribute, which
// is a flat array of big-endian u32 cipher suite selectors (not a nested
// container), resolving each selector to its symbolic name (spec §3
// "supported cipher suite selectors (by name)") the same way
// decodeCommandList resolves supported commands by name.
func decodeCipherSuites(raw []byte) []string {
	const width = 4
	out := make([]string, 0, len(raw)/width)
	for i := 0; i+width <= len(raw); i += width {
		out = append(out, nl80211.CipherSuiteName(binary.BigEndian.Uint32(raw[i:i+width])))
	}
	return out
}
